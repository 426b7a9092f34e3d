// Package notifications hands user-facing emails to the delivery pipeline.
package notifications

//go:generate mockgen -source=gateway.go -destination=mocks/mocks.go -package=mocks Gateway

import (
	"context"
	"fmt"
	"strings"
)

// Gateway sends the emails the parking workflows produce. Callers treat
// every error as a side-channel failure.
type Gateway interface {
	SendApprovalEmail(ctx context.Context, msg ApprovalEmail) error
	SendOTPEmail(ctx context.Context, msg OTPEmail) error
}

// ApprovalEmail tells a user which slot their request was bound to.
type ApprovalEmail struct {
	To           string
	SlotNumber   int
	LicensePlate string
	Location     *string
}

// OTPEmail delivers a verification code.
type OTPEmail struct {
	To   string
	Name string
	Code string
}

// Kind tags an email job for the delivery worker.
type Kind string

const (
	KindSlotApproved Kind = "slot_approved"
	KindOTP          Kind = "otp_verification"
)

// Email is the rendered job handed to a transport.
type Email struct {
	Kind    Kind   `json:"kind"`
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

func renderApproval(from string, msg ApprovalEmail) (Email, error) {
	if strings.TrimSpace(msg.To) == "" {
		return Email{}, fmt.Errorf("approval email recipient required")
	}
	location := "the main lot"
	if msg.Location != nil && strings.TrimSpace(*msg.Location) != "" {
		location = strings.TrimSpace(*msg.Location)
	}
	plate := msg.LicensePlate
	if plate == "" {
		plate = "your vehicle"
	}
	return Email{
		Kind:    KindSlotApproved,
		From:    from,
		To:      msg.To,
		Subject: "Parking slot approved",
		Text: fmt.Sprintf(
			"Your parking request for %s has been approved.\nAssigned slot: %d\nLocation: %s\n",
			plate, msg.SlotNumber, location,
		),
	}, nil
}

func renderOTP(from string, msg OTPEmail) (Email, error) {
	if strings.TrimSpace(msg.To) == "" {
		return Email{}, fmt.Errorf("otp email recipient required")
	}
	greeting := "Hello"
	if msg.Name != "" {
		greeting = "Hello " + msg.Name
	}
	return Email{
		Kind:    KindOTP,
		From:    from,
		To:      msg.To,
		Subject: "Your verification code",
		Text:    fmt.Sprintf("%s,\nYour verification code is %s. It expires in a few minutes.\n", greeting, msg.Code),
	}, nil
}
