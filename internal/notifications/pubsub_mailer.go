package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
)

type publisher interface {
	Publish(ctx context.Context, msg *gcppubsub.Message) publishResult
}

type publishResult interface {
	Get(ctx context.Context) (string, error)
}

// PubSubMailer publishes rendered emails as jobs on a Pub/Sub topic and
// waits for the broker acknowledgement.
type PubSubMailer struct {
	pub     publisher
	from    string
	timeout time.Duration
}

func NewPubSubMailer(p *gcppubsub.Publisher, from string, timeout time.Duration) (*PubSubMailer, error) {
	if p == nil {
		return nil, errors.New("email publisher required")
	}
	return newPubSubMailer(&gcpPublisher{Publisher: p}, from, timeout), nil
}

func newPubSubMailer(p publisher, from string, timeout time.Duration) *PubSubMailer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PubSubMailer{pub: p, from: from, timeout: timeout}
}

func (m *PubSubMailer) SendApprovalEmail(ctx context.Context, msg ApprovalEmail) error {
	email, err := renderApproval(m.from, msg)
	if err != nil {
		return err
	}
	return m.publish(ctx, email)
}

func (m *PubSubMailer) SendOTPEmail(ctx context.Context, msg OTPEmail) error {
	email, err := renderOTP(m.from, msg)
	if err != nil {
		return err
	}
	return m.publish(ctx, email)
}

func (m *PubSubMailer) publish(ctx context.Context, email Email) error {
	payload, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	result := m.pub.Publish(ctx, &gcppubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"kind":   string(email.Kind),
			"job_id": uuid.NewString(),
		},
	})
	if result == nil {
		return errors.New("publish result is nil")
	}
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish email job: %w", err)
	}
	return nil
}

type gcpPublisher struct {
	*gcppubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	if p == nil || p.Publisher == nil {
		return nil
	}
	return &gcpPublishResult{PublishResult: p.Publisher.Publish(ctx, msg)}
}

type gcpPublishResult struct {
	*gcppubsub.PublishResult
}

func (r *gcpPublishResult) Get(ctx context.Context) (string, error) {
	if r == nil || r.PublishResult == nil {
		return "", errors.New("publish result is nil")
	}
	return r.PublishResult.Get(ctx)
}
