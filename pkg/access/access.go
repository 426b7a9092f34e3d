// Package access holds the capability checks evaluated before any service
// touches the store.
package access

import (
	"github.com/BlessingGianna7/rest-pms-system/pkg/enums"
	pkgerrors "github.com/BlessingGianna7/rest-pms-system/pkg/errors"
)

// Capability names one privileged operation.
type Capability string

const (
	ApproveRequests    Capability = "slot_requests:approve"
	RejectRequests     Capability = "slot_requests:reject"
	ViewAllRequests    Capability = "slot_requests:view_all"
	ManageSlots        Capability = "slots:manage"
	ViewAllSlots       Capability = "slots:view_all"
	ManageAnyVehicle   Capability = "vehicles:manage_any"
	ManageUsers        Capability = "users:manage"
	ViewAuditLogs      Capability = "audit_logs:view"
	SearchVehiclesByID Capability = "vehicles:search_id"
)

var grants = map[enums.Role]map[Capability]struct{}{
	enums.RoleAdmin: {
		ApproveRequests:    {},
		RejectRequests:     {},
		ViewAllRequests:    {},
		ManageSlots:        {},
		ViewAllSlots:       {},
		ManageAnyVehicle:   {},
		ManageUsers:        {},
		ViewAuditLogs:      {},
		SearchVehiclesByID: {},
	},
	enums.RoleUser: {},
}

// Actor is the authenticated caller resolved by the transport layer.
type Actor struct {
	UserID uint
	Role   enums.Role
}

// Authenticated reports whether the actor carries an identity.
func (a Actor) Authenticated() bool {
	return a.UserID != 0 && a.Role.IsValid()
}

// Can reports whether the actor's role grants c.
func (a Actor) Can(c Capability) bool {
	caps, ok := grants[a.Role]
	if !ok {
		return false
	}
	_, ok = caps[c]
	return ok
}

// Require returns a forbidden error unless the actor holds c.
func Require(a Actor, c Capability) error {
	if !a.Authenticated() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if !a.Can(c) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "access denied").WithDetails(map[string]any{"capability": string(c)})
	}
	return nil
}

// RequireAuthenticated rejects anonymous actors.
func RequireAuthenticated(a Actor) error {
	if !a.Authenticated() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return nil
}
