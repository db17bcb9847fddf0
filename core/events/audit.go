package events

import (
	"strconv"

	"repledger/core/types"
)

const (
	// TypeAuditorVerified is emitted when the admin verifies a new auditor.
	TypeAuditorVerified = "auditor.verified"
	// TypeAuditorRemoved is emitted when the admin removes an auditor.
	TypeAuditorRemoved = "auditor.removed"
	// TypeAuditorAudited is the liveness ping emitted by peer-audit signalling.
	TypeAuditorAudited = "auditor.audited"
	// TypeAuditSubmitted captures an accepted audit report submission.
	TypeAuditSubmitted = "audit.submitted"
)

// AuditorVerified captures a successful registry addition.
type AuditorVerified struct {
	Auditor [20]byte
}

// EventType satisfies the Event interface.
func (AuditorVerified) EventType() string { return TypeAuditorVerified }

// Event converts the structured payload into a broadcastable event.
func (e AuditorVerified) Event() *types.Event {
	return &types.Event{Type: TypeAuditorVerified, Attributes: map[string]string{
		"auditor": formatAddress(e.Auditor),
	}}
}

// AuditorRemoved captures a successful registry removal.
type AuditorRemoved struct {
	Auditor [20]byte
}

// EventType satisfies the Event interface.
func (AuditorRemoved) EventType() string { return TypeAuditorRemoved }

// Event converts the structured payload into a broadcastable event.
func (e AuditorRemoved) Event() *types.Event {
	return &types.Event{Type: TypeAuditorRemoved, Attributes: map[string]string{
		"auditor": formatAddress(e.Auditor),
	}}
}

// AuditorAudited captures the peer-audit liveness signal.
type AuditorAudited struct {
	Auditor [20]byte
}

// EventType satisfies the Event interface.
func (AuditorAudited) EventType() string { return TypeAuditorAudited }

// Event converts the structured payload into a broadcastable event.
func (e AuditorAudited) Event() *types.Event {
	return &types.Event{Type: TypeAuditorAudited, Attributes: map[string]string{
		"auditor": formatAddress(e.Auditor),
	}}
}

// AuditSubmitted captures an accepted audit report and its computed score.
type AuditSubmitted struct {
	Auditor [20]byte
	AuditID uint64
	Score   uint64
}

// EventType satisfies the Event interface.
func (AuditSubmitted) EventType() string { return TypeAuditSubmitted }

// Event converts the structured payload into a broadcastable event.
func (e AuditSubmitted) Event() *types.Event {
	return &types.Event{Type: TypeAuditSubmitted, Attributes: map[string]string{
		"auditor": formatAddress(e.Auditor),
		"auditId": strconv.FormatUint(e.AuditID, 10),
		"score":   strconv.FormatUint(e.Score, 10),
	}}
}
