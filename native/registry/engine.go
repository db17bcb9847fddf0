package registry

import (
	"repledger/core/errors"
	"repledger/core/events"
)

// MaxAuditors bounds the verified auditor set.
const MaxAuditors uint64 = 100

// registryState abstracts the subset of state manager functionality required
// by the auditor registry.
type registryState interface {
	Auditors() ([][20]byte, error)
	SetAuditors(set [][20]byte) error
	Admin() ([20]byte, bool, error)
}

// Engine manages the admin-gated set of verified auditors. The count is
// always the cardinality of the stored set; no separate counter exists to
// drift.
type Engine struct {
	state       registryState
	emitter     events.Emitter
	maxAuditors uint64
}

// NewEngine constructs a registry engine. A zero capacity falls back to
// MaxAuditors.
func NewEngine(state registryState, maxAuditors uint64) *Engine {
	if maxAuditors == 0 {
		maxAuditors = MaxAuditors
	}
	return &Engine{state: state, emitter: events.NoopEmitter{}, maxAuditors: maxAuditors}
}

// SetEmitter overrides the event sink.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if e == nil {
		return
	}
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) requireAdmin(caller [20]byte) error {
	admin, ok, err := e.state.Admin()
	if err != nil {
		return err
	}
	if !ok || caller != admin {
		return errors.ErrUnauthorized
	}
	return nil
}

// Verify adds the candidate to the verified set. Admin only.
func (e *Engine) Verify(caller, candidate [20]byte) error {
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	set, err := e.state.Auditors()
	if err != nil {
		return err
	}
	for _, auditor := range set {
		if auditor == candidate {
			return errors.ErrAlreadyAuditor
		}
	}
	if uint64(len(set)) >= e.maxAuditors {
		return errors.ErrMaxAuditorsReached
	}
	if err := e.state.SetAuditors(append(set, candidate)); err != nil {
		return err
	}
	e.emitter.Emit(events.AuditorVerified{Auditor: candidate})
	return nil
}

// Remove deletes the auditor from the verified set. Admin only.
func (e *Engine) Remove(caller, auditor [20]byte) error {
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	set, err := e.state.Auditors()
	if err != nil {
		return err
	}
	index := -1
	for i, member := range set {
		if member == auditor {
			index = i
			break
		}
	}
	if index < 0 {
		return errors.ErrAuditorNotFound
	}
	if err := e.state.SetAuditors(append(set[:index], set[index+1:]...)); err != nil {
		return err
	}
	e.emitter.Emit(events.AuditorRemoved{Auditor: auditor})
	return nil
}

// AuditAuditor emits the peer-audit liveness signal for the target. The
// target must itself be a verified auditor.
func (e *Engine) AuditAuditor(target [20]byte) error {
	ok, err := e.isAuditor(target)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrAuditorNotFound
	}
	e.emitter.Emit(events.AuditorAudited{Auditor: target})
	return nil
}

// IsAuditor reports whether the identity is a verified auditor.
func (e *Engine) IsAuditor(addr [20]byte) (bool, error) {
	return e.isAuditor(addr)
}

func (e *Engine) isAuditor(addr [20]byte) (bool, error) {
	set, err := e.state.Auditors()
	if err != nil {
		return false, err
	}
	for _, auditor := range set {
		if auditor == addr {
			return true, nil
		}
	}
	return false, nil
}

// Count reports the cardinality of the verified auditor set.
func (e *Engine) Count() (uint64, error) {
	set, err := e.state.Auditors()
	if err != nil {
		return 0, err
	}
	return uint64(len(set)), nil
}
