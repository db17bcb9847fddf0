package registry

import (
	"testing"

	"repledger/core/errors"
	"repledger/core/events"
	"repledger/core/state"
	"repledger/storage"
)

func addr(index byte) [20]byte {
	var out [20]byte
	out[19] = index
	return out
}

// wideAddr spreads the index across two bytes so tests can mint more than 255
// distinct identities.
func wideAddr(index uint16) [20]byte {
	var out [20]byte
	out[18] = byte(index >> 8)
	out[19] = byte(index)
	return out
}

var admin = addr(255)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	manager := state.NewManager(storage.NewMemDB())
	if err := manager.SetAdmin(admin); err != nil {
		t.Fatalf("set admin: %v", err)
	}
	return NewEngine(manager, 0)
}

func TestVerifyRequiresAdmin(t *testing.T) {
	engine := newEngine(t)
	if err := engine.Verify(addr(1), addr(2)); err != errors.ErrUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err := engine.Verify(admin, addr(2)); err != nil {
		t.Fatalf("verify: %v", err)
	}
	ok, err := engine.IsAuditor(addr(2))
	if err != nil {
		t.Fatalf("is auditor: %v", err)
	}
	if !ok {
		t.Fatalf("expected membership after verify")
	}
}

func TestVerifyRejectsDuplicates(t *testing.T) {
	engine := newEngine(t)
	if err := engine.Verify(admin, addr(1)); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := engine.Verify(admin, addr(1)); err != errors.ErrAlreadyAuditor {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
}

func TestCapacityBound(t *testing.T) {
	engine := newEngine(t)
	for i := uint16(1); i <= uint16(MaxAuditors); i++ {
		if err := engine.Verify(admin, wideAddr(i)); err != nil {
			t.Fatalf("verify %d: %v", i, err)
		}
	}
	count, err := engine.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != MaxAuditors {
		t.Fatalf("expected full registry, got %d", count)
	}
	if err := engine.Verify(admin, wideAddr(1000)); err != errors.ErrMaxAuditorsReached {
		t.Fatalf("expected capacity rejection, got %v", err)
	}
	// Removing frees a slot for re-verification.
	if err := engine.Remove(admin, wideAddr(1)); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := engine.Verify(admin, wideAddr(1)); err != nil {
		t.Fatalf("re-verify after removal: %v", err)
	}
}

func TestRemoveDistinguishesMissing(t *testing.T) {
	engine := newEngine(t)
	if err := engine.Remove(admin, addr(9)); err != errors.ErrAuditorNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := engine.Remove(addr(1), addr(9)); err != errors.ErrUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAuditAuditorLivenessSignal(t *testing.T) {
	engine := newEngine(t)
	collector := events.NewCollector(8)
	engine.SetEmitter(collector)

	if err := engine.AuditAuditor(addr(1)); err != errors.ErrAuditorNotFound {
		t.Fatalf("expected unregistered target rejection, got %v", err)
	}
	if err := engine.Verify(admin, addr(1)); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := engine.AuditAuditor(addr(1)); err != nil {
		t.Fatalf("audit auditor: %v", err)
	}
	recent := collector.Recent()
	last := recent[len(recent)-1]
	if last.Type != events.TypeAuditorAudited {
		t.Fatalf("expected audited event, got %s", last.Type)
	}
}
