package ledger

import (
	"testing"

	"repledger/core/errors"
	"repledger/core/events"
	"repledger/core/state"
	"repledger/core/types"
	"repledger/storage"
)

const testMaxSupply = 1_000_000_000_000_000

func addr(index byte) [20]byte {
	var out [20]byte
	out[19] = index
	return out
}

func newEngine(t *testing.T) (*Engine, *state.Manager) {
	t.Helper()
	manager := state.NewManager(storage.NewMemDB())
	return NewEngine(manager, testMaxSupply), manager
}

func fund(t *testing.T, manager *state.Manager, holder [20]byte, amount uint64) {
	t.Helper()
	if err := manager.PutAccount(holder, &types.Account{Balance: amount}); err != nil {
		t.Fatalf("fund account: %v", err)
	}
	supply, err := manager.TokenSupply()
	if err != nil {
		t.Fatalf("supply: %v", err)
	}
	if err := manager.SetTokenSupply(supply + amount); err != nil {
		t.Fatalf("set supply: %v", err)
	}
}

func TestTransferMovesBalanceAndStampsRecipient(t *testing.T) {
	engine, manager := newEngine(t)
	fund(t, manager, addr(1), 1_000)

	if err := engine.Transfer(addr(1), addr(1), addr(2), 400, "audit fee", 77); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	sender, err := engine.BalanceOf(addr(1))
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	recipient, err := engine.BalanceOf(addr(2))
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if sender != 600 || recipient != 400 {
		t.Fatalf("unexpected balances sender=%d recipient=%d", sender, recipient)
	}
	account, err := manager.Account(addr(2))
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if account.LastInteraction != 77 {
		t.Fatalf("expected recipient stamped at 77, got %d", account.LastInteraction)
	}
}

func TestTransferPreservesSupplyInvariant(t *testing.T) {
	engine, manager := newEngine(t)
	fund(t, manager, addr(1), 900)
	fund(t, manager, addr(2), 100)

	before, err := engine.TotalSupply()
	if err != nil {
		t.Fatalf("supply: %v", err)
	}
	if err := engine.Transfer(addr(1), addr(1), addr(2), 250, "", 5); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	after, err := engine.TotalSupply()
	if err != nil {
		t.Fatalf("supply: %v", err)
	}
	a, _ := engine.BalanceOf(addr(1))
	b, _ := engine.BalanceOf(addr(2))
	if before != after {
		t.Fatalf("supply changed across transfer: %d -> %d", before, after)
	}
	if a+b != after {
		t.Fatalf("balance sum %d does not equal supply %d", a+b, after)
	}
}

func TestTransferPreconditions(t *testing.T) {
	engine, manager := newEngine(t)
	fund(t, manager, addr(1), 100)

	if err := engine.Transfer(addr(2), addr(1), addr(3), 10, "", 1); err != errors.ErrUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err := engine.Transfer(addr(1), addr(1), addr(3), 0, "", 1); err != errors.ErrZeroAmount {
		t.Fatalf("expected zero amount, got %v", err)
	}
	if err := engine.Transfer(addr(1), addr(1), addr(1), 10, "", 1); err != errors.ErrSelfTransfer {
		t.Fatalf("expected self transfer, got %v", err)
	}
	if err := engine.Transfer(addr(1), addr(1), addr(3), 101, "", 1); err != errors.ErrInsufficientFunds {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
	// Failed calls leave state untouched.
	balance, err := engine.BalanceOf(addr(1))
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 100 {
		t.Fatalf("expected untouched balance 100, got %d", balance)
	}
}

func TestBurnShrinksSupply(t *testing.T) {
	engine, manager := newEngine(t)
	fund(t, manager, addr(1), 1_000)

	if err := engine.Burn(addr(1), addr(1), 300); err != nil {
		t.Fatalf("burn: %v", err)
	}
	balance, _ := engine.BalanceOf(addr(1))
	supply, _ := engine.TotalSupply()
	if balance != 700 || supply != 700 {
		t.Fatalf("unexpected balance=%d supply=%d", balance, supply)
	}

	if err := engine.Burn(addr(2), addr(1), 1); err != errors.ErrUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err := engine.Burn(addr(1), addr(1), 0); err != errors.ErrZeroAmount {
		t.Fatalf("expected zero amount, got %v", err)
	}
	if err := engine.Burn(addr(1), addr(1), 10_000); err != errors.ErrInsufficientFunds {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
}

func TestCheckMaxSupply(t *testing.T) {
	engine, manager := newEngine(t)
	if err := engine.CheckMaxSupply(); err != nil {
		t.Fatalf("empty ledger within cap: %v", err)
	}
	if err := manager.SetTokenSupply(testMaxSupply); err != nil {
		t.Fatalf("set supply: %v", err)
	}
	if err := engine.CheckMaxSupply(); err != nil {
		t.Fatalf("supply at cap should pass: %v", err)
	}
	if err := manager.SetTokenSupply(testMaxSupply + 1); err != nil {
		t.Fatalf("set supply: %v", err)
	}
	if err := engine.CheckMaxSupply(); err != errors.ErrSupplyExceeded {
		t.Fatalf("expected supply exceeded, got %v", err)
	}
}

func TestTransferEmitsEvent(t *testing.T) {
	engine, manager := newEngine(t)
	fund(t, manager, addr(1), 100)
	collector := events.NewCollector(8)
	engine.SetEmitter(collector)

	if err := engine.Transfer(addr(1), addr(1), addr(2), 25, "hello", 9); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	recent := collector.Recent()
	if len(recent) != 1 {
		t.Fatalf("expected one event, got %d", len(recent))
	}
	if recent[0].Type != events.TypeTransfer {
		t.Fatalf("unexpected event type %s", recent[0].Type)
	}
	if recent[0].Attributes["amount"] != "25" || recent[0].Attributes["memo"] != "hello" {
		t.Fatalf("unexpected attributes %v", recent[0].Attributes)
	}
}

func TestMetadataMissing(t *testing.T) {
	engine, _ := newEngine(t)
	if _, err := engine.Metadata(); err != errors.ErrNotFound {
		t.Fatalf("expected not found before init, got %v", err)
	}
}
