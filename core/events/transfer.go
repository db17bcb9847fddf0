package events

import (
	"strings"

	"repledger/core/types"
)

const (
	// TypeTransfer captures a completed balance transfer.
	TypeTransfer = "ledger.transfer"
	// TypeBurned captures a supply-reducing burn.
	TypeBurned = "ledger.burned"
)

// Transfer carries the payload emitted after a successful transfer.
type Transfer struct {
	From   [20]byte
	To     [20]byte
	Amount uint64
	Memo   string
}

// EventType satisfies the Event interface.
func (Transfer) EventType() string { return TypeTransfer }

// Event converts the structured payload into a broadcastable event.
func (e Transfer) Event() *types.Event {
	attrs := map[string]string{
		"from":   formatAddress(e.From),
		"to":     formatAddress(e.To),
		"amount": formatAmount(e.Amount),
	}
	if memo := strings.TrimSpace(e.Memo); memo != "" {
		attrs["memo"] = memo
	}
	return &types.Event{Type: TypeTransfer, Attributes: attrs}
}

// Burned carries the payload emitted after a successful burn.
type Burned struct {
	Owner  [20]byte
	Amount uint64
	Supply uint64
}

// EventType satisfies the Event interface.
func (Burned) EventType() string { return TypeBurned }

// Event converts the structured payload into a broadcastable event.
func (e Burned) Event() *types.Event {
	attrs := map[string]string{
		"owner":  formatAddress(e.Owner),
		"amount": formatAmount(e.Amount),
		"supply": formatAmount(e.Supply),
	}
	return &types.Event{Type: TypeBurned, Attributes: attrs}
}
