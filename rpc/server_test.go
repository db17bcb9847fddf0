package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"repledger/core"
	"repledger/core/types"
	"repledger/storage"
)

func addr(index byte) [20]byte {
	var out [20]byte
	out[19] = index
	return out
}

func newTestServer(t *testing.T) (*Server, *core.Node) {
	t.Helper()
	node, err := core.NewNode(storage.NewMemDB(), core.Params{
		MaxSupply:   1_000_000_000,
		DecayRate:   1,
		DecayPeriod: 144,
		MaxAuditors: 100,
		RewardRate:  5,
		Token: types.TokenMetadata{
			Name:     "Reputation Token",
			Symbol:   "REPT",
			Decimals: 6,
			URI:      "https://repledger.example/token.json",
		},
		Admin: addr(1),
	})
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	allocations := map[[20]byte]uint64{
		addr(2): 1_000_000,
		addr(3): 500_000,
	}
	if err := node.InitGenesis(allocations); err != nil {
		t.Fatalf("init genesis: %v", err)
	}
	return NewServer(node, nil), node
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestServerTokenMetadata(t *testing.T) {
	server, _ := newTestServer(t)
	router := server.Router()

	rec := doJSON(t, router, http.MethodGet, "/v1/token/metadata", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metadata status = %d", rec.Code)
	}
	var meta types.TokenMetadata
	decodeResponse(t, rec, &meta)
	if meta.Symbol != "REPT" || meta.Decimals != 6 {
		t.Fatalf("unexpected metadata: %+v", meta)
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/token/supply", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("supply status = %d", rec.Code)
	}
	var supply map[string]uint64
	decodeResponse(t, rec, &supply)
	if supply["totalSupply"] != 1_500_000 {
		t.Fatalf("totalSupply = %d, want 1500000", supply["totalSupply"])
	}
}

func TestServerTransfer(t *testing.T) {
	server, _ := newTestServer(t)
	router := server.Router()

	from := formatAddress(addr(2))
	to := formatAddress(addr(3))

	rec := doJSON(t, router, http.MethodPost, "/v1/tx/transfer", map[string]interface{}{
		"caller": from,
		"from":   from,
		"to":     to,
		"amount": 250_000,
		"memo":   "settlement",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("transfer status = %d body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/v1/accounts/%s/balance", to), nil)
	var balance map[string]uint64
	decodeResponse(t, rec, &balance)
	if balance["balance"] != 750_000 {
		t.Fatalf("recipient balance = %d, want 750000", balance["balance"])
	}
}

func TestServerTransferErrorMapping(t *testing.T) {
	server, _ := newTestServer(t)
	router := server.Router()

	from := formatAddress(addr(2))
	to := formatAddress(addr(3))
	stranger := formatAddress(addr(9))

	// Caller that is not the owner is forbidden.
	rec := doJSON(t, router, http.MethodPost, "/v1/tx/transfer", map[string]interface{}{
		"caller": stranger,
		"from":   from,
		"to":     to,
		"amount": 1,
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unauthorized transfer status = %d", rec.Code)
	}

	// Zero amount is a malformed request.
	rec = doJSON(t, router, http.MethodPost, "/v1/tx/transfer", map[string]interface{}{
		"caller": from,
		"from":   from,
		"to":     to,
		"amount": 0,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("zero amount status = %d", rec.Code)
	}

	// Overdraft is a semantic rejection.
	rec = doJSON(t, router, http.MethodPost, "/v1/tx/transfer", map[string]interface{}{
		"caller": from,
		"from":   from,
		"to":     to,
		"amount": 10_000_000,
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("overdraft status = %d", rec.Code)
	}

	// Malformed address never reaches the core.
	rec = doJSON(t, router, http.MethodPost, "/v1/tx/transfer", map[string]interface{}{
		"caller": "not-an-address",
		"from":   from,
		"to":     to,
		"amount": 1,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad address status = %d", rec.Code)
	}
}

func TestServerAuditorLifecycle(t *testing.T) {
	server, _ := newTestServer(t)
	router := server.Router()

	admin := formatAddress(addr(1))
	auditor := formatAddress(addr(4))

	rec := doJSON(t, router, http.MethodPost, "/v1/tx/auditors/verify", map[string]interface{}{
		"caller":    admin,
		"candidate": auditor,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("verify status = %d body = %s", rec.Code, rec.Body.String())
	}

	// Verifying twice conflicts.
	rec = doJSON(t, router, http.MethodPost, "/v1/tx/auditors/verify", map[string]interface{}{
		"caller":    admin,
		"candidate": auditor,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate verify status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/auditors/count", nil)
	var count map[string]uint64
	decodeResponse(t, rec, &count)
	if count["count"] != 1 {
		t.Fatalf("auditor count = %d, want 1", count["count"])
	}

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/v1/auditors/%s", auditor), nil)
	var membership map[string]bool
	decodeResponse(t, rec, &membership)
	if !membership["verified"] {
		t.Fatalf("expected auditor to be verified")
	}

	rec = doJSON(t, router, http.MethodPost, "/v1/tx/auditors/remove", map[string]interface{}{
		"caller":  admin,
		"auditor": auditor,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("remove status = %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodPost, "/v1/tx/auditors/remove", map[string]interface{}{
		"caller":  admin,
		"auditor": auditor,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("remove absent status = %d", rec.Code)
	}
}

func TestServerAuditSubmission(t *testing.T) {
	server, _ := newTestServer(t)
	router := server.Router()

	admin := formatAddress(addr(1))
	auditor := formatAddress(addr(4))

	rec := doJSON(t, router, http.MethodPost, "/v1/tx/auditors/verify", map[string]interface{}{
		"caller":    admin,
		"candidate": auditor,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("verify status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/v1/tx/audits", map[string]interface{}{
		"caller":       auditor,
		"auditId":      7,
		"completeness": 80,
		"accuracy":     90,
		"timeliness":   70,
		"auditData":    "ipfs://report-7",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("submit status = %d body = %s", rec.Code, rec.Body.String())
	}
	var result map[string]uint64
	decodeResponse(t, rec, &result)
	if result["score"] != 82 {
		t.Fatalf("score = %d, want 82", result["score"])
	}

	// Same audit id by the same auditor conflicts.
	rec = doJSON(t, router, http.MethodPost, "/v1/tx/audits", map[string]interface{}{
		"caller":       auditor,
		"auditId":      7,
		"completeness": 80,
		"accuracy":     90,
		"timeliness":   70,
		"auditData":    "ipfs://report-7",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate audit status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/v1/audits/7/%s", auditor), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("record status = %d", rec.Code)
	}
	var record types.AuditRecord
	decodeResponse(t, rec, &record)
	if record.Score != 82 {
		t.Fatalf("stored score = %d, want 82", record.Score)
	}

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/v1/auditors/%s/stats", auditor), nil)
	var stats types.AuditorStats
	decodeResponse(t, rec, &stats)
	if stats.TotalAudits != 1 || stats.AverageScore != 82 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestServerStakingRoundTrip(t *testing.T) {
	server, node := newTestServer(t)
	router := server.Router()

	staker := formatAddress(addr(2))
	node.SetHeight(50)

	rec := doJSON(t, router, http.MethodPost, "/v1/tx/stake", map[string]interface{}{
		"caller":     staker,
		"amount":     100_000,
		"lockPeriod": 100,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("stake status = %d body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/v1/stakes/%s", staker), nil)
	var position map[string]interface{}
	decodeResponse(t, rec, &position)
	if position["active"] != true {
		t.Fatalf("expected active position: %v", position)
	}
	if position["unlockHeight"].(float64) != 150 {
		t.Fatalf("unlockHeight = %v, want 150", position["unlockHeight"])
	}

	// Early release is forbidden.
	rec = doJSON(t, router, http.MethodPost, "/v1/tx/unstake", map[string]interface{}{"caller": staker})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("early unstake status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/v1/height", map[string]interface{}{"height": 200})
	if rec.Code != http.StatusOK {
		t.Fatalf("set height status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/v1/tx/unstake", map[string]interface{}{"caller": staker})
	if rec.Code != http.StatusOK {
		t.Fatalf("unstake status = %d body = %s", rec.Code, rec.Body.String())
	}
	var released map[string]uint64
	decodeResponse(t, rec, &released)
	if released["amount"] != 100_000 {
		t.Fatalf("released amount = %d, want 100000", released["amount"])
	}

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/v1/accounts/%s/balance", staker), nil)
	var balance map[string]uint64
	decodeResponse(t, rec, &balance)
	if balance["balance"] != 1_000_000 {
		t.Fatalf("post-release balance = %d, want 1000000", balance["balance"])
	}
}

func TestServerDecayTrigger(t *testing.T) {
	server, node := newTestServer(t)
	router := server.Router()

	// Before the period elapses the trigger is premature.
	rec := doJSON(t, router, http.MethodPost, "/v1/tx/decay/trigger", nil)
	if rec.Code != http.StatusTooEarly {
		t.Fatalf("premature trigger status = %d", rec.Code)
	}

	node.SetHeight(144)
	rec = doJSON(t, router, http.MethodPost, "/v1/tx/decay/trigger", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("trigger status = %d body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/decay/last", nil)
	var last map[string]uint64
	decodeResponse(t, rec, &last)
	if last["lastDecayHeight"] != 144 {
		t.Fatalf("lastDecayHeight = %d, want 144", last["lastDecayHeight"])
	}
}

func TestServerEvents(t *testing.T) {
	server, _ := newTestServer(t)
	router := server.Router()

	from := formatAddress(addr(2))
	to := formatAddress(addr(3))
	rec := doJSON(t, router, http.MethodPost, "/v1/tx/transfer", map[string]interface{}{
		"caller": from,
		"from":   from,
		"to":     to,
		"amount": 10,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("transfer status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/events", nil)
	var events []types.Event
	decodeResponse(t, rec, &events)
	if len(events) == 0 {
		t.Fatalf("expected at least one event")
	}
	found := false
	for _, evt := range events {
		if evt.Type == "ledger.transfer" {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing ledger.transfer event, got %+v", events)
	}
}

func TestServerHealthz(t *testing.T) {
	server, _ := newTestServer(t)
	router := server.Router()

	rec := doJSON(t, router, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
}
