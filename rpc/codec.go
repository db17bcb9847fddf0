package rpc

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"repledger/core/errors"
	"repledger/crypto"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps the ledger error taxonomy onto HTTP status codes. Unknown
// errors are reported as internal failures without leaking detail.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case stderrors.Is(err, errors.ErrUnauthorized):
		status = http.StatusForbidden
	case stderrors.Is(err, errors.ErrNotFound),
		stderrors.Is(err, errors.ErrAuditorNotFound):
		status = http.StatusNotFound
	case stderrors.Is(err, errors.ErrAlreadyAuditor),
		stderrors.Is(err, errors.ErrDuplicateAudit),
		stderrors.Is(err, errors.ErrStakeActive):
		status = http.StatusConflict
	case stderrors.Is(err, errors.ErrZeroAmount),
		stderrors.Is(err, errors.ErrSelfTransfer),
		stderrors.Is(err, errors.ErrInvalidScore),
		stderrors.Is(err, errors.ErrInvalidAuditData):
		status = http.StatusBadRequest
	case stderrors.Is(err, errors.ErrInsufficientFunds),
		stderrors.Is(err, errors.ErrMaxAuditorsReached),
		stderrors.Is(err, errors.ErrSupplyExceeded),
		stderrors.Is(err, errors.ErrArithmeticOverflow),
		stderrors.Is(err, errors.ErrArithmeticUnderflow):
		status = http.StatusUnprocessableEntity
	case stderrors.Is(err, errors.ErrDecayNotDue):
		status = http.StatusTooEarly
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeBody(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func parseAddress(value string) ([20]byte, error) {
	addr, err := crypto.DecodeAddress(value)
	if err != nil {
		return [20]byte{}, err
	}
	return addr.Raw(), nil
}

func formatAddress(addr [20]byte) string {
	return crypto.MustNewAddress(crypto.RepPrefix, addr[:]).String()
}
