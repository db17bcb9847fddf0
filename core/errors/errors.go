package errors

import stderrors "errors"

// One sentinel per failure condition. Operations check every precondition
// before the first write, so a returned error always implies zero state
// change.
var (
	ErrUnauthorized        = stderrors.New("ledger: caller not authorized")
	ErrZeroAmount          = stderrors.New("ledger: amount must be positive")
	ErrSelfTransfer        = stderrors.New("ledger: sender equals recipient")
	ErrInsufficientFunds   = stderrors.New("ledger: insufficient balance")
	ErrSupplyExceeded      = stderrors.New("ledger: total supply exceeds cap")
	ErrMintLimitExceeded   = stderrors.New("ledger: mint limit exceeded")
	ErrArithmeticOverflow  = stderrors.New("ledger: arithmetic overflow")
	ErrArithmeticUnderflow = stderrors.New("ledger: arithmetic underflow")

	ErrAlreadyAuditor     = stderrors.New("registry: auditor already verified")
	ErrAuditorNotFound    = stderrors.New("registry: auditor not found")
	ErrMaxAuditorsReached = stderrors.New("registry: auditor capacity reached")

	ErrInvalidScore     = stderrors.New("audit: quality score out of range")
	ErrInvalidAuditData = stderrors.New("audit: audit data required")
	ErrDuplicateAudit   = stderrors.New("audit: report already submitted for id")

	ErrStakeActive = stderrors.New("stake: position already active")

	ErrDecayNotDue = stderrors.New("decay: period has not elapsed")

	ErrNotFound = stderrors.New("ledger: record not found")
)
