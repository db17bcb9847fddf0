package audit

import (
	"math/big"
	"strings"

	"repledger/core/errors"
	"repledger/core/events"
	"repledger/core/types"
	"repledger/native/common"
)

const (
	// MaxScore bounds a valid quality score.
	MaxScore uint64 = 100

	// Reputation multiplier tiers, in hundredths.
	MultiplierBase   uint64 = 100
	MultiplierSilver uint64 = 125
	MultiplierGold   uint64 = 150

	// Average-score thresholds for the silver and gold tiers.
	silverThreshold uint64 = 80
	goldThreshold   uint64 = 90
)

// auditState abstracts the subset of state manager functionality required by
// the audit scoring engine.
type auditState interface {
	IsAuditor(addr [20]byte) (bool, error)
	AuditRecord(auditID uint64, auditor [20]byte) (*types.AuditRecord, bool, error)
	PutAuditRecord(auditID uint64, auditor [20]byte, record *types.AuditRecord) error
	AuditorStats(auditor [20]byte) (*types.AuditorStats, error)
	PutAuditorStats(auditor [20]byte, stats *types.AuditorStats) error
}

// Engine accepts scored audit reports from verified auditors and maintains
// per-auditor running statistics.
type Engine struct {
	state   auditState
	emitter events.Emitter
}

// NewEngine constructs an audit scoring engine bound to the provided state
// backend.
func NewEngine(state auditState) *Engine {
	return &Engine{state: state, emitter: events.NoopEmitter{}}
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

// QualityScore blends the three report factors into a single score with
// accuracy double-weighted: (completeness + 2×accuracy + timeliness) / 4,
// truncating.
func QualityScore(completeness, accuracy, timeliness uint64) (uint64, error) {
	weighted, err := common.SafeMul(accuracy, 2)
	if err != nil {
		return 0, err
	}
	sum, err := common.SafeAdd(completeness, weighted)
	if err != nil {
		return 0, err
	}
	sum, err = common.SafeAdd(sum, timeliness)
	if err != nil {
		return 0, err
	}
	return sum / 4, nil
}

// Multiplier derives the reputation multiplier tier from a running average
// score.
func Multiplier(averageScore uint64) uint64 {
	switch {
	case averageScore >= goldThreshold:
		return MultiplierGold
	case averageScore >= silverThreshold:
		return MultiplierSilver
	default:
		return MultiplierBase
	}
}

// SubmitReport stores a completed audit record for (auditID, caller) and
// folds the computed score into the caller's running statistics. Duplicate
// submissions for the same audit id are rejected rather than overwritten so
// the running mean never double counts.
func (e *Engine) SubmitReport(caller [20]byte, auditID, completeness, accuracy, timeliness uint64, auditData string, now uint64) (uint64, error) {
	isAuditor, err := e.state.IsAuditor(caller)
	if err != nil {
		return 0, err
	}
	if !isAuditor {
		return 0, errors.ErrUnauthorized
	}
	if strings.TrimSpace(auditData) == "" {
		return 0, errors.ErrInvalidAuditData
	}
	score, err := QualityScore(completeness, accuracy, timeliness)
	if err != nil {
		return 0, err
	}
	if score > MaxScore {
		return 0, errors.ErrInvalidScore
	}
	if _, exists, err := e.state.AuditRecord(auditID, caller); err != nil {
		return 0, err
	} else if exists {
		return 0, errors.ErrDuplicateAudit
	}
	stats, err := e.state.AuditorStats(caller)
	if err != nil {
		return 0, err
	}
	updated, err := foldScore(stats, score)
	if err != nil {
		return 0, err
	}
	record := &types.AuditRecord{
		Score:     score,
		Height:    now,
		Status:    types.AuditStatusCompleted,
		AuditData: auditData,
	}
	if err := e.state.PutAuditRecord(auditID, caller, record); err != nil {
		return 0, err
	}
	if err := e.state.PutAuditorStats(caller, updated); err != nil {
		return 0, err
	}
	e.emitter.Emit(events.AuditSubmitted{Auditor: caller, AuditID: auditID, Score: score})
	return score, nil
}

// foldScore applies the running-mean update (avg×n + score) / (n+1) and
// recomputes the multiplier from the new average. Intermediates use big.Int
// and narrow exactly once.
func foldScore(stats *types.AuditorStats, score uint64) (*types.AuditorStats, error) {
	count, err := common.SafeAdd(stats.TotalAudits, 1)
	if err != nil {
		return nil, err
	}
	total := new(big.Int).SetUint64(stats.AverageScore)
	total.Mul(total, new(big.Int).SetUint64(stats.TotalAudits))
	total.Add(total, new(big.Int).SetUint64(score))
	total.Div(total, new(big.Int).SetUint64(count))
	average, err := common.NarrowBig(total)
	if err != nil {
		return nil, err
	}
	return &types.AuditorStats{
		TotalAudits:          count,
		AverageScore:         average,
		ReputationMultiplier: Multiplier(average),
	}, nil
}

// Record returns the stored report for (auditID, auditor).
func (e *Engine) Record(auditID uint64, auditor [20]byte) (*types.AuditRecord, error) {
	record, ok, err := e.state.AuditRecord(auditID, auditor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.ErrNotFound
	}
	return record, nil
}

// Stats returns the running statistics for the auditor. Auditors without
// accepted reports yield zero counts and the base multiplier.
func (e *Engine) Stats(auditor [20]byte) (*types.AuditorStats, error) {
	stats, err := e.state.AuditorStats(auditor)
	if err != nil {
		return nil, err
	}
	if stats.TotalAudits == 0 {
		stats.ReputationMultiplier = MultiplierBase
	}
	return stats, nil
}
