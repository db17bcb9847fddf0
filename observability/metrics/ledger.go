package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics aggregates the counters and gauges exposed by the node.
type LedgerMetrics struct {
	transfers       prometheus.Counter
	burns           prometheus.Counter
	auditsAccepted  prometheus.Counter
	stakesOpened    prometheus.Counter
	stakesReleased  prometheus.Counter
	decayTriggers   prometheus.Counter
	rejectedCalls   *prometheus.CounterVec
	totalSupply     prometheus.Gauge
	auditorCount    prometheus.Gauge
}

var (
	ledgerOnce     sync.Once
	ledgerRegistry *LedgerMetrics
)

// Ledger returns the process-wide metrics registry, registering collectors on
// first use.
func Ledger() *LedgerMetrics {
	ledgerOnce.Do(func() {
		ledgerRegistry = &LedgerMetrics{
			transfers: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "repledger_transfers_total",
				Help: "Count of accepted balance transfers.",
			}),
			burns: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "repledger_burns_total",
				Help: "Count of accepted burns.",
			}),
			auditsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "repledger_audits_accepted_total",
				Help: "Count of accepted audit report submissions.",
			}),
			stakesOpened: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "repledger_stakes_opened_total",
				Help: "Count of staking positions opened.",
			}),
			stakesReleased: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "repledger_stakes_released_total",
				Help: "Count of staking positions released.",
			}),
			decayTriggers: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "repledger_decay_triggers_total",
				Help: "Count of accepted global decay triggers.",
			}),
			rejectedCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "repledger_rejected_calls_total",
				Help: "Count of rejected state transitions by operation.",
			}, []string{"operation"}),
			totalSupply: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "repledger_total_supply",
				Help: "Current total token supply.",
			}),
			auditorCount: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "repledger_auditor_count",
				Help: "Current verified auditor count.",
			}),
		}
		prometheus.MustRegister(
			ledgerRegistry.transfers,
			ledgerRegistry.burns,
			ledgerRegistry.auditsAccepted,
			ledgerRegistry.stakesOpened,
			ledgerRegistry.stakesReleased,
			ledgerRegistry.decayTriggers,
			ledgerRegistry.rejectedCalls,
			ledgerRegistry.totalSupply,
			ledgerRegistry.auditorCount,
		)
	})
	return ledgerRegistry
}

func (m *LedgerMetrics) ObserveTransfer() {
	if m == nil {
		return
	}
	m.transfers.Inc()
}

func (m *LedgerMetrics) ObserveBurn() {
	if m == nil {
		return
	}
	m.burns.Inc()
}

func (m *LedgerMetrics) ObserveAuditAccepted() {
	if m == nil {
		return
	}
	m.auditsAccepted.Inc()
}

func (m *LedgerMetrics) ObserveStakeOpened() {
	if m == nil {
		return
	}
	m.stakesOpened.Inc()
}

func (m *LedgerMetrics) ObserveStakeReleased() {
	if m == nil {
		return
	}
	m.stakesReleased.Inc()
}

func (m *LedgerMetrics) ObserveDecayTrigger() {
	if m == nil {
		return
	}
	m.decayTriggers.Inc()
}

func (m *LedgerMetrics) IncRejected(operation string) {
	if m == nil {
		return
	}
	if operation == "" {
		operation = "unknown"
	}
	m.rejectedCalls.WithLabelValues(operation).Inc()
}

func (m *LedgerMetrics) SetTotalSupply(supply float64) {
	if m == nil {
		return
	}
	m.totalSupply.Set(supply)
}

func (m *LedgerMetrics) SetAuditorCount(count float64) {
	if m == nil {
		return
	}
	m.auditorCount.Set(count)
}
