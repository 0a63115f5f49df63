package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EscrowMetrics holds every engine-level metric.
type EscrowMetrics struct {
	JobsCreatedTotal    prometheus.Counter
	JobsCompletedTotal  prometheus.Counter
	JobsCancelledTotal  prometheus.Counter
	FundsDepositedTotal prometheus.Counter

	MilestonesFinalizedTotal  prometheus.CounterVec
	MilestonesFinalizedAmount prometheus.CounterVec
	PlatformFeeTotal          prometheus.Counter
	FinalizeFailuresTotal     prometheus.CounterVec

	DisputesRaisedTotal   prometheus.Counter
	DisputesResolvedTotal prometheus.CounterVec

	SchedulerTickDuration       prometheus.Histogram
	SchedulerCandidatesScanned  prometheus.Counter
	SchedulerCandidatesExecuted prometheus.Counter
	SchedulerCandidatesSkipped  prometheus.Counter

	LedgerRetriesTotal prometheus.Counter
}

func NewEscrowMetrics() *EscrowMetrics {
	return &EscrowMetrics{
		JobsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "escrow_jobs_created_total",
			Help: "Total number of jobs created",
		}),
		JobsCompletedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "escrow_jobs_completed_total",
			Help: "Total number of jobs whose milestones all settled",
		}),
		JobsCancelledTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "escrow_jobs_cancelled_total",
			Help: "Total number of cancelled jobs",
		}),
		FundsDepositedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "escrow_funds_deposited_total",
			Help: "Total token amount deposited into escrow",
		}),

		MilestonesFinalizedTotal: *promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "escrow_milestones_finalized_total",
			Help: "Milestones finalized, by finalize source",
		}, []string{"source"}),
		MilestonesFinalizedAmount: *promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "escrow_milestones_finalized_amount_total",
			Help: "Token amount released to freelancers, by finalize source",
		}, []string{"source"}),
		PlatformFeeTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "escrow_platform_fee_total",
			Help: "Token amount collected as platform fees",
		}),
		FinalizeFailuresTotal: *promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "escrow_finalize_failures_total",
			Help: "Finalize attempts that aborted, by error kind",
		}, []string{"kind"}),

		DisputesRaisedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "escrow_disputes_raised_total",
			Help: "Disputes opened against milestones",
		}),
		DisputesResolvedTotal: *promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "escrow_disputes_resolved_total",
			Help: "Disputes resolved, by winning side",
		}, []string{"winner_side"}),

		SchedulerTickDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "escrow_scheduler_tick_duration_seconds",
			Help:    "Duration of one auto-approval scheduler tick",
			Buckets: prometheus.DefBuckets,
		}),
		SchedulerCandidatesScanned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "escrow_scheduler_candidates_scanned_total",
			Help: "Auto-approval candidates returned by scan",
		}),
		SchedulerCandidatesExecuted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "escrow_scheduler_candidates_executed_total",
			Help: "Auto-approval candidates finalized",
		}),
		SchedulerCandidatesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "escrow_scheduler_candidates_skipped_total",
			Help: "Auto-approval candidates skipped as stale or failed",
		}),

		LedgerRetriesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "escrow_ledger_retries_total",
			Help: "Retried ledger adapter calls",
		}),
	}
}
