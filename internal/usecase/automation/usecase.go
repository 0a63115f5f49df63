package usecase

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gigvault/escrow-service/internal/domain"
	"github.com/gigvault/escrow-service/internal/infrastructure/metrics"
)

type CandidateRef struct {
	JobID        string
	MilestoneIdx int
	Reason       string
}

type TickResult struct {
	Executed []CandidateRef
	Skipped  []CandidateRef
}

type AutomationUsecase interface {
	ScanDue(now time.Time) ([]*domain.AutoApprovalCandidate, error)
	ExecuteBatch(candidates []*domain.AutoApprovalCandidate) *TickResult
	Tick(now time.Time) (*TickResult, error)
	LastTick() time.Time
}

// AutoApprover is the milestone finalize path the scheduler drives.
type AutoApprover interface {
	AutoApprove(jobID string, idx int) (bool, error)
}

type DefaultAutomationUsecase struct {
	jobRepo        domain.JobRepository
	automationRepo domain.AutomationConfigRepository
	settings       domain.SettingsProvider
	approver       AutoApprover
	metrics        *metrics.EscrowMetrics

	batchSize int

	mu       sync.Mutex
	lastTick time.Time
}

func NewDefaultAutomationUsecase(
	jobRepo domain.JobRepository,
	automationRepo domain.AutomationConfigRepository,
	settings domain.SettingsProvider,
	approver AutoApprover,
	m *metrics.EscrowMetrics,
	batchSize int,
) *DefaultAutomationUsecase {
	if batchSize <= 0 {
		batchSize = domain.DefaultSchedulerBatch
	}
	return &DefaultAutomationUsecase{
		jobRepo:        jobRepo,
		automationRepo: automationRepo,
		settings:       settings,
		approver:       approver,
		metrics:        m,
		batchSize:      batchSize,
	}
}

// ScanDue returns milestones ripe for auto-approval, capped at the batch
// size so a single tick stays cheap.
func (uc *DefaultAutomationUsecase) ScanDue(now time.Time) ([]*domain.AutoApprovalCandidate, error) {
	candidates, err := uc.jobRepo.FindAutoApprovalCandidates(now, uc.batchSize)
	if err != nil {
		return nil, err
	}
	if uc.metrics != nil {
		uc.metrics.SchedulerCandidatesScanned.Add(float64(len(candidates)))
	}
	return candidates, nil
}

// ExecuteBatch re-validates and finalizes each candidate. Failures and
// stale candidates are isolated: one bad candidate never aborts the rest,
// and anything skipped is simply picked up again on a later tick.
func (uc *DefaultAutomationUsecase) ExecuteBatch(candidates []*domain.AutoApprovalCandidate) *TickResult {
	result := &TickResult{}
	touched := make(map[string]struct{})

	for _, candidate := range candidates {
		ref := CandidateRef{JobID: candidate.JobID, MilestoneIdx: candidate.MilestoneIdx}
		executed, err := uc.approver.AutoApprove(candidate.JobID, candidate.MilestoneIdx)
		switch {
		case err != nil:
			ref.Reason = err.Error()
			result.Skipped = append(result.Skipped, ref)
			slog.Error("auto-approval failed", "job_id", candidate.JobID, "milestone_idx", candidate.MilestoneIdx, "error", err.Error())
		case !executed:
			ref.Reason = "stale candidate"
			result.Skipped = append(result.Skipped, ref)
		default:
			result.Executed = append(result.Executed, ref)
		}
		touched[candidate.JobID] = struct{}{}
	}

	now := time.Now()
	for jobID := range touched {
		if err := uc.automationRepo.TouchLastChecked(jobID, now); err != nil && domain.KindOf(err) != domain.KindNotFound {
			slog.Error("failed to record automation check time", "job_id", jobID, "error", err.Error())
		}
	}

	if uc.metrics != nil {
		uc.metrics.SchedulerCandidatesExecuted.Add(float64(len(result.Executed)))
		uc.metrics.SchedulerCandidatesSkipped.Add(float64(len(result.Skipped)))
	}
	return result
}

// Tick is one scheduler pass, also exposed to an external cron trigger.
func (uc *DefaultAutomationUsecase) Tick(now time.Time) (*TickResult, error) {
	settings, err := uc.settings.Current()
	if err != nil {
		return nil, err
	}
	if settings.Paused {
		return nil, domain.ErrEnginePaused
	}

	started := time.Now()
	candidates, err := uc.ScanDue(now)
	if err != nil {
		return nil, err
	}
	result := uc.ExecuteBatch(candidates)

	uc.mu.Lock()
	uc.lastTick = now
	uc.mu.Unlock()

	if uc.metrics != nil {
		uc.metrics.SchedulerTickDuration.Observe(time.Since(started).Seconds())
	}
	return result, nil
}

func (uc *DefaultAutomationUsecase) LastTick() time.Time {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.lastTick
}
