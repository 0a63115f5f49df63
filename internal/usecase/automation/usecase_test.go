package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/gigvault/escrow-service/internal/domain"
)

type scanOnlyJobRepo struct {
	domain.JobRepository

	candidates []*domain.AutoApprovalCandidate
	scanErr    error
	gotLimit   int
}

func (r *scanOnlyJobRepo) FindAutoApprovalCandidates(now time.Time, limit int) ([]*domain.AutoApprovalCandidate, error) {
	r.gotLimit = limit
	if r.scanErr != nil {
		return nil, r.scanErr
	}
	if len(r.candidates) > limit {
		return r.candidates[:limit], nil
	}
	return r.candidates, nil
}

type touchRecordingRepo struct {
	domain.AutomationConfigRepository

	touched map[string]time.Time
}

func (r *touchRecordingRepo) TouchLastChecked(jobID string, at time.Time) error {
	if r.touched == nil {
		r.touched = make(map[string]time.Time)
	}
	r.touched[jobID] = at
	return nil
}

type scriptedApprover struct {
	results map[string]approveResult
	calls   []string
}

type approveResult struct {
	executed bool
	err      error
}

func (a *scriptedApprover) AutoApprove(jobID string, idx int) (bool, error) {
	a.calls = append(a.calls, jobID)
	result := a.results[jobID]
	return result.executed, result.err
}

type staticSettings struct {
	settings domain.PlatformSettings
}

func (s *staticSettings) Current() (*domain.PlatformSettings, error) {
	out := s.settings
	return &out, nil
}

func candidate(jobID string, idx int) *domain.AutoApprovalCandidate {
	submittedAt := time.Now().Add(-72 * time.Hour)
	return &domain.AutoApprovalCandidate{
		JobID:        jobID,
		MilestoneID:  jobID + "-ms",
		MilestoneIdx: idx,
		SubmittedAt:  submittedAt,
	}
}

func newFixture(jobRepo *scanOnlyJobRepo, approver *scriptedApprover) (*DefaultAutomationUsecase, *touchRecordingRepo) {
	automationRepo := &touchRecordingRepo{}
	settings := &staticSettings{settings: domain.PlatformSettings{FeeBps: 250}}
	uc := NewDefaultAutomationUsecase(jobRepo, automationRepo, settings, approver, nil, 10)
	return uc, automationRepo
}

func TestScanDueCapsAtBatchSize(t *testing.T) {
	jobRepo := &scanOnlyJobRepo{}
	for i := 0; i < 25; i++ {
		jobRepo.candidates = append(jobRepo.candidates, candidate("job", i))
	}
	uc, _ := newFixture(jobRepo, &scriptedApprover{})

	candidates, err := uc.ScanDue(time.Now())
	if err != nil {
		t.Fatalf("ScanDue: %v", err)
	}
	if jobRepo.gotLimit != 10 {
		t.Fatalf("scan limit = %d, want batch size 10", jobRepo.gotLimit)
	}
	if len(candidates) != 10 {
		t.Fatalf("candidates = %d, want 10", len(candidates))
	}
}

func TestExecuteBatchIsolatesFailures(t *testing.T) {
	jobRepo := &scanOnlyJobRepo{}
	approver := &scriptedApprover{results: map[string]approveResult{
		"job-ok":    {executed: true},
		"job-stale": {executed: false},
		"job-err":   {err: errors.New("ledger down")},
		"job-ok-2":  {executed: true},
	}}
	uc, automationRepo := newFixture(jobRepo, approver)

	result := uc.ExecuteBatch([]*domain.AutoApprovalCandidate{
		candidate("job-ok", 0),
		candidate("job-stale", 0),
		candidate("job-err", 0),
		candidate("job-ok-2", 0),
	})

	if len(approver.calls) != 4 {
		t.Fatalf("approver calls = %d, want all 4 despite failures", len(approver.calls))
	}
	if len(result.Executed) != 2 {
		t.Fatalf("executed = %d, want 2", len(result.Executed))
	}
	if len(result.Skipped) != 2 {
		t.Fatalf("skipped = %d, want 2", len(result.Skipped))
	}
	for _, jobID := range []string{"job-ok", "job-stale", "job-err", "job-ok-2"} {
		if _, ok := automationRepo.touched[jobID]; !ok {
			t.Fatalf("job %s not touched", jobID)
		}
	}
}

func TestTick(t *testing.T) {
	jobRepo := &scanOnlyJobRepo{candidates: []*domain.AutoApprovalCandidate{candidate("job-ok", 0)}}
	approver := &scriptedApprover{results: map[string]approveResult{"job-ok": {executed: true}}}
	uc, _ := newFixture(jobRepo, approver)

	if !uc.LastTick().IsZero() {
		t.Fatal("fresh usecase must report zero last tick")
	}

	now := time.Now()
	result, err := uc.Tick(now)
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(result.Executed) != 1 {
		t.Fatalf("executed = %d, want 1", len(result.Executed))
	}
	if !uc.LastTick().Equal(now) {
		t.Fatalf("last tick = %s, want %s", uc.LastTick(), now)
	}
}

func TestTickPaused(t *testing.T) {
	jobRepo := &scanOnlyJobRepo{candidates: []*domain.AutoApprovalCandidate{candidate("job-ok", 0)}}
	approver := &scriptedApprover{}
	automationRepo := &touchRecordingRepo{}
	settings := &staticSettings{settings: domain.PlatformSettings{Paused: true}}
	uc := NewDefaultAutomationUsecase(jobRepo, automationRepo, settings, approver, nil, 10)

	_, err := uc.Tick(time.Now())
	if !errors.Is(err, domain.ErrEnginePaused) {
		t.Fatalf("error = %v, want ErrEnginePaused", err)
	}
	if len(approver.calls) != 0 {
		t.Fatal("paused tick must not approve anything")
	}
}

func TestTickScanError(t *testing.T) {
	jobRepo := &scanOnlyJobRepo{scanErr: errors.New("db down")}
	uc, _ := newFixture(jobRepo, &scriptedApprover{})

	if _, err := uc.Tick(time.Now()); err == nil {
		t.Fatal("expected scan error to surface")
	}
	if !uc.LastTick().IsZero() {
		t.Fatal("failed tick must not record a last tick time")
	}
}
