package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gigvault/escrow-service/internal/domain"
	publisher "github.com/gigvault/escrow-service/internal/infrastructure/kafka"
)

type memJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*domain.Job
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{jobs: make(map[string]*domain.Job)}
}

func copyJob(job *domain.Job) *domain.Job {
	out := *job
	out.Milestones = make([]domain.Milestone, len(job.Milestones))
	copy(out.Milestones, job.Milestones)
	return &out
}

func (r *memJobRepo) CreateJob(job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = copyJob(job)
	return nil
}

func (r *memJobRepo) GetJobByID(jobID string) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return nil, domain.E(domain.KindNotFound, "job %s not found", jobID)
	}
	return copyJob(job), nil
}

func (r *memJobRepo) GetMilestone(jobID string, idx int) (*domain.Milestone, error) {
	job, err := r.GetJobByID(jobID)
	if err != nil {
		return nil, err
	}
	for i := range job.Milestones {
		if job.Milestones[i].Idx == idx {
			return &job.Milestones[i], nil
		}
	}
	return nil, domain.E(domain.KindNotFound, "milestone %d of job %s not found", idx, jobID)
}

func (r *memJobRepo) GetJobsByParty(partyID string, page, limit int64) ([]*domain.Job, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var jobs []*domain.Job
	for _, job := range r.jobs {
		if job.IsParty(partyID) {
			jobs = append(jobs, copyJob(job))
		}
	}
	return jobs, int64(len(jobs)), nil
}

func (r *memJobRepo) UpdateJobStatus(jobID string, status domain.JobStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return domain.E(domain.KindNotFound, "job %s not found", jobID)
	}
	job.Status = status
	return nil
}

func (r *memJobRepo) ProcessDeposit(jobID string, depositFn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return domain.E(domain.KindNotFound, "job %s not found", jobID)
	}
	if job.FundsDeposited {
		return domain.E(domain.KindAlreadyProcessed, "funds already deposited for job %s", jobID)
	}
	if depositFn != nil {
		if err := depositFn(); err != nil {
			return err
		}
	}
	job.FundsDeposited = true
	return nil
}

func (r *memJobRepo) UpdateMilestoneStatus(jobID string, idx int, status domain.MilestoneStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return domain.E(domain.KindNotFound, "job %s not found", jobID)
	}
	job.Milestones[idx].Status = status
	return nil
}

func (r *memJobRepo) SetMilestoneSubmitted(jobID string, idx int, submissionRef string, submittedAt time.Time, pendingAuto bool) error {
	return r.UpdateMilestoneStatus(jobID, idx, domain.MilestoneSubmitted)
}

func (r *memJobRepo) MarkMilestoneDisputed(jobID string, idx int, dispute *domain.Dispute) error {
	return r.UpdateMilestoneStatus(jobID, idx, domain.MilestoneDisputed)
}

func (r *memJobRepo) ProcessFinalize(req *domain.FinalizeRequest) error {
	return errors.New("not used in job tests")
}

func (r *memJobRepo) ResolveCancelMilestone(jobID string, idx int) error {
	return errors.New("not used in job tests")
}

func (r *memJobRepo) CancelPendingMilestones(jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return domain.E(domain.KindNotFound, "job %s not found", jobID)
	}
	for i := range job.Milestones {
		if job.Milestones[i].Status == domain.MilestonePending {
			job.Milestones[i].Status = domain.MilestoneCancelled
		}
	}
	return nil
}

func (r *memJobRepo) CompleteJobIfSettled(jobID string) (bool, error) {
	return false, nil
}

func (r *memJobRepo) FindAutoApprovalCandidates(now time.Time, limit int) ([]*domain.AutoApprovalCandidate, error) {
	return nil, nil
}

type memAutomationRepo struct {
	mu      sync.Mutex
	configs map[string]*domain.AutomationConfig
}

func newMemAutomationRepo() *memAutomationRepo {
	return &memAutomationRepo{configs: make(map[string]*domain.AutomationConfig)}
}

func (r *memAutomationRepo) CreateConfig(cfg *domain.AutomationConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := *cfg
	r.configs[cfg.JobID] = &out
	return nil
}

func (r *memAutomationRepo) GetConfigByJobID(jobID string) (*domain.AutomationConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg, ok := r.configs[jobID]
	if !ok {
		return nil, domain.E(domain.KindNotFound, "automation config for job %s not found", jobID)
	}
	out := *cfg
	return &out, nil
}

func (r *memAutomationRepo) UpdateConfig(cfg *domain.AutomationConfig) error {
	return r.CreateConfig(cfg)
}

func (r *memAutomationRepo) TouchLastChecked(jobID string, at time.Time) error { return nil }

type memEventRepo struct {
	mu     sync.Mutex
	events []domain.EscrowEvent
}

func (r *memEventRepo) Append(event *domain.EscrowEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *memEventRepo) GetJobEvents(jobID string, limit int) ([]*domain.EscrowEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.EscrowEvent
	for i := range r.events {
		if r.events[i].JobID == jobID {
			event := r.events[i]
			out = append(out, &event)
		}
	}
	return out, nil
}

type recordingLedger struct {
	mu       sync.Mutex
	deposits []int64
	err      error
}

func (l *recordingLedger) Transfer(_ context.Context, accountID, toID string, amount int64) error {
	return nil
}

func (l *recordingLedger) Deposit(_ context.Context, accountID, payerID string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.deposits = append(l.deposits, amount)
	return nil
}

type staticSettings struct {
	settings domain.PlatformSettings
}

func (s *staticSettings) Current() (*domain.PlatformSettings, error) {
	out := s.settings
	return &out, nil
}

type nopPublisher struct{}

func (nopPublisher) PublishMilestone(publisher.MilestoneEvent) error { return nil }

type jobFixture struct {
	uc             *DefaultJobUsecase
	jobRepo        *memJobRepo
	automationRepo *memAutomationRepo
	eventRepo      *memEventRepo
	ledger         *recordingLedger
	settings       *staticSettings
}

func newJobFixture() *jobFixture {
	f := &jobFixture{
		jobRepo:        newMemJobRepo(),
		automationRepo: newMemAutomationRepo(),
		eventRepo:      &memEventRepo{},
		ledger:         &recordingLedger{},
		settings: &staticSettings{settings: domain.PlatformSettings{
			FeeBps:            250,
			DisputeWindow:     14 * 24 * time.Hour,
			AutoApprovalDelay: 48 * time.Hour,
		}},
	}
	f.uc = NewDefaultJobUsecase(
		f.jobRepo, f.automationRepo, f.eventRepo, f.ledger, f.settings,
		nopPublisher{}, nil, time.Second,
	)
	return f
}

func validInput() *CreateJobInput {
	return &CreateJobInput{
		ClientID:        "client-1",
		FreelancerID:    "freelancer-1",
		LedgerAccountID: "escrow-1",
		Milestones: []MilestoneSpec{
			{
				Description:        "design",
				Amount:             1000,
				Deadline:           time.Now().Add(7 * 24 * time.Hour),
				VerificationMethod: domain.VerifyClientOnly,
			},
			{
				Description:        "implementation",
				Amount:             3000,
				Deadline:           time.Now().Add(14 * 24 * time.Hour),
				VerificationMethod: domain.VerifyClientOnly,
			},
		},
	}
}

func TestCreateJob(t *testing.T) {
	f := newJobFixture()

	before := time.Now()
	job, err := f.uc.CreateJob(validInput())
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	if job.TotalAmount != 4000 {
		t.Fatalf("total amount = %d, want 4000", job.TotalAmount)
	}
	if job.FeeBps != 250 {
		t.Fatalf("fee bps snapshot = %d, want 250", job.FeeBps)
	}
	if job.Status != domain.JobActive {
		t.Fatalf("status = %s, want ACTIVE", job.Status)
	}
	if job.FundsDeposited {
		t.Fatal("new job must not be marked deposited")
	}
	wantDeadline := before.Add(14 * 24 * time.Hour)
	if job.DisputeDeadline.Before(wantDeadline.Add(-time.Minute)) || job.DisputeDeadline.After(wantDeadline.Add(time.Minute)) {
		t.Fatalf("dispute deadline = %s, want about %s", job.DisputeDeadline, wantDeadline)
	}
	for i, milestone := range job.Milestones {
		if milestone.Idx != i {
			t.Fatalf("milestone %d has idx %d", i, milestone.Idx)
		}
		if milestone.Status != domain.MilestonePending {
			t.Fatalf("milestone %d status = %s, want PENDING", i, milestone.Status)
		}
		if milestone.AutoApprovalDelay != 48*time.Hour {
			t.Fatalf("milestone %d delay = %s, want platform default 48h", i, milestone.AutoApprovalDelay)
		}
	}

	if _, err := f.automationRepo.GetConfigByJobID(job.ID); domain.KindOf(err) != domain.KindNotFound {
		t.Fatal("no automation config expected without automation spec")
	}
}

func TestCreateJobWithAutomation(t *testing.T) {
	f := newJobFixture()
	input := validInput()
	input.Automation = &AutomationSpec{
		PollInterval:      time.Minute,
		AutoApprovalDelay: 72 * time.Hour,
		MinQualityScore:   60,
	}

	job, err := f.uc.CreateJob(input)
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	cfg, err := f.automationRepo.GetConfigByJobID(job.ID)
	if err != nil {
		t.Fatalf("automation config missing: %v", err)
	}
	if !cfg.Enabled {
		t.Fatal("automation config must be enabled")
	}
	// Poll intervals below the floor get clamped.
	if cfg.PollInterval != domain.MinSchedulerInterval {
		t.Fatalf("poll interval = %s, want floor %s", cfg.PollInterval, domain.MinSchedulerInterval)
	}
	if cfg.MinQualityScore != 60 {
		t.Fatalf("min quality score = %d, want 60", cfg.MinQualityScore)
	}
	for i, milestone := range job.Milestones {
		if milestone.AutoApprovalDelay != 72*time.Hour {
			t.Fatalf("milestone %d delay = %s, want automation 72h", i, milestone.AutoApprovalDelay)
		}
	}
}

func TestUpdateAutomationConfig(t *testing.T) {
	f := newJobFixture()
	input := validInput()
	input.Automation = &AutomationSpec{
		PollInterval:      time.Hour,
		AutoApprovalDelay: 72 * time.Hour,
		MinQualityScore:   60,
	}
	job, err := f.uc.CreateJob(input)
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	cfg, err := f.uc.UpdateAutomationConfig(job.ID, "freelancer-1", &UpdateAutomationInput{
		Enabled:           false,
		PollInterval:      time.Minute,
		AutoApprovalDelay: 96 * time.Hour,
		MinQualityScore:   80,
	})
	if err != nil {
		t.Fatalf("UpdateAutomationConfig: %v", err)
	}
	if cfg.Enabled {
		t.Fatal("automation must be disabled after update")
	}
	// The interval floor from job creation applies to updates too.
	if cfg.PollInterval != domain.MinSchedulerInterval {
		t.Fatalf("poll interval = %s, want floor %s", cfg.PollInterval, domain.MinSchedulerInterval)
	}
	if cfg.AutoApprovalDelay != 96*time.Hour || cfg.MinQualityScore != 80 {
		t.Fatalf("config = %+v, want 96h delay and score 80", cfg)
	}

	stored, err := f.automationRepo.GetConfigByJobID(job.ID)
	if err != nil {
		t.Fatalf("stored config missing: %v", err)
	}
	if stored.Enabled || stored.AutoApprovalDelay != 96*time.Hour {
		t.Fatalf("stored config = %+v, update not persisted", stored)
	}
}

func TestUpdateAutomationConfigCreatesWhenMissing(t *testing.T) {
	f := newJobFixture()
	job, err := f.uc.CreateJob(validInput())
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	cfg, err := f.uc.UpdateAutomationConfig(job.ID, "client-1", &UpdateAutomationInput{
		Enabled:      true,
		PollInterval: 30 * time.Minute,
	})
	if err != nil {
		t.Fatalf("UpdateAutomationConfig: %v", err)
	}
	if !cfg.Enabled || cfg.PollInterval != 30*time.Minute {
		t.Fatalf("config = %+v, want enabled at 30m", cfg)
	}
	// Zero delay falls back to the platform default, as on job creation.
	if cfg.AutoApprovalDelay != 48*time.Hour {
		t.Fatalf("delay = %s, want platform default 48h", cfg.AutoApprovalDelay)
	}
	if _, err := f.automationRepo.GetConfigByJobID(job.ID); err != nil {
		t.Fatalf("config was not created: %v", err)
	}
}

func TestUpdateAutomationConfigRejections(t *testing.T) {
	f := newJobFixture()
	job, err := f.uc.CreateJob(validInput())
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	tests := []struct {
		name    string
		actorID string
		input   UpdateAutomationInput
		want    domain.ErrorKind
	}{
		{"outsider", "stranger", UpdateAutomationInput{Enabled: true}, domain.KindUnauthorized},
		{"delay below minimum", "client-1", UpdateAutomationInput{Enabled: true, AutoApprovalDelay: time.Minute}, domain.KindInvalidArgument},
		{"quality score out of range", "client-1", UpdateAutomationInput{Enabled: true, MinQualityScore: 101}, domain.KindInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.UpdateAutomationConfig(job.ID, tt.actorID, &tt.input)
			if domain.KindOf(err) != tt.want {
				t.Fatalf("error = %v, want %s", err, tt.want)
			}
		})
	}

	f.jobRepo.UpdateJobStatus(job.ID, domain.JobCompleted)
	if _, err := f.uc.UpdateAutomationConfig(job.ID, "client-1", &UpdateAutomationInput{Enabled: true}); domain.KindOf(err) != domain.KindInvalidState {
		t.Fatalf("completed job error = %v, want INVALID_STATE", err)
	}
}

func TestCreateJobValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(input *CreateJobInput)
	}{
		{"missing client", func(in *CreateJobInput) { in.ClientID = "" }},
		{"client equals freelancer", func(in *CreateJobInput) { in.FreelancerID = in.ClientID }},
		{"missing ledger account", func(in *CreateJobInput) { in.LedgerAccountID = "" }},
		{"no milestones", func(in *CreateJobInput) { in.Milestones = nil }},
		{"zero amount", func(in *CreateJobInput) { in.Milestones[0].Amount = 0 }},
		{"negative amount", func(in *CreateJobInput) { in.Milestones[0].Amount = -5 }},
		{"past deadline", func(in *CreateJobInput) { in.Milestones[0].Deadline = time.Now().Add(-time.Hour) }},
		{"unknown method", func(in *CreateJobInput) { in.Milestones[0].VerificationMethod = "MAGIC" }},
		{"delay below minimum", func(in *CreateJobInput) { in.Milestones[0].AutoApprovalDelay = time.Minute }},
		{"criteria without version", func(in *CreateJobInput) {
			in.Milestones[0].VerificationPolicy = domain.VerificationPolicy{
				Criteria: map[string]string{"coverage": "80%"},
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newJobFixture()
			input := validInput()
			tt.mutate(input)
			_, err := f.uc.CreateJob(input)
			if domain.KindOf(err) != domain.KindInvalidArgument {
				t.Fatalf("error = %v, want INVALID_ARGUMENT", err)
			}
		})
	}
}

func TestDepositFunds(t *testing.T) {
	f := newJobFixture()
	job, err := f.uc.CreateJob(validInput())
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	if err := f.uc.DepositFunds(job.ID, "freelancer-1"); domain.KindOf(err) != domain.KindUnauthorized {
		t.Fatalf("freelancer deposit error = %v, want UNAUTHORIZED", err)
	}

	if err := f.uc.DepositFunds(job.ID, "client-1"); err != nil {
		t.Fatalf("DepositFunds: %v", err)
	}
	if len(f.ledger.deposits) != 1 || f.ledger.deposits[0] != 4000 {
		t.Fatalf("ledger deposits = %v, want one of 4000", f.ledger.deposits)
	}

	got, _ := f.jobRepo.GetJobByID(job.ID)
	if !got.FundsDeposited {
		t.Fatal("funds_deposited flag not set")
	}

	// Idempotency: the second deposit moves nothing.
	err = f.uc.DepositFunds(job.ID, "client-1")
	if !domain.IsAlreadyProcessed(err) {
		t.Fatalf("second deposit error = %v, want ALREADY_PROCESSED", err)
	}
	if len(f.ledger.deposits) != 1 {
		t.Fatalf("ledger deposits = %v after duplicate call", f.ledger.deposits)
	}
}

func TestDepositLedgerFailure(t *testing.T) {
	f := newJobFixture()
	job, err := f.uc.CreateJob(validInput())
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	f.ledger.err = domain.E(domain.KindLedgerFailure, "ledger unavailable")
	if err := f.uc.DepositFunds(job.ID, "client-1"); domain.KindOf(err) != domain.KindLedgerFailure {
		t.Fatalf("error = %v, want LEDGER_FAILURE", err)
	}

	got, _ := f.jobRepo.GetJobByID(job.ID)
	if got.FundsDeposited {
		t.Fatal("failed deposit must not set the flag")
	}

	f.ledger.err = nil
	if err := f.uc.DepositFunds(job.ID, "client-1"); err != nil {
		t.Fatalf("retry DepositFunds: %v", err)
	}
}

func TestCancelJob(t *testing.T) {
	f := newJobFixture()
	job, err := f.uc.CreateJob(validInput())
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	if err := f.uc.CancelJob(job.ID, "freelancer-1"); domain.KindOf(err) != domain.KindUnauthorized {
		t.Fatalf("freelancer cancel error = %v, want UNAUTHORIZED", err)
	}

	if err := f.uc.CancelJob(job.ID, "client-1"); err != nil {
		t.Fatalf("CancelJob: %v", err)
	}
	got, _ := f.jobRepo.GetJobByID(job.ID)
	if got.Status != domain.JobCancelled {
		t.Fatalf("job status = %s, want CANCELLED", got.Status)
	}
	for i := range got.Milestones {
		if got.Milestones[i].Status != domain.MilestoneCancelled {
			t.Fatalf("milestone %d status = %s, want CANCELLED", i, got.Milestones[i].Status)
		}
	}
}

func TestCancelJobBlockedAfterWorkStarted(t *testing.T) {
	f := newJobFixture()
	job, err := f.uc.CreateJob(validInput())
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	f.jobRepo.UpdateMilestoneStatus(job.ID, 0, domain.MilestoneInProgress)

	err = f.uc.CancelJob(job.ID, "client-1")
	if domain.KindOf(err) != domain.KindInvalidState {
		t.Fatalf("error = %v, want INVALID_STATE", err)
	}
}

func TestCreateJobRejectedWhilePaused(t *testing.T) {
	f := newJobFixture()
	f.settings.settings.Paused = true

	_, err := f.uc.CreateJob(validInput())
	if !errors.Is(err, domain.ErrEnginePaused) {
		t.Fatalf("error = %v, want ErrEnginePaused", err)
	}
}
