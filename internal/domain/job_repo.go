package domain

import "time"

// FinalizeRequest describes the critical pay-and-complete operation. The
// repository serializes it on the milestone row, runs TransferFn inside the
// critical section and persists the status flip only when the transfer
// succeeded.
type FinalizeRequest struct {
	JobID        string
	MilestoneIdx int
	Source       FinalizeSource
	ApprovedAt   time.Time
	TransferFn   func() error
}

// AutoApprovalCandidate is one scheduler scan hit.
type AutoApprovalCandidate struct {
	JobID        string
	MilestoneID  string
	MilestoneIdx int
	SubmittedAt  time.Time
}

type JobRepository interface {
	CreateJob(job *Job) error
	GetJobByID(jobID string) (*Job, error)
	GetMilestone(jobID string, idx int) (*Milestone, error)
	GetJobsByParty(partyID string, page, limit int64) ([]*Job, int64, error)
	UpdateJobStatus(jobID string, status JobStatus) error

	// ProcessDeposit flips funds_deposited under the job row lock, running
	// depositFn before the flag write. AlreadyProcessed when the flag is set.
	ProcessDeposit(jobID string, depositFn func() error) error

	UpdateMilestoneStatus(jobID string, idx int, status MilestoneStatus) error
	SetMilestoneSubmitted(jobID string, idx int, submissionRef string, submittedAt time.Time, pendingAuto bool) error

	// MarkMilestoneDisputed records the dispute and flips the milestone to
	// DISPUTED in one transaction under the milestone row lock, clearing any
	// pending auto-approval. The transition is legal only from IN_PROGRESS
	// or SUBMITTED: a settled milestone returns AlreadyProcessed and an
	// already-disputed one InvalidState, so a finalize that won the race
	// can never be regressed to DISPUTED. The job moves to DISPUTED in the
	// same transaction.
	MarkMilestoneDisputed(jobID string, idx int, dispute *Dispute) error

	// ProcessFinalize is the two-phase transfer+status transition described
	// on FinalizeRequest. Legal source statuses depend on the finalize
	// source: SUBMITTED for approvals, DISPUTED for dispute resolution.
	ProcessFinalize(req *FinalizeRequest) error

	// ResolveCancelMilestone moves a DISPUTED milestone to CANCELLED
	// (client won the dispute, escrow stays refundable). A milestone that
	// already settled returns AlreadyProcessed.
	ResolveCancelMilestone(jobID string, idx int) error

	// CancelPendingMilestones cancels every still-PENDING milestone of a job.
	CancelPendingMilestones(jobID string) error

	// CompleteJobIfSettled flips an ACTIVE job with no unsettled milestones
	// to COMPLETED and reports whether it did.
	CompleteJobIfSettled(jobID string) (bool, error)

	// FindAutoApprovalCandidates returns submitted, auto-approval-flagged
	// milestones of ACTIVE jobs whose delay elapsed by now and that carry no
	// unresolved dispute, capped at limit.
	FindAutoApprovalCandidates(now time.Time, limit int) ([]*AutoApprovalCandidate, error)
}
