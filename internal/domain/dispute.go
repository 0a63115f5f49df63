package domain

import "time"

type Dispute struct {
	ID          string
	JobID       string
	MilestoneID string
	InitiatorID string
	Reason      string
	EvidenceRef string
	Resolved    bool
	WinnerID    string
	CreatedAt   time.Time
	ResolvedAt  *time.Time
}

// DisputeRepository reads and resolves dispute records. Creation happens
// through JobRepository.MarkMilestoneDisputed so the dispute row and the
// milestone flip share one transaction.
type DisputeRepository interface {
	GetDisputeByID(disputeID string) (*Dispute, error)
	// GetActiveDispute returns the single unresolved dispute for a
	// milestone, or nil when there is none.
	GetActiveDispute(milestoneID string) (*Dispute, error)
	MarkResolved(disputeID, winnerID string, resolvedAt time.Time) error
	GetJobDisputes(jobID string) ([]*Dispute, error)
}
