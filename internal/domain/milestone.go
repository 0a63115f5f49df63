package domain

import "time"

type MilestoneStatus string

const (
	MilestonePending        MilestoneStatus = "PENDING"
	MilestoneInProgress     MilestoneStatus = "IN_PROGRESS"
	MilestoneSubmitted      MilestoneStatus = "SUBMITTED"
	MilestoneAutoVerified   MilestoneStatus = "AUTO_VERIFIED"
	MilestoneClientApproved MilestoneStatus = "CLIENT_APPROVED"
	MilestoneOracleVerified MilestoneStatus = "ORACLE_VERIFIED"
	MilestoneDisputed       MilestoneStatus = "DISPUTED"
	MilestoneCompleted      MilestoneStatus = "COMPLETED"
	MilestoneCancelled      MilestoneStatus = "CANCELLED"
)

type VerificationMethod string

const (
	VerifyClientOnly       VerificationMethod = "CLIENT_ONLY"
	VerifyOracleOnly       VerificationMethod = "ORACLE_ONLY"
	VerifyHybrid           VerificationMethod = "HYBRID"
	VerifyOffchainVerifier VerificationMethod = "OFFCHAIN_VERIFIER"
)

// FinalizeSource is the closed set of paths that may complete a milestone.
type FinalizeSource string

const (
	SourceClientApproval    FinalizeSource = "CLIENT_APPROVAL"
	SourceVerifierApproval  FinalizeSource = "VERIFIER_APPROVAL"
	SourceAutoApproval      FinalizeSource = "AUTO_APPROVAL"
	SourceDisputeResolution FinalizeSource = "DISPUTE_RESOLUTION"
)

// VerificationPolicy carries structured acceptance criteria. The engine
// validates shape only; interpreting the criteria belongs to verifiers.
type VerificationPolicy struct {
	Version  int               `json:"version"`
	Criteria map[string]string `json:"criteria,omitempty"`
}

func (p VerificationPolicy) Valid() bool {
	if len(p.Criteria) == 0 {
		return true
	}
	return p.Version >= 1
}

type Milestone struct {
	ID                  string
	JobID               string
	Idx                 int
	Description         string
	Amount              int64
	Deadline            time.Time
	Status              MilestoneStatus
	VerificationMethod  VerificationMethod
	VerificationPolicy  VerificationPolicy
	SubmissionRef       string
	SubmittedAt         *time.Time
	ApprovedAt          *time.Time
	AutoApprovalDelay   time.Duration
	PendingAutoApproval bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Settled reports whether the milestone reached a terminal state.
func (m *Milestone) Settled() bool {
	return m.Status == MilestoneCompleted || m.Status == MilestoneCancelled
}

// Verified reports a verified-but-not-yet-completed status.
func (m *Milestone) Verified() bool {
	switch m.Status {
	case MilestoneAutoVerified, MilestoneClientApproved, MilestoneOracleVerified:
		return true
	}
	return false
}

// Disputable reports whether a dispute may be raised against the current status.
func (m *Milestone) Disputable() bool {
	switch m.Status {
	case MilestoneInProgress, MilestoneSubmitted:
		return true
	}
	return m.Verified()
}

// AutoApprovalDue reports whether the time-based approval delay has elapsed.
func (m *Milestone) AutoApprovalDue(now time.Time) bool {
	if m.SubmittedAt == nil {
		return false
	}
	return !now.Before(m.SubmittedAt.Add(m.AutoApprovalDelay))
}

// VerifiedStatusFor maps a finalize source to the intermediate verified status.
func VerifiedStatusFor(source FinalizeSource) MilestoneStatus {
	switch source {
	case SourceClientApproval:
		return MilestoneClientApproved
	case SourceVerifierApproval:
		return MilestoneOracleVerified
	case SourceAutoApproval:
		return MilestoneAutoVerified
	case SourceDisputeResolution:
		return MilestoneClientApproved
	}
	return MilestoneSubmitted
}
