package domain

import "time"

// AutomationConfig enables time-based approval for ClientOnly jobs.
// Oracle and hybrid milestones are always scheduler-eligible once submitted.
type AutomationConfig struct {
	JobID             string
	Enabled           bool
	PollInterval      time.Duration
	AutoApprovalDelay time.Duration
	MinQualityScore   int
	LastCheckedAt     *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type AutomationConfigRepository interface {
	CreateConfig(cfg *AutomationConfig) error
	GetConfigByJobID(jobID string) (*AutomationConfig, error)
	UpdateConfig(cfg *AutomationConfig) error
	TouchLastChecked(jobID string, at time.Time) error
}
