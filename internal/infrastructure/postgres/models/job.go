package models

import "time"

type JobModel struct {
	ID              string `gorm:"primaryKey;type:uuid"`
	ClientID        string `gorm:"index:idx_jobs_client"`
	FreelancerID    string `gorm:"index:idx_jobs_freelancer"`
	LedgerAccountID string
	TotalAmount     int64
	FeeBps          int64
	Status          string `gorm:"index:idx_jobs_status"`
	FundsDeposited  bool
	DisputeDeadline time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Milestones      []MilestoneModel `gorm:"foreignKey:JobID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}

func (JobModel) TableName() string {
	return "jobs"
}

type MilestoneModel struct {
	ID                  string `gorm:"primaryKey;type:uuid"`
	JobID               string `gorm:"type:uuid;index:idx_milestones_job;uniqueIndex:idx_milestones_job_idx,priority:1"`
	Idx                 int    `gorm:"uniqueIndex:idx_milestones_job_idx,priority:2"`
	Description         string `gorm:"type:text"`
	Amount              int64
	Deadline            time.Time
	Status              string `gorm:"index:idx_milestones_status"`
	VerificationMethod  string
	VerificationPolicy  string `gorm:"type:jsonb"`
	SubmissionRef       string
	SubmittedAt         *time.Time
	ApprovedAt          *time.Time
	AutoApprovalDelay   time.Duration
	PendingAutoApproval bool `gorm:"index:idx_milestones_pending_auto"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (MilestoneModel) TableName() string {
	return "milestones"
}
