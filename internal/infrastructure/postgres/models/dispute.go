package models

import "time"

type DisputeModel struct {
	ID          string `gorm:"primaryKey"`
	JobID       string `gorm:"type:uuid;index:idx_disputes_job"`
	MilestoneID string `gorm:"type:uuid;index:idx_disputes_milestone"`
	InitiatorID string
	Reason      string `gorm:"type:text"`
	EvidenceRef string
	Resolved    bool `gorm:"index:idx_disputes_resolved"`
	WinnerID    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ResolvedAt  *time.Time
}

func (DisputeModel) TableName() string {
	return "disputes"
}
