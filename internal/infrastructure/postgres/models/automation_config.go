package models

import "time"

type AutomationConfigModel struct {
	JobID             string `gorm:"primaryKey;type:uuid"`
	Enabled           bool
	PollInterval      time.Duration
	AutoApprovalDelay time.Duration
	MinQualityScore   int
	LastCheckedAt     *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (AutomationConfigModel) TableName() string {
	return "automation_configs"
}
