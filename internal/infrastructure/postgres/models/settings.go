package models

import "time"

// PlatformSettingsModel is a single-row table; ID is always 1.
type PlatformSettingsModel struct {
	ID                int `gorm:"primaryKey"`
	FeeBps            int64
	DisputeWindow     time.Duration
	AutoApprovalDelay time.Duration
	ResolverIDs       string `gorm:"type:text"`
	Paused            bool
	UpdatedAt         time.Time
}

func (PlatformSettingsModel) TableName() string {
	return "platform_settings"
}
