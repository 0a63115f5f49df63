package models

import "time"

// EscrowEventModel rows are append-only; nothing updates or deletes them.
type EscrowEventModel struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	JobID          string `gorm:"type:uuid;index:idx_events_job"`
	MilestoneID    string `gorm:"index:idx_events_milestone"`
	EventType      string `gorm:"index:idx_events_type"`
	FinalizeSource string
	ActorID        string
	Amount         int64
	Fee            int64
	Detail         string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"index:idx_events_created"`
}

func (EscrowEventModel) TableName() string {
	return "escrow_events"
}
