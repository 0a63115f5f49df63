package models

import "time"

type VerifierModel struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	DisplayName string
	Active      bool `gorm:"index:idx_verifiers_active"`
	Reputation  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (VerifierModel) TableName() string {
	return "verifiers"
}
