package repository

import (
	"time"

	"github.com/gigvault/escrow-service/internal/domain"
	"github.com/gigvault/escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/gigvault/escrow-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DefaultEventRepository struct {
	db *gorm.DB
}

func NewDefaultEventRepository(db *gorm.DB) *DefaultEventRepository {
	return &DefaultEventRepository{db: db}
}

func (r *DefaultEventRepository) Append(event *domain.EscrowEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.Create(mappers.ToGORMEvent(event)).Error
}

func (r *DefaultEventRepository) GetJobEvents(jobID string, limit int) ([]*domain.EscrowEvent, error) {
	query := r.db.Model(&models.EscrowEventModel{}).
		Where("job_id = ?", jobID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var eventModels []models.EscrowEventModel
	if err := query.Find(&eventModels).Error; err != nil {
		return nil, err
	}
	events := make([]*domain.EscrowEvent, len(eventModels))
	for i := range eventModels {
		events[i] = mappers.ToDomainEvent(&eventModels[i])
	}
	return events, nil
}
