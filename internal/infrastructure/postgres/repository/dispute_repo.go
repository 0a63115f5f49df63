package repository

import (
	"errors"
	"time"

	"github.com/gigvault/escrow-service/internal/domain"
	"github.com/gigvault/escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/gigvault/escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultDisputeRepository struct {
	db *gorm.DB
}

func NewDefaultDisputeRepository(db *gorm.DB) *DefaultDisputeRepository {
	return &DefaultDisputeRepository{db: db}
}

func (r *DefaultDisputeRepository) GetDisputeByID(disputeID string) (*domain.Dispute, error) {
	var disputeModel models.DisputeModel
	if err := r.db.First(&disputeModel, "id = ?", disputeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.E(domain.KindNotFound, "dispute %s not found", disputeID)
		}
		return nil, err
	}
	return mappers.ToDomainDispute(&disputeModel), nil
}

func (r *DefaultDisputeRepository) GetActiveDispute(milestoneID string) (*domain.Dispute, error) {
	var disputeModel models.DisputeModel
	err := r.db.First(&disputeModel, "milestone_id = ? AND resolved = false", milestoneID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.ToDomainDispute(&disputeModel), nil
}

func (r *DefaultDisputeRepository) MarkResolved(disputeID, winnerID string, resolvedAt time.Time) error {
	return r.db.Model(&models.DisputeModel{}).
		Where("id = ?", disputeID).
		Updates(map[string]any{
			"resolved":    true,
			"winner_id":   winnerID,
			"resolved_at": resolvedAt,
		}).Error
}

func (r *DefaultDisputeRepository) GetJobDisputes(jobID string) ([]*domain.Dispute, error) {
	var disputeModels []models.DisputeModel
	if err := r.db.
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&disputeModels).Error; err != nil {
		return nil, err
	}
	disputes := make([]*domain.Dispute, len(disputeModels))
	for i := range disputeModels {
		disputes[i] = mappers.ToDomainDispute(&disputeModels[i])
	}
	return disputes, nil
}
