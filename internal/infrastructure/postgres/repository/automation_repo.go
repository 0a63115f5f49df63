package repository

import (
	"errors"
	"time"

	"github.com/gigvault/escrow-service/internal/domain"
	"github.com/gigvault/escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/gigvault/escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultAutomationConfigRepository struct {
	db *gorm.DB
}

func NewDefaultAutomationConfigRepository(db *gorm.DB) *DefaultAutomationConfigRepository {
	return &DefaultAutomationConfigRepository{db: db}
}

func (r *DefaultAutomationConfigRepository) CreateConfig(cfg *domain.AutomationConfig) error {
	return r.db.Create(mappers.ToGORMAutomationConfig(cfg)).Error
}

func (r *DefaultAutomationConfigRepository) GetConfigByJobID(jobID string) (*domain.AutomationConfig, error) {
	var cfgModel models.AutomationConfigModel
	if err := r.db.First(&cfgModel, "job_id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.E(domain.KindNotFound, "automation config for job %s not found", jobID)
		}
		return nil, err
	}
	return mappers.ToDomainAutomationConfig(&cfgModel), nil
}

func (r *DefaultAutomationConfigRepository) UpdateConfig(cfg *domain.AutomationConfig) error {
	result := r.db.Model(&models.AutomationConfigModel{}).
		Where("job_id = ?", cfg.JobID).
		Updates(map[string]any{
			"enabled":             cfg.Enabled,
			"poll_interval":       cfg.PollInterval,
			"auto_approval_delay": cfg.AutoApprovalDelay,
			"min_quality_score":   cfg.MinQualityScore,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.E(domain.KindNotFound, "automation config for job %s not found", cfg.JobID)
	}
	return nil
}

func (r *DefaultAutomationConfigRepository) TouchLastChecked(jobID string, at time.Time) error {
	return r.db.Model(&models.AutomationConfigModel{}).
		Where("job_id = ?", jobID).
		Update("last_checked_at", at).Error
}
