package mappers

import (
	"github.com/gigvault/escrow-service/internal/domain"
	"github.com/gigvault/escrow-service/internal/infrastructure/postgres/models"
)

func ToGORMAutomationConfig(cfg *domain.AutomationConfig) *models.AutomationConfigModel {
	return &models.AutomationConfigModel{
		JobID:             cfg.JobID,
		Enabled:           cfg.Enabled,
		PollInterval:      cfg.PollInterval,
		AutoApprovalDelay: cfg.AutoApprovalDelay,
		MinQualityScore:   cfg.MinQualityScore,
		LastCheckedAt:     cfg.LastCheckedAt,
	}
}

func ToDomainAutomationConfig(cfgModel *models.AutomationConfigModel) *domain.AutomationConfig {
	return &domain.AutomationConfig{
		JobID:             cfgModel.JobID,
		Enabled:           cfgModel.Enabled,
		PollInterval:      cfgModel.PollInterval,
		AutoApprovalDelay: cfgModel.AutoApprovalDelay,
		MinQualityScore:   cfgModel.MinQualityScore,
		LastCheckedAt:     cfgModel.LastCheckedAt,
		CreatedAt:         cfgModel.CreatedAt,
		UpdatedAt:         cfgModel.UpdatedAt,
	}
}
