package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gigvault/escrow-service/internal/domain"
	"github.com/gigvault/escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const settingsRowID = 1

type DefaultSettingsRepository struct {
	db *gorm.DB
}

func NewDefaultSettingsRepository(db *gorm.DB) *DefaultSettingsRepository {
	return &DefaultSettingsRepository{db: db}
}

func (r *DefaultSettingsRepository) GetSettings() (*domain.PlatformSettings, error) {
	var settingsModel models.PlatformSettingsModel
	if err := r.db.First(&settingsModel, "id = ?", settingsRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.E(domain.KindNotFound, "platform settings not initialized")
		}
		return nil, err
	}

	var resolverIDs []string
	if settingsModel.ResolverIDs != "" {
		if err := json.Unmarshal([]byte(settingsModel.ResolverIDs), &resolverIDs); err != nil {
			return nil, fmt.Errorf("malformed resolver list: %w", err)
		}
	}
	return &domain.PlatformSettings{
		FeeBps:            settingsModel.FeeBps,
		DisputeWindow:     settingsModel.DisputeWindow,
		AutoApprovalDelay: settingsModel.AutoApprovalDelay,
		ResolverIDs:       resolverIDs,
		Paused:            settingsModel.Paused,
		UpdatedAt:         settingsModel.UpdatedAt,
	}, nil
}

func (r *DefaultSettingsRepository) SaveSettings(settings *domain.PlatformSettings) error {
	resolverIDs, err := json.Marshal(settings.ResolverIDs)
	if err != nil {
		return fmt.Errorf("encode resolver list: %w", err)
	}
	settingsModel := models.PlatformSettingsModel{
		ID:                settingsRowID,
		FeeBps:            settings.FeeBps,
		DisputeWindow:     settings.DisputeWindow,
		AutoApprovalDelay: settings.AutoApprovalDelay,
		ResolverIDs:       string(resolverIDs),
		Paused:            settings.Paused,
		UpdatedAt:         settings.UpdatedAt,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&settingsModel).Error
}
