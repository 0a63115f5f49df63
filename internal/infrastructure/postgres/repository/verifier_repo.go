package repository

import (
	"errors"

	"github.com/gigvault/escrow-service/internal/domain"
	"github.com/gigvault/escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/gigvault/escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultVerifierRepository struct {
	db *gorm.DB
}

func NewDefaultVerifierRepository(db *gorm.DB) *DefaultVerifierRepository {
	return &DefaultVerifierRepository{db: db}
}

func (r *DefaultVerifierRepository) CreateVerifier(verifier *domain.Verifier) error {
	return r.db.Create(mappers.ToGORMVerifier(verifier)).Error
}

func (r *DefaultVerifierRepository) GetVerifierByID(verifierID string) (*domain.Verifier, error) {
	var verifierModel models.VerifierModel
	if err := r.db.First(&verifierModel, "id = ?", verifierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.E(domain.KindNotFound, "verifier %s not found", verifierID)
		}
		return nil, err
	}
	return mappers.ToDomainVerifier(&verifierModel), nil
}

func (r *DefaultVerifierRepository) UpdateVerifier(verifierID string, active bool, reputation int) error {
	result := r.db.Model(&models.VerifierModel{}).
		Where("id = ?", verifierID).
		Updates(map[string]any{
			"active":     active,
			"reputation": reputation,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.E(domain.KindNotFound, "verifier %s not found", verifierID)
	}
	return nil
}

func (r *DefaultVerifierRepository) ListVerifiers(activeOnly bool) ([]*domain.Verifier, error) {
	query := r.db.Model(&models.VerifierModel{}).Order("created_at")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var verifierModels []models.VerifierModel
	if err := query.Find(&verifierModels).Error; err != nil {
		return nil, err
	}
	verifiers := make([]*domain.Verifier, len(verifierModels))
	for i := range verifierModels {
		verifiers[i] = mappers.ToDomainVerifier(&verifierModels[i])
	}
	return verifiers, nil
}
