package mappers

import (
	"github.com/gigvault/escrow-service/internal/domain"
	"github.com/gigvault/escrow-service/internal/infrastructure/postgres/models"
)

func ToGORMVerifier(verifier *domain.Verifier) *models.VerifierModel {
	return &models.VerifierModel{
		ID:          verifier.ID,
		DisplayName: verifier.DisplayName,
		Active:      verifier.Active,
		Reputation:  verifier.Reputation,
	}
}

func ToDomainVerifier(verifierModel *models.VerifierModel) *domain.Verifier {
	return &domain.Verifier{
		ID:          verifierModel.ID,
		DisplayName: verifierModel.DisplayName,
		Active:      verifierModel.Active,
		Reputation:  verifierModel.Reputation,
		CreatedAt:   verifierModel.CreatedAt,
		UpdatedAt:   verifierModel.UpdatedAt,
	}
}
