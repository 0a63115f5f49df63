package usecase

import (
	"github.com/gigvault/escrow-service/internal/domain"
	"github.com/google/uuid"
)

// Administrative maintenance of off-chain verifiers. Authorization of the
// administrator itself sits on the API surface, outside this engine.
type VerifierUsecase interface {
	AddVerifier(displayName string) (*domain.Verifier, error)
	UpdateVerifier(verifierID string, active bool, reputation int) error
	GetVerifierByID(verifierID string) (*domain.Verifier, error)
	ListVerifiers(activeOnly bool) ([]*domain.Verifier, error)
}

type DefaultVerifierUsecase struct {
	verifierRepo domain.VerifierRepository
}

func NewDefaultVerifierUsecase(verifierRepo domain.VerifierRepository) *DefaultVerifierUsecase {
	return &DefaultVerifierUsecase{verifierRepo: verifierRepo}
}

func (uc *DefaultVerifierUsecase) AddVerifier(displayName string) (*domain.Verifier, error) {
	if displayName == "" {
		return nil, domain.E(domain.KindInvalidArgument, "verifier display name is required")
	}
	verifier := &domain.Verifier{
		ID:          uuid.New().String(),
		DisplayName: displayName,
		Active:      true,
		Reputation:  50,
	}
	if err := uc.verifierRepo.CreateVerifier(verifier); err != nil {
		return nil, err
	}
	return verifier, nil
}

func (uc *DefaultVerifierUsecase) UpdateVerifier(verifierID string, active bool, reputation int) error {
	if reputation < 0 || reputation > 100 {
		return domain.E(domain.KindInvalidArgument, "reputation must be between 0 and 100, got %d", reputation)
	}
	if _, err := uc.verifierRepo.GetVerifierByID(verifierID); err != nil {
		return err
	}
	return uc.verifierRepo.UpdateVerifier(verifierID, active, reputation)
}

func (uc *DefaultVerifierUsecase) GetVerifierByID(verifierID string) (*domain.Verifier, error) {
	return uc.verifierRepo.GetVerifierByID(verifierID)
}

func (uc *DefaultVerifierUsecase) ListVerifiers(activeOnly bool) ([]*domain.Verifier, error) {
	return uc.verifierRepo.ListVerifiers(activeOnly)
}
