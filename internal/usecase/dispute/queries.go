package usecase

import "github.com/gigvault/escrow-service/internal/domain"

func (disputeUc *DefaultDisputeUsecase) GetDisputeByID(disputeID string) (*domain.Dispute, error) {
	return disputeUc.disputeRepo.GetDisputeByID(disputeID)
}

func (disputeUc *DefaultDisputeUsecase) GetJobDisputes(jobID string) ([]*domain.Dispute, error) {
	return disputeUc.disputeRepo.GetJobDisputes(jobID)
}
