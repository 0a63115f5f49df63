package usecase

import "github.com/gigvault/escrow-service/internal/domain"

func (uc *DefaultJobUsecase) GetJobByID(jobID string) (*domain.Job, error) {
	return uc.jobRepo.GetJobByID(jobID)
}

func (uc *DefaultJobUsecase) GetJobsByParty(partyID string, page, limit int64) ([]*domain.Job, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return uc.jobRepo.GetJobsByParty(partyID, page, limit)
}

func (uc *DefaultJobUsecase) GetJobEvents(jobID string, limit int) ([]*domain.EscrowEvent, error) {
	if _, err := uc.jobRepo.GetJobByID(jobID); err != nil {
		return nil, err
	}
	return uc.eventRepo.GetJobEvents(jobID, limit)
}
