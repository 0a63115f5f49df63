package usecase

import "github.com/gigvault/escrow-service/internal/domain"

func (uc *DefaultMilestoneUsecase) ApproveMilestone(jobID string, idx int, actorID string) error {
	if err := uc.guardNotPaused(); err != nil {
		return err
	}

	job, err := uc.jobRepo.GetJobByID(jobID)
	if err != nil {
		return err
	}
	if actorID != job.ClientID {
		return domain.E(domain.KindUnauthorized, "only the client may approve a milestone")
	}

	milestone, err := uc.jobRepo.GetMilestone(jobID, idx)
	if err != nil {
		return err
	}
	switch milestone.VerificationMethod {
	case domain.VerifyClientOnly, domain.VerifyHybrid:
	default:
		return domain.E(domain.KindInvalidState, "milestone %d uses %s verification, client approval not accepted", idx, milestone.VerificationMethod)
	}
	if milestone.Settled() {
		return domain.E(domain.KindAlreadyProcessed, "milestone %d already settled as %s", idx, milestone.Status)
	}
	if milestone.Status != domain.MilestoneSubmitted {
		return domain.E(domain.KindInvalidState, "milestone %d status is %s, expected SUBMITTED", idx, milestone.Status)
	}

	return uc.finalize(job, milestone, domain.SourceClientApproval, actorID)
}
