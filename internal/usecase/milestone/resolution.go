package usecase

import "github.com/gigvault/escrow-service/internal/domain"

// FinalizeFromResolution pays out a disputed milestone after the resolver
// ruled for the freelancer. Guards on the dispute itself belong to the
// dispute usecase; the repository re-checks the DISPUTED status under lock.
func (uc *DefaultMilestoneUsecase) FinalizeFromResolution(jobID string, idx int, actorID string) error {
	job, err := uc.jobRepo.GetJobByID(jobID)
	if err != nil {
		return err
	}
	milestone, err := uc.jobRepo.GetMilestone(jobID, idx)
	if err != nil {
		return err
	}
	if milestone.Settled() {
		return domain.E(domain.KindAlreadyProcessed, "milestone %d already settled as %s", idx, milestone.Status)
	}
	if milestone.Status != domain.MilestoneDisputed {
		return domain.E(domain.KindInvalidState, "milestone %d status is %s, expected DISPUTED", idx, milestone.Status)
	}

	return uc.finalize(job, milestone, domain.SourceDisputeResolution, actorID)
}
