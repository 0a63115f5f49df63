package usecase

import "github.com/gigvault/escrow-service/internal/domain"

func (uc *DefaultMilestoneUsecase) VerifierApprove(jobID string, idx int, verifierID string, report domain.VerifierReport) error {
	if err := uc.guardNotPaused(); err != nil {
		return err
	}

	verifier, err := uc.verifierRepo.GetVerifierByID(verifierID)
	if err != nil {
		return err
	}
	if !verifier.Active {
		return domain.E(domain.KindUnauthorized, "verifier %s is not active", verifierID)
	}

	job, err := uc.jobRepo.GetJobByID(jobID)
	if err != nil {
		return err
	}
	milestone, err := uc.jobRepo.GetMilestone(jobID, idx)
	if err != nil {
		return err
	}
	switch milestone.VerificationMethod {
	case domain.VerifyOffchainVerifier, domain.VerifyHybrid:
	default:
		return domain.E(domain.KindInvalidState, "milestone %d uses %s verification, verifier approval not accepted", idx, milestone.VerificationMethod)
	}
	if milestone.Settled() {
		return domain.E(domain.KindAlreadyProcessed, "milestone %d already settled as %s", idx, milestone.Status)
	}
	if milestone.Status != domain.MilestoneSubmitted {
		return domain.E(domain.KindInvalidState, "milestone %d status is %s, expected SUBMITTED", idx, milestone.Status)
	}

	if err := uc.checkQualityThreshold(jobID, report); err != nil {
		return err
	}

	return uc.finalize(job, milestone, domain.SourceVerifierApproval, verifierID)
}

// checkQualityThreshold rejects reports below the job's configured quality
// floor, when the job carries an automation config at all.
func (uc *DefaultMilestoneUsecase) checkQualityThreshold(jobID string, report domain.VerifierReport) error {
	cfg, err := uc.automationRepo.GetConfigByJobID(jobID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil
		}
		return err
	}
	if cfg.MinQualityScore > 0 && report.QualityScore < cfg.MinQualityScore {
		return domain.E(domain.KindInvalidArgument, "quality score %d below required minimum %d", report.QualityScore, cfg.MinQualityScore)
	}
	return nil
}
