package mappers

import (
	"encoding/json"

	"github.com/gigvault/escrow-service/internal/domain"
	"github.com/gigvault/escrow-service/internal/infrastructure/postgres/models"
)

func ToGORMJob(job *domain.Job) *models.JobModel {
	jobModel := &models.JobModel{
		ID:              job.ID,
		ClientID:        job.ClientID,
		FreelancerID:    job.FreelancerID,
		LedgerAccountID: job.LedgerAccountID,
		TotalAmount:     job.TotalAmount,
		FeeBps:          job.FeeBps,
		Status:          string(job.Status),
		FundsDeposited:  job.FundsDeposited,
		DisputeDeadline: job.DisputeDeadline,
	}
	for i := range job.Milestones {
		jobModel.Milestones = append(jobModel.Milestones, *ToGORMMilestone(&job.Milestones[i]))
	}
	return jobModel
}

func ToDomainJob(jobModel *models.JobModel) *domain.Job {
	job := &domain.Job{
		ID:              jobModel.ID,
		ClientID:        jobModel.ClientID,
		FreelancerID:    jobModel.FreelancerID,
		LedgerAccountID: jobModel.LedgerAccountID,
		TotalAmount:     jobModel.TotalAmount,
		FeeBps:          jobModel.FeeBps,
		Status:          domain.JobStatus(jobModel.Status),
		FundsDeposited:  jobModel.FundsDeposited,
		DisputeDeadline: jobModel.DisputeDeadline,
		CreatedAt:       jobModel.CreatedAt,
		UpdatedAt:       jobModel.UpdatedAt,
	}
	for i := range jobModel.Milestones {
		job.Milestones = append(job.Milestones, *ToDomainMilestone(&jobModel.Milestones[i]))
	}
	return job
}

func ToGORMMilestone(milestone *domain.Milestone) *models.MilestoneModel {
	policyJSON, _ := json.Marshal(milestone.VerificationPolicy)
	return &models.MilestoneModel{
		ID:                  milestone.ID,
		JobID:               milestone.JobID,
		Idx:                 milestone.Idx,
		Description:         milestone.Description,
		Amount:              milestone.Amount,
		Deadline:            milestone.Deadline,
		Status:              string(milestone.Status),
		VerificationMethod:  string(milestone.VerificationMethod),
		VerificationPolicy:  string(policyJSON),
		SubmissionRef:       milestone.SubmissionRef,
		SubmittedAt:         milestone.SubmittedAt,
		ApprovedAt:          milestone.ApprovedAt,
		AutoApprovalDelay:   milestone.AutoApprovalDelay,
		PendingAutoApproval: milestone.PendingAutoApproval,
	}
}

func ToDomainMilestone(milestoneModel *models.MilestoneModel) *domain.Milestone {
	var policy domain.VerificationPolicy
	if milestoneModel.VerificationPolicy != "" {
		_ = json.Unmarshal([]byte(milestoneModel.VerificationPolicy), &policy)
	}
	return &domain.Milestone{
		ID:                  milestoneModel.ID,
		JobID:               milestoneModel.JobID,
		Idx:                 milestoneModel.Idx,
		Description:         milestoneModel.Description,
		Amount:              milestoneModel.Amount,
		Deadline:            milestoneModel.Deadline,
		Status:              domain.MilestoneStatus(milestoneModel.Status),
		VerificationMethod:  domain.VerificationMethod(milestoneModel.VerificationMethod),
		VerificationPolicy:  policy,
		SubmissionRef:       milestoneModel.SubmissionRef,
		SubmittedAt:         milestoneModel.SubmittedAt,
		ApprovedAt:          milestoneModel.ApprovedAt,
		AutoApprovalDelay:   milestoneModel.AutoApprovalDelay,
		PendingAutoApproval: milestoneModel.PendingAutoApproval,
		CreatedAt:           milestoneModel.CreatedAt,
		UpdatedAt:           milestoneModel.UpdatedAt,
	}
}
