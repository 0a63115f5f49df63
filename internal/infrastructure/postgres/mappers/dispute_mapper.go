package mappers

import (
	"github.com/gigvault/escrow-service/internal/domain"
	"github.com/gigvault/escrow-service/internal/infrastructure/postgres/models"
)

func ToGORMDispute(dispute *domain.Dispute) *models.DisputeModel {
	return &models.DisputeModel{
		ID:          dispute.ID,
		JobID:       dispute.JobID,
		MilestoneID: dispute.MilestoneID,
		InitiatorID: dispute.InitiatorID,
		Reason:      dispute.Reason,
		EvidenceRef: dispute.EvidenceRef,
		Resolved:    dispute.Resolved,
		WinnerID:    dispute.WinnerID,
		ResolvedAt:  dispute.ResolvedAt,
	}
}

func ToDomainDispute(disputeModel *models.DisputeModel) *domain.Dispute {
	return &domain.Dispute{
		ID:          disputeModel.ID,
		JobID:       disputeModel.JobID,
		MilestoneID: disputeModel.MilestoneID,
		InitiatorID: disputeModel.InitiatorID,
		Reason:      disputeModel.Reason,
		EvidenceRef: disputeModel.EvidenceRef,
		Resolved:    disputeModel.Resolved,
		WinnerID:    disputeModel.WinnerID,
		CreatedAt:   disputeModel.CreatedAt,
		ResolvedAt:  disputeModel.ResolvedAt,
	}
}
