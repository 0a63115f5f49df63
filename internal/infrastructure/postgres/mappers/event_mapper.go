package mappers

import (
	"github.com/gigvault/escrow-service/internal/domain"
	"github.com/gigvault/escrow-service/internal/infrastructure/postgres/models"
)

func ToGORMEvent(event *domain.EscrowEvent) *models.EscrowEventModel {
	return &models.EscrowEventModel{
		ID:             event.ID,
		JobID:          event.JobID,
		MilestoneID:    event.MilestoneID,
		EventType:      string(event.EventType),
		FinalizeSource: string(event.FinalizeSource),
		ActorID:        event.ActorID,
		Amount:         event.Amount,
		Fee:            event.Fee,
		Detail:         event.Detail,
	}
}

func ToDomainEvent(eventModel *models.EscrowEventModel) *domain.EscrowEvent {
	return &domain.EscrowEvent{
		ID:             eventModel.ID,
		JobID:          eventModel.JobID,
		MilestoneID:    eventModel.MilestoneID,
		EventType:      domain.EventType(eventModel.EventType),
		FinalizeSource: domain.FinalizeSource(eventModel.FinalizeSource),
		ActorID:        eventModel.ActorID,
		Amount:         eventModel.Amount,
		Fee:            eventModel.Fee,
		Detail:         eventModel.Detail,
		CreatedAt:      eventModel.CreatedAt,
	}
}
