package domain

import "time"

type EventType string

const (
	EventJobCreated         EventType = "JOB_CREATED"
	EventFundsDeposited     EventType = "FUNDS_DEPOSITED"
	EventMilestoneStarted   EventType = "MILESTONE_STARTED"
	EventMilestoneSubmitted EventType = "MILESTONE_SUBMITTED"
	EventMilestoneFinalized EventType = "MILESTONE_FINALIZED"
	EventFinalizeFailed     EventType = "FINALIZE_FAILED"
	EventFinalizeReconcile  EventType = "FINALIZE_RECONCILE"
	EventAutomationUpdated  EventType = "AUTOMATION_UPDATED"
	EventDisputeRaised      EventType = "DISPUTE_RAISED"
	EventDisputeResolved    EventType = "DISPUTE_RESOLVED"
	EventJobCompleted       EventType = "JOB_COMPLETED"
	EventJobCancelled       EventType = "JOB_CANCELLED"
)

// EscrowEvent is one row of the append-only audit trail. Finalize events
// carry the attempted fee split so failures can be reconciled later.
type EscrowEvent struct {
	ID             string
	JobID          string
	MilestoneID    string
	EventType      EventType
	FinalizeSource FinalizeSource
	ActorID        string
	Amount         int64
	Fee            int64
	Detail         string
	CreatedAt      time.Time
}

type EventRepository interface {
	Append(event *EscrowEvent) error
	GetJobEvents(jobID string, limit int) ([]*EscrowEvent, error)
}
