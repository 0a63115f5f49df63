package domain

import "time"

type JobStatus string

const (
	JobActive    JobStatus = "ACTIVE"
	JobCompleted JobStatus = "COMPLETED"
	JobCancelled JobStatus = "CANCELLED"
	JobDisputed  JobStatus = "DISPUTED"
)

type Job struct {
	ID              string
	ClientID        string
	FreelancerID    string
	LedgerAccountID string
	TotalAmount     int64
	FeeBps          int64
	Status          JobStatus
	FundsDeposited  bool
	DisputeDeadline time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Milestones      []Milestone
}

// UnsettledMilestones counts milestones that are neither completed nor cancelled.
func (j *Job) UnsettledMilestones() int {
	n := 0
	for i := range j.Milestones {
		if !j.Milestones[i].Settled() {
			n++
		}
	}
	return n
}

func (j *Job) IsParty(actorID string) bool {
	return actorID == j.ClientID || actorID == j.FreelancerID
}
