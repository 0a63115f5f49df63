package kafka

type DisputeEvent struct {
	DisputeID    string `json:"dispute_id"`
	JobID        string `json:"job_id"`
	MilestoneID  string `json:"milestone_id"`
	MilestoneIdx int    `json:"milestone_idx"`
	InitiatorID  string `json:"initiator_id"`
	WinnerID     string `json:"winner_id,omitempty"`
	Reason       string `json:"reason"`
	EvidenceRef  string `json:"evidence_ref,omitempty"`
	Status       string `json:"status"`
}
