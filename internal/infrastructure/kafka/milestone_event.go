package kafka

type MilestoneEvent struct {
	JobID        string `json:"job_id"`
	MilestoneID  string `json:"milestone_id"`
	MilestoneIdx int    `json:"milestone_idx"`
	FreelancerID string `json:"freelancer_id"`
	ClientID     string `json:"client_id"`
	EventType    string `json:"event_type"`
	Source       string `json:"source,omitempty"`
	Amount       int64  `json:"amount"`
	Fee          int64  `json:"fee"`
	Detail       string `json:"detail,omitempty"`
}
