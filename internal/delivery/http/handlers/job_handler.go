package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gigvault/escrow-service/internal/domain"
	jobuc "github.com/gigvault/escrow-service/internal/usecase/job"
)

type JobHandler struct {
	jobUsecase jobuc.JobUsecase
}

func NewJobHandler(jobUsecase jobuc.JobUsecase) *JobHandler {
	return &JobHandler{jobUsecase: jobUsecase}
}

type milestoneSpecRequest struct {
	Description        string            `json:"description"`
	Amount             int64             `json:"amount"`
	Deadline           time.Time         `json:"deadline"`
	VerificationMethod string            `json:"verification_method"`
	PolicyVersion      int               `json:"policy_version"`
	PolicyCriteria     map[string]string `json:"policy_criteria"`
	AutoApprovalDelay  string            `json:"auto_approval_delay,omitempty"`
}

type automationSpecRequest struct {
	PollInterval      string `json:"poll_interval"`
	AutoApprovalDelay string `json:"auto_approval_delay"`
	MinQualityScore   int    `json:"min_quality_score"`
}

type createJobRequest struct {
	ClientID        string                 `json:"client_id"`
	FreelancerID    string                 `json:"freelancer_id"`
	LedgerAccountID string                 `json:"ledger_account_id"`
	Milestones      []milestoneSpecRequest `json:"milestones"`
	Automation      *automationSpecRequest `json:"automation,omitempty"`
}

type milestoneResponse struct {
	ID                  string     `json:"id"`
	Idx                 int        `json:"idx"`
	Description         string     `json:"description"`
	Amount              int64      `json:"amount"`
	Deadline            time.Time  `json:"deadline"`
	Status              string     `json:"status"`
	VerificationMethod  string     `json:"verification_method"`
	SubmissionRef       string     `json:"submission_ref,omitempty"`
	SubmittedAt         *time.Time `json:"submitted_at,omitempty"`
	ApprovedAt          *time.Time `json:"approved_at,omitempty"`
	PendingAutoApproval bool       `json:"pending_auto_approval"`
}

type jobResponse struct {
	ID              string              `json:"id"`
	ClientID        string              `json:"client_id"`
	FreelancerID    string              `json:"freelancer_id"`
	LedgerAccountID string              `json:"ledger_account_id"`
	TotalAmount     int64               `json:"total_amount"`
	FeeBps          int64               `json:"fee_bps"`
	Status          string              `json:"status"`
	FundsDeposited  bool                `json:"funds_deposited"`
	DisputeDeadline time.Time           `json:"dispute_deadline"`
	CreatedAt       time.Time           `json:"created_at"`
	Milestones      []milestoneResponse `json:"milestones"`
}

func toJobResponse(job *domain.Job) *jobResponse {
	resp := &jobResponse{
		ID:              job.ID,
		ClientID:        job.ClientID,
		FreelancerID:    job.FreelancerID,
		LedgerAccountID: job.LedgerAccountID,
		TotalAmount:     job.TotalAmount,
		FeeBps:          job.FeeBps,
		Status:          string(job.Status),
		FundsDeposited:  job.FundsDeposited,
		DisputeDeadline: job.DisputeDeadline,
		CreatedAt:       job.CreatedAt,
		Milestones:      make([]milestoneResponse, len(job.Milestones)),
	}
	for i := range job.Milestones {
		resp.Milestones[i] = toMilestoneResponse(&job.Milestones[i])
	}
	return resp
}

func toMilestoneResponse(m *domain.Milestone) milestoneResponse {
	return milestoneResponse{
		ID:                  m.ID,
		Idx:                 m.Idx,
		Description:         m.Description,
		Amount:              m.Amount,
		Deadline:            m.Deadline,
		Status:              string(m.Status),
		VerificationMethod:  string(m.VerificationMethod),
		SubmissionRef:       m.SubmissionRef,
		SubmittedAt:         m.SubmittedAt,
		ApprovedAt:          m.ApprovedAt,
		PendingAutoApproval: m.PendingAutoApproval,
	}
}

func parseDuration(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	return time.ParseDuration(raw)
}

func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if !decodeBody(w, r, &req) {
		return
	}

	input := &jobuc.CreateJobInput{
		ClientID:        req.ClientID,
		FreelancerID:    req.FreelancerID,
		LedgerAccountID: req.LedgerAccountID,
		Milestones:      make([]jobuc.MilestoneSpec, len(req.Milestones)),
	}
	for i, spec := range req.Milestones {
		delay, err := parseDuration(spec.AutoApprovalDelay)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid auto_approval_delay"})
			return
		}
		input.Milestones[i] = jobuc.MilestoneSpec{
			Description:        spec.Description,
			Amount:             spec.Amount,
			Deadline:           spec.Deadline,
			VerificationMethod: domain.VerificationMethod(spec.VerificationMethod),
			VerificationPolicy: domain.VerificationPolicy{
				Version:  spec.PolicyVersion,
				Criteria: spec.PolicyCriteria,
			},
			AutoApprovalDelay: delay,
		}
	}
	if req.Automation != nil {
		pollInterval, err := parseDuration(req.Automation.PollInterval)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid poll_interval"})
			return
		}
		delay, err := parseDuration(req.Automation.AutoApprovalDelay)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid auto_approval_delay"})
			return
		}
		input.Automation = &jobuc.AutomationSpec{
			PollInterval:      pollInterval,
			AutoApprovalDelay: delay,
			MinQualityScore:   req.Automation.MinQualityScore,
		}
	}

	job, err := h.jobUsecase.CreateJob(input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toJobResponse(job))
}

func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobUsecase.GetJobByID(r.PathValue("jobID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toJobResponse(job))
}

type actorRequest struct {
	ActorID string `json:"actor_id"`
}

func (h *JobHandler) DepositFunds(w http.ResponseWriter, r *http.Request) {
	var req actorRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.jobUsecase.DepositFunds(r.PathValue("jobID"), req.ActorID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deposited"})
}

func (h *JobHandler) CancelJob(w http.ResponseWriter, r *http.Request) {
	var req actorRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.jobUsecase.CancelJob(r.PathValue("jobID"), req.ActorID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

type updateAutomationRequest struct {
	ActorID           string `json:"actor_id"`
	Enabled           bool   `json:"enabled"`
	PollInterval      string `json:"poll_interval"`
	AutoApprovalDelay string `json:"auto_approval_delay"`
	MinQualityScore   int    `json:"min_quality_score"`
}

type automationConfigResponse struct {
	JobID             string `json:"job_id"`
	Enabled           bool   `json:"enabled"`
	PollInterval      string `json:"poll_interval"`
	AutoApprovalDelay string `json:"auto_approval_delay"`
	MinQualityScore   int    `json:"min_quality_score"`
}

func (h *JobHandler) UpdateAutomation(w http.ResponseWriter, r *http.Request) {
	var req updateAutomationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	pollInterval, err := parseDuration(req.PollInterval)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid poll_interval"})
		return
	}
	delay, err := parseDuration(req.AutoApprovalDelay)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid auto_approval_delay"})
		return
	}

	cfg, err := h.jobUsecase.UpdateAutomationConfig(r.PathValue("jobID"), req.ActorID, &jobuc.UpdateAutomationInput{
		Enabled:           req.Enabled,
		PollInterval:      pollInterval,
		AutoApprovalDelay: delay,
		MinQualityScore:   req.MinQualityScore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, automationConfigResponse{
		JobID:             cfg.JobID,
		Enabled:           cfg.Enabled,
		PollInterval:      cfg.PollInterval.String(),
		AutoApprovalDelay: cfg.AutoApprovalDelay.String(),
		MinQualityScore:   cfg.MinQualityScore,
	})
}

func (h *JobHandler) GetPartyJobs(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	jobs, total, err := h.jobUsecase.GetJobsByParty(r.PathValue("partyID"), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]*jobResponse, len(jobs))
	for i, job := range jobs {
		items[i] = toJobResponse(job)
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": items, "total": total})
}

type eventResponse struct {
	ID             string    `json:"id"`
	MilestoneID    string    `json:"milestone_id,omitempty"`
	EventType      string    `json:"event_type"`
	FinalizeSource string    `json:"finalize_source,omitempty"`
	ActorID        string    `json:"actor_id,omitempty"`
	Amount         int64     `json:"amount,omitempty"`
	Fee            int64     `json:"fee,omitempty"`
	Detail         string    `json:"detail,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func (h *JobHandler) GetJobEvents(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := h.jobUsecase.GetJobEvents(r.PathValue("jobID"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]eventResponse, len(events))
	for i, event := range events {
		items[i] = eventResponse{
			ID:             event.ID,
			MilestoneID:    event.MilestoneID,
			EventType:      string(event.EventType),
			FinalizeSource: string(event.FinalizeSource),
			ActorID:        event.ActorID,
			Amount:         event.Amount,
			Fee:            event.Fee,
			Detail:         event.Detail,
			CreatedAt:      event.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": items})
}
