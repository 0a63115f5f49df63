package handlers

import (
	"net/http"
	"time"

	"github.com/gigvault/escrow-service/internal/domain"
	disputeuc "github.com/gigvault/escrow-service/internal/usecase/dispute"
)

type DisputeHandler struct {
	disputeUsecase disputeuc.DisputeUsecase
}

func NewDisputeHandler(disputeUsecase disputeuc.DisputeUsecase) *DisputeHandler {
	return &DisputeHandler{disputeUsecase: disputeUsecase}
}

type raiseDisputeRequest struct {
	ActorID     string `json:"actor_id"`
	Reason      string `json:"reason"`
	EvidenceRef string `json:"evidence_ref,omitempty"`
}

type disputeResponse struct {
	ID          string     `json:"id"`
	JobID       string     `json:"job_id"`
	MilestoneID string     `json:"milestone_id"`
	InitiatorID string     `json:"initiator_id"`
	Reason      string     `json:"reason"`
	EvidenceRef string     `json:"evidence_ref,omitempty"`
	Resolved    bool       `json:"resolved"`
	WinnerID    string     `json:"winner_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

func toDisputeResponse(dispute *domain.Dispute) *disputeResponse {
	return &disputeResponse{
		ID:          dispute.ID,
		JobID:       dispute.JobID,
		MilestoneID: dispute.MilestoneID,
		InitiatorID: dispute.InitiatorID,
		Reason:      dispute.Reason,
		EvidenceRef: dispute.EvidenceRef,
		Resolved:    dispute.Resolved,
		WinnerID:    dispute.WinnerID,
		CreatedAt:   dispute.CreatedAt,
		ResolvedAt:  dispute.ResolvedAt,
	}
}

func (h *DisputeHandler) RaiseDispute(w http.ResponseWriter, r *http.Request) {
	idx, ok := milestoneIdx(w, r)
	if !ok {
		return
	}
	var req raiseDisputeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	dispute, err := h.disputeUsecase.RaiseDispute(r.PathValue("jobID"), idx, req.ActorID, req.Reason, req.EvidenceRef)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDisputeResponse(dispute))
}

type resolveDisputeRequest struct {
	WinnerID string `json:"winner_id"`
	ActorID  string `json:"actor_id"`
}

func (h *DisputeHandler) ResolveDispute(w http.ResponseWriter, r *http.Request) {
	var req resolveDisputeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.disputeUsecase.ResolveDispute(r.PathValue("disputeID"), req.WinnerID, req.ActorID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "resolved"})
}

func (h *DisputeHandler) GetDispute(w http.ResponseWriter, r *http.Request) {
	dispute, err := h.disputeUsecase.GetDisputeByID(r.PathValue("disputeID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDisputeResponse(dispute))
}

func (h *DisputeHandler) GetJobDisputes(w http.ResponseWriter, r *http.Request) {
	disputes, err := h.disputeUsecase.GetJobDisputes(r.PathValue("jobID"))
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]*disputeResponse, len(disputes))
	for i, dispute := range disputes {
		items[i] = toDisputeResponse(dispute)
	}
	writeJSON(w, http.StatusOK, map[string]any{"disputes": items})
}
