package handlers

import (
	"net/http"
	"strconv"

	"github.com/gigvault/escrow-service/internal/domain"
	milestoneuc "github.com/gigvault/escrow-service/internal/usecase/milestone"
)

type MilestoneHandler struct {
	milestoneUsecase milestoneuc.MilestoneUsecase
}

func NewMilestoneHandler(milestoneUsecase milestoneuc.MilestoneUsecase) *MilestoneHandler {
	return &MilestoneHandler{milestoneUsecase: milestoneUsecase}
}

func milestoneIdx(w http.ResponseWriter, r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(r.PathValue("idx"))
	if err != nil || idx < 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid milestone index"})
		return 0, false
	}
	return idx, true
}

func (h *MilestoneHandler) StartMilestone(w http.ResponseWriter, r *http.Request) {
	idx, ok := milestoneIdx(w, r)
	if !ok {
		return
	}
	var req actorRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.milestoneUsecase.StartMilestone(r.PathValue("jobID"), idx, req.ActorID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

type submitMilestoneRequest struct {
	ActorID       string `json:"actor_id"`
	SubmissionRef string `json:"submission_ref"`
}

func (h *MilestoneHandler) SubmitMilestone(w http.ResponseWriter, r *http.Request) {
	idx, ok := milestoneIdx(w, r)
	if !ok {
		return
	}
	var req submitMilestoneRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.milestoneUsecase.SubmitMilestone(r.PathValue("jobID"), idx, req.ActorID, req.SubmissionRef); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "submitted"})
}

func (h *MilestoneHandler) ApproveMilestone(w http.ResponseWriter, r *http.Request) {
	idx, ok := milestoneIdx(w, r)
	if !ok {
		return
	}
	var req actorRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.milestoneUsecase.ApproveMilestone(r.PathValue("jobID"), idx, req.ActorID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

type verifierApproveRequest struct {
	VerifierID   string `json:"verifier_id"`
	QualityScore int    `json:"quality_score"`
	Summary      string `json:"summary"`
}

func (h *MilestoneHandler) VerifierApprove(w http.ResponseWriter, r *http.Request) {
	idx, ok := milestoneIdx(w, r)
	if !ok {
		return
	}
	var req verifierApproveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	report := domain.VerifierReport{QualityScore: req.QualityScore, Summary: req.Summary}
	if err := h.milestoneUsecase.VerifierApprove(r.PathValue("jobID"), idx, req.VerifierID, report); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

func (h *MilestoneHandler) GetMilestone(w http.ResponseWriter, r *http.Request) {
	idx, ok := milestoneIdx(w, r)
	if !ok {
		return
	}
	milestone, err := h.milestoneUsecase.GetMilestone(r.PathValue("jobID"), idx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMilestoneResponse(milestone))
}
