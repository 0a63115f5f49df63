package handlers

import (
	"net/http"
	"time"

	"github.com/gigvault/escrow-service/internal/domain"
	verifieruc "github.com/gigvault/escrow-service/internal/usecase/verifier"
)

type VerifierHandler struct {
	verifierUsecase verifieruc.VerifierUsecase
}

func NewVerifierHandler(verifierUsecase verifieruc.VerifierUsecase) *VerifierHandler {
	return &VerifierHandler{verifierUsecase: verifierUsecase}
}

type verifierResponse struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Active      bool      `json:"active"`
	Reputation  int       `json:"reputation"`
	CreatedAt   time.Time `json:"created_at"`
}

func toVerifierResponse(verifier *domain.Verifier) *verifierResponse {
	return &verifierResponse{
		ID:          verifier.ID,
		DisplayName: verifier.DisplayName,
		Active:      verifier.Active,
		Reputation:  verifier.Reputation,
		CreatedAt:   verifier.CreatedAt,
	}
}

type addVerifierRequest struct {
	DisplayName string `json:"display_name"`
}

func (h *VerifierHandler) AddVerifier(w http.ResponseWriter, r *http.Request) {
	var req addVerifierRequest
	if !decodeBody(w, r, &req) {
		return
	}
	verifier, err := h.verifierUsecase.AddVerifier(req.DisplayName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVerifierResponse(verifier))
}

type updateVerifierRequest struct {
	Active     bool `json:"active"`
	Reputation int  `json:"reputation"`
}

func (h *VerifierHandler) UpdateVerifier(w http.ResponseWriter, r *http.Request) {
	var req updateVerifierRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.verifierUsecase.UpdateVerifier(r.PathValue("verifierID"), req.Active, req.Reputation); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *VerifierHandler) ListVerifiers(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	verifiers, err := h.verifierUsecase.ListVerifiers(activeOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]*verifierResponse, len(verifiers))
	for i, verifier := range verifiers {
		items[i] = toVerifierResponse(verifier)
	}
	writeJSON(w, http.StatusOK, map[string]any{"verifiers": items})
}
