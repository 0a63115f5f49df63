package handlers

import (
	"net/http"
	"time"

	"github.com/gigvault/escrow-service/internal/domain"
	adminuc "github.com/gigvault/escrow-service/internal/usecase/admin"
)

type AdminHandler struct {
	adminUsecase adminuc.AdminUsecase
}

func NewAdminHandler(adminUsecase adminuc.AdminUsecase) *AdminHandler {
	return &AdminHandler{adminUsecase: adminUsecase}
}

type settingsResponse struct {
	FeeBps            int64     `json:"fee_bps"`
	DisputeWindow     string    `json:"dispute_window"`
	AutoApprovalDelay string    `json:"auto_approval_delay"`
	ResolverIDs       []string  `json:"resolver_ids"`
	Paused            bool      `json:"paused"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toSettingsResponse(settings *domain.PlatformSettings) *settingsResponse {
	return &settingsResponse{
		FeeBps:            settings.FeeBps,
		DisputeWindow:     settings.DisputeWindow.String(),
		AutoApprovalDelay: settings.AutoApprovalDelay.String(),
		ResolverIDs:       settings.ResolverIDs,
		Paused:            settings.Paused,
		UpdatedAt:         settings.UpdatedAt,
	}
}

func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.adminUsecase.Current()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsResponse(settings))
}

type updateSettingsRequest struct {
	FeeBps            *int64   `json:"fee_bps,omitempty"`
	DisputeWindow     *string  `json:"dispute_window,omitempty"`
	AutoApprovalDelay *string  `json:"auto_approval_delay,omitempty"`
	ResolverIDs       []string `json:"resolver_ids,omitempty"`
}

func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	input := adminuc.UpdateSettingsInput{
		FeeBps:      req.FeeBps,
		ResolverIDs: req.ResolverIDs,
	}
	if req.DisputeWindow != nil {
		window, err := time.ParseDuration(*req.DisputeWindow)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid dispute_window"})
			return
		}
		input.DisputeWindow = &window
	}
	if req.AutoApprovalDelay != nil {
		delay, err := time.ParseDuration(*req.AutoApprovalDelay)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid auto_approval_delay"})
			return
		}
		input.AutoApprovalDelay = &delay
	}

	settings, err := h.adminUsecase.UpdateSettings(input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsResponse(settings))
}

type pauseRequest struct {
	Paused bool `json:"paused"`
}

func (h *AdminHandler) SetPaused(w http.ResponseWriter, r *http.Request) {
	var req pauseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.adminUsecase.SetPaused(req.Paused); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paused": req.Paused})
}
