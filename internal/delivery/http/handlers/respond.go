package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gigvault/escrow-service/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			slog.Error("failed to encode response", "error", err.Error())
		}
	}
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrEnginePaused) {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error(), Code: "ENGINE_PAUSED"})
		return
	}

	kind := domain.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case domain.KindInvalidArgument:
		status = http.StatusBadRequest
	case domain.KindInvalidState:
		status = http.StatusConflict
	case domain.KindUnauthorized:
		status = http.StatusForbidden
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindWindowExpired:
		status = http.StatusGone
	case domain.KindLedgerFailure:
		status = http.StatusBadGateway
	case domain.KindAlreadyProcessed:
		status = http.StatusConflict
	}

	resp := errorResponse{Error: err.Error()}
	if kind != "" {
		resp.Code = string(kind)
	}
	writeJSON(w, status, resp)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return false
	}
	return true
}
