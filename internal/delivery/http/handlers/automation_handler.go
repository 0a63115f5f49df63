package handlers

import (
	"net/http"
	"time"

	automationuc "github.com/gigvault/escrow-service/internal/usecase/automation"
)

type AutomationHandler struct {
	automationUsecase automationuc.AutomationUsecase
}

func NewAutomationHandler(automationUsecase automationuc.AutomationUsecase) *AutomationHandler {
	return &AutomationHandler{automationUsecase: automationUsecase}
}

// TriggerTick lets an external cron drive the scheduler in deployments
// that disable the built-in ticker.
func (h *AutomationHandler) TriggerTick(w http.ResponseWriter, r *http.Request) {
	result, err := h.automationUsecase.Tick(time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"executed": len(result.Executed),
		"skipped":  len(result.Skipped),
	})
}

func (h *AutomationHandler) Status(w http.ResponseWriter, r *http.Request) {
	lastTick := h.automationUsecase.LastTick()
	resp := map[string]any{"last_tick": nil}
	if !lastTick.IsZero() {
		resp["last_tick"] = lastTick
	}
	writeJSON(w, http.StatusOK, resp)
}
