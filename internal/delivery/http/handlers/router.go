package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	jobHandler *JobHandler,
	milestoneHandler *MilestoneHandler,
	disputeHandler *DisputeHandler,
	verifierHandler *VerifierHandler,
	adminHandler *AdminHandler,
	automationHandler *AutomationHandler,
) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /jobs", jobHandler.CreateJob)
	mux.HandleFunc("GET /jobs/{jobID}", jobHandler.GetJob)
	mux.HandleFunc("POST /jobs/{jobID}/deposit", jobHandler.DepositFunds)
	mux.HandleFunc("POST /jobs/{jobID}/cancel", jobHandler.CancelJob)
	mux.HandleFunc("GET /jobs/{jobID}/events", jobHandler.GetJobEvents)
	mux.HandleFunc("PUT /jobs/{jobID}/automation", jobHandler.UpdateAutomation)
	mux.HandleFunc("GET /parties/{partyID}/jobs", jobHandler.GetPartyJobs)

	mux.HandleFunc("GET /jobs/{jobID}/milestones/{idx}", milestoneHandler.GetMilestone)
	mux.HandleFunc("POST /jobs/{jobID}/milestones/{idx}/start", milestoneHandler.StartMilestone)
	mux.HandleFunc("POST /jobs/{jobID}/milestones/{idx}/submit", milestoneHandler.SubmitMilestone)
	mux.HandleFunc("POST /jobs/{jobID}/milestones/{idx}/approve", milestoneHandler.ApproveMilestone)
	mux.HandleFunc("POST /jobs/{jobID}/milestones/{idx}/verify", milestoneHandler.VerifierApprove)

	mux.HandleFunc("POST /jobs/{jobID}/milestones/{idx}/disputes", disputeHandler.RaiseDispute)
	mux.HandleFunc("GET /jobs/{jobID}/disputes", disputeHandler.GetJobDisputes)
	mux.HandleFunc("GET /disputes/{disputeID}", disputeHandler.GetDispute)
	mux.HandleFunc("POST /disputes/{disputeID}/resolve", disputeHandler.ResolveDispute)

	mux.HandleFunc("POST /verifiers", verifierHandler.AddVerifier)
	mux.HandleFunc("GET /verifiers", verifierHandler.ListVerifiers)
	mux.HandleFunc("PATCH /verifiers/{verifierID}", verifierHandler.UpdateVerifier)

	mux.HandleFunc("GET /admin/settings", adminHandler.GetSettings)
	mux.HandleFunc("PUT /admin/settings", adminHandler.UpdateSettings)
	mux.HandleFunc("POST /admin/pause", adminHandler.SetPaused)

	mux.HandleFunc("POST /automation/tick", automationHandler.TriggerTick)
	mux.HandleFunc("GET /automation/status", automationHandler.Status)

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return mux
}
