package usecase

import (
	"context"

	"github.com/gigvault/escrow-service/internal/domain"
	publisher "github.com/gigvault/escrow-service/internal/infrastructure/kafka"
)

// DepositFunds escrows the job total on the ledger. Idempotent: a second
// call fails with AlreadyProcessed and moves no funds.
func (uc *DefaultJobUsecase) DepositFunds(jobID, actorID string) error {
	if err := uc.guardNotPaused(); err != nil {
		return err
	}

	job, err := uc.jobRepo.GetJobByID(jobID)
	if err != nil {
		return err
	}
	if actorID != job.ClientID {
		return domain.E(domain.KindUnauthorized, "only the client may deposit funds")
	}
	if job.Status != domain.JobActive {
		return domain.E(domain.KindInvalidState, "cannot deposit into job with status %s", job.Status)
	}

	err = uc.jobRepo.ProcessDeposit(jobID, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), uc.ledgerTimeout)
		defer cancel()
		return uc.ledger.Deposit(ctx, job.LedgerAccountID, job.ClientID, job.TotalAmount)
	})
	if err != nil {
		return err
	}

	uc.appendEvent(&domain.EscrowEvent{
		JobID:     job.ID,
		EventType: domain.EventFundsDeposited,
		ActorID:   actorID,
		Amount:    job.TotalAmount,
	})
	uc.publishMilestoneEvent(publisher.MilestoneEvent{
		JobID:        job.ID,
		ClientID:     job.ClientID,
		FreelancerID: job.FreelancerID,
		EventType:    string(domain.EventFundsDeposited),
		Amount:       job.TotalAmount,
	})
	if uc.metrics != nil {
		uc.metrics.FundsDepositedTotal.Add(float64(job.TotalAmount))
	}

	return nil
}
