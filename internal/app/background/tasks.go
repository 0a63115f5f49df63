package background

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gigvault/escrow-service/internal/domain"
	automationuc "github.com/gigvault/escrow-service/internal/usecase/automation"
)

type BackgroundTasks struct {
	AutomationUsecase automationuc.AutomationUsecase
	Interval          time.Duration
}

func NewBackgroundTasks(automationUC automationuc.AutomationUsecase, interval time.Duration) *BackgroundTasks {
	if interval < domain.MinSchedulerInterval {
		interval = domain.MinSchedulerInterval
	}
	return &BackgroundTasks{
		AutomationUsecase: automationUC,
		Interval:          interval,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startAutoApproval(ctx)
}

func (bt *BackgroundTasks) startAutoApproval(ctx context.Context) {
	ticker := time.NewTicker(bt.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, err := bt.AutomationUsecase.Tick(time.Now())
			if err != nil {
				if errors.Is(err, domain.ErrEnginePaused) {
					slog.Info("auto-approval tick skipped: engine paused")
					continue
				}
				slog.Error("auto-approval tick failed", "error", err.Error())
				continue
			}
			if len(result.Executed)+len(result.Skipped) > 0 {
				slog.Info("auto-approval tick",
					"executed", len(result.Executed),
					"skipped", len(result.Skipped))
			}
		}
	}
}
