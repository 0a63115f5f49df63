package usecase

import (
	"sync"
	"time"

	"github.com/gigvault/escrow-service/internal/domain"
)

// Defaults applied when no settings row exists yet.
const (
	DefaultFeeBps            = 250
	DefaultDisputeWindow     = 14 * 24 * time.Hour
	DefaultAutoApprovalDelay = 48 * time.Hour
)

type UpdateSettingsInput struct {
	FeeBps            *int64
	DisputeWindow     *time.Duration
	AutoApprovalDelay *time.Duration
	ResolverIDs       []string
}

type AdminUsecase interface {
	domain.SettingsProvider
	UpdateSettings(input UpdateSettingsInput) (*domain.PlatformSettings, error)
	SetPaused(paused bool) error
}

// DefaultAdminUsecase keeps the persisted settings cached so guard checks on
// the hot paths stay in memory.
type DefaultAdminUsecase struct {
	settingsRepo domain.SettingsRepository

	mu     sync.RWMutex
	cached domain.PlatformSettings
}

func NewDefaultAdminUsecase(settingsRepo domain.SettingsRepository) (*DefaultAdminUsecase, error) {
	uc := &DefaultAdminUsecase{settingsRepo: settingsRepo}

	settings, err := settingsRepo.GetSettings()
	if err != nil {
		if domain.KindOf(err) != domain.KindNotFound {
			return nil, err
		}
		settings = &domain.PlatformSettings{
			FeeBps:            DefaultFeeBps,
			DisputeWindow:     DefaultDisputeWindow,
			AutoApprovalDelay: DefaultAutoApprovalDelay,
			UpdatedAt:         time.Now(),
		}
		if err := settingsRepo.SaveSettings(settings); err != nil {
			return nil, err
		}
	}
	uc.cached = *settings
	return uc, nil
}

func (uc *DefaultAdminUsecase) Current() (*domain.PlatformSettings, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	settings := uc.cached
	settings.ResolverIDs = append([]string(nil), uc.cached.ResolverIDs...)
	return &settings, nil
}

func (uc *DefaultAdminUsecase) UpdateSettings(input UpdateSettingsInput) (*domain.PlatformSettings, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	updated := uc.cached
	if input.FeeBps != nil {
		if *input.FeeBps < 0 || *input.FeeBps > domain.MaxFeeBps {
			return nil, domain.E(domain.KindInvalidArgument, "fee must be between 0 and %d bps, got %d", domain.MaxFeeBps, *input.FeeBps)
		}
		updated.FeeBps = *input.FeeBps
	}
	if input.DisputeWindow != nil {
		if *input.DisputeWindow < domain.MinDisputeWindow || *input.DisputeWindow > domain.MaxDisputeWindow {
			return nil, domain.E(domain.KindInvalidArgument, "dispute window out of bounds: %s", *input.DisputeWindow)
		}
		updated.DisputeWindow = *input.DisputeWindow
	}
	if input.AutoApprovalDelay != nil {
		if *input.AutoApprovalDelay < domain.MinAutoApprovalDelay {
			return nil, domain.E(domain.KindInvalidArgument, "auto-approval delay below minimum %s: %s", domain.MinAutoApprovalDelay, *input.AutoApprovalDelay)
		}
		updated.AutoApprovalDelay = *input.AutoApprovalDelay
	}
	if input.ResolverIDs != nil {
		updated.ResolverIDs = append([]string(nil), input.ResolverIDs...)
	}
	updated.UpdatedAt = time.Now()

	if err := uc.settingsRepo.SaveSettings(&updated); err != nil {
		return nil, err
	}
	uc.cached = updated

	out := updated
	return &out, nil
}

func (uc *DefaultAdminUsecase) SetPaused(paused bool) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	updated := uc.cached
	updated.Paused = paused
	updated.UpdatedAt = time.Now()
	if err := uc.settingsRepo.SaveSettings(&updated); err != nil {
		return err
	}
	uc.cached = updated
	return nil
}
