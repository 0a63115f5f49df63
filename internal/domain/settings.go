package domain

import "time"

// Administrative bounds on platform settings.
const (
	MaxFeeBps             = 1000 // 10%
	MinDisputeWindow      = 24 * time.Hour
	MaxDisputeWindow      = 30 * 24 * time.Hour
	MinAutoApprovalDelay  = time.Hour
	MinSchedulerInterval  = 10 * time.Minute
	DefaultSchedulerBatch = 100
)

type PlatformSettings struct {
	FeeBps            int64
	DisputeWindow     time.Duration
	AutoApprovalDelay time.Duration
	ResolverIDs       []string
	Paused            bool
	UpdatedAt         time.Time
}

func (s *PlatformSettings) IsResolver(actorID string) bool {
	for _, id := range s.ResolverIDs {
		if id == actorID {
			return true
		}
	}
	return false
}

type SettingsRepository interface {
	GetSettings() (*PlatformSettings, error)
	SaveSettings(settings *PlatformSettings) error
}

// SettingsProvider is the read side consumed by every usecase.
type SettingsProvider interface {
	Current() (*PlatformSettings, error)
}
