package http

import (
	"context"

	"github.com/ribbitnetwork/frogmap/internal/core/domain"
	"github.com/ribbitnetwork/frogmap/internal/core/usecases"
)

// Pinger is a backing service that can report its health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Relay delivers broker messages on a subject to a callback until the
// returned cancel function is called.
type Relay interface {
	Subscribe(subject string, fn func(data []byte)) (func(), error)
	Connected() bool
}

// DashboardInfo is static dashboard configuration exposed to clients.
type DashboardInfo struct {
	Title           string          `json:"title"`
	RefreshSeconds  int             `json:"refresh_seconds"`
	DefaultDuration domain.Duration `json:"default_duration"`
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Maps      *usecases.MapService
	Sensors   *usecases.SensorService
	Dashboard DashboardInfo
	Relay     Relay
	DB        Pinger
	Cache     Pinger
	DocsPath  string
}
