package v1

import (
	"errors"
	"net/http"

	"github.com/moviezone/moviezone/internal/catalog"
	"github.com/moviezone/moviezone/internal/events"
)

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// AdminCredentials enables the session-authenticated admin surface.
// Password may be a bcrypt hash or a plain value.
type AdminCredentials struct {
	Username string
	Password string
}

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required dependencies
	Catalog *catalog.Store

	// Optional dependencies (nil if not configured)
	Relay    http.Handler     // stream relay, mounted at /watch/{id}
	Webhook  http.HandlerFunc // ingestion webhook; nil disables the route
	EventLog *events.Log      // audit log read via the admin API
	Admin    *AdminCredentials
	Sessions *SessionManager

	// WebhookSecret, when set, must match the platform's secret header.
	WebhookSecret string
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Catalog == nil {
		return errors.New("catalog store is required")
	}
	if d.Admin != nil && d.Sessions == nil {
		return errors.New("session manager is required when admin credentials are set")
	}
	return nil
}
