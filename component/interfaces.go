package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Healthy reports whether the status is StatusHealthy.
func (h Health) Healthy() bool { return h.Status == StatusHealthy }

// Component is a lifecycle-managed backend such as a sorted-set store.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start connects the component. Stores must be started before use.
	Start(ctx context.Context) error

	// Stop releases the component's resources.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) Health
}

// Description is a one-line summary a component reports about itself.
type Description struct {
	// Name is the display name. If empty, the component's Name() is used.
	Name string
	// Type is the backend kind, e.g. "redis" or "sqlite".
	Type string
	// Details is a short configuration summary, e.g. "localhost:6379 db=0".
	Details string
}

// Describable is optionally implemented by components that can summarize
// their configuration for startup logs.
type Describable interface {
	Describe() Description
}
