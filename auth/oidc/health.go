package oidc

import (
	"context"

	"github.com/kbukum/authkit/observability"
)

// DiscoveryHealth reports whether a provider's discovery document is
// reachable. It satisfies observability.HealthChecker.
type DiscoveryHealth struct {
	client   Client
	provider string
}

// NewDiscoveryHealth creates a health checker for the named provider.
func NewDiscoveryHealth(client Client, provider string) *DiscoveryHealth {
	return &DiscoveryHealth{client: client, provider: provider}
}

// CheckHealth implements observability.HealthChecker. A failed discovery
// fetch reports degraded rather than down: the provider may still serve
// configured explicit endpoints.
func (h *DiscoveryHealth) CheckHealth(ctx context.Context) observability.Health {
	name := "oidc:" + h.provider
	if _, err := h.client.DiscoveryDocument(ctx, h.provider); err != nil {
		return observability.Health{
			Name:    name,
			Status:  observability.HealthStatusDegraded,
			Message: err.Error(),
		}
	}
	return observability.Health{Name: name, Status: observability.HealthStatusUp}
}
