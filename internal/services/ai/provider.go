package ai

import (
	"context"

	"github.com/lifeosapp/lifeos-api/internal/agent"
)

// CoachProvider is the interface to the language-model backend.
type CoachProvider interface {
	// RunAgent sends a non-chat coaching request and returns the decoded,
	// schema-coerced response.
	RunAgent(ctx context.Context, req *agent.Request) (*agent.Response, error)

	// Chat sends the system instruction plus the full ordered history and
	// returns the model's plain-text reply.
	Chat(ctx context.Context, history []agent.ChatMessage) (string, error)
}

// ProviderFactory creates a provider from string configuration
type ProviderFactory func(config map[string]string) (CoachProvider, error)

// ProviderRegistry stores available coach providers
type ProviderRegistry struct {
	providers map[string]ProviderFactory
}

// NewProviderRegistry creates a new provider registry
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{providers: make(map[string]ProviderFactory)}
}

// Register registers a provider factory under a name
func (r *ProviderRegistry) Register(name string, factory ProviderFactory) {
	r.providers[name] = factory
}

// GetProvider builds a provider by name
func (r *ProviderRegistry) GetProvider(name string, config map[string]string) (CoachProvider, error) {
	factory, ok := r.providers[name]
	if !ok {
		return nil, &ErrProviderNotFound{Name: name}
	}
	return factory(config)
}

// ErrProviderNotFound is returned when a provider is not registered
type ErrProviderNotFound struct {
	Name string
}

func (e *ErrProviderNotFound) Error() string {
	return "coach provider not found: " + e.Name
}
