package ai

import (
	"context"
	"time"
)

// EnrichedTask is the structured interpretation of an utterance returned by a
// provider. Pointer fields are nil when the utterance carries no such detail.
type EnrichedTask struct {
	Title    string  `json:"title"`
	Notes    string  `json:"notes,omitempty"`
	DueDate  *string `json:"due_date,omitempty"`
	DueTime  *string `json:"due_time,omitempty"`
	Category string  `json:"category"`
}

// Provider is the interface for AI enrichment providers
type Provider interface {
	// ParseUtterance re-interprets a raw utterance into a structured task.
	// now anchors relative date expressions like "tomorrow".
	ParseUtterance(ctx context.Context, utterance string, now time.Time) (*EnrichedTask, error)
}

// ProviderFactory creates an AI provider based on the provider type
type ProviderFactory func(config map[string]string) (Provider, error)

// ProviderRegistry stores available AI providers
type ProviderRegistry struct {
	providers map[string]ProviderFactory
}

// NewProviderRegistry creates a new provider registry
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]ProviderFactory),
	}
}

// Register registers a provider factory
func (r *ProviderRegistry) Register(name string, factory ProviderFactory) {
	r.providers[name] = factory
}

// GetProvider gets a provider by name
func (r *ProviderRegistry) GetProvider(name string, config map[string]string) (Provider, error) {
	factory, ok := r.providers[name]
	if !ok {
		return nil, &ErrProviderNotFound{Name: name}
	}

	return factory(config)
}

// ErrProviderNotFound is returned when a provider is not found
type ErrProviderNotFound struct {
	Name string
}

func (e *ErrProviderNotFound) Error() string {
	return "AI provider not found: " + e.Name
}
