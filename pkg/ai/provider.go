package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/noteline/noteline/pkg/logger"
)

// Service is the provider-facing chat boundary. Implementations talk to a
// single upstream API with a fixed model and credentials.
type Service interface {
	// SendMessage sends the full conversation history and returns the
	// assistant's reply. Failures from the upstream API are returned as
	// *ServiceError.
	SendMessage(ctx context.Context, history []Message) (string, error)
}

// ServiceFactory builds a Service for a provider key. Provider keys are
// lowercase ("openai", "anthropic").
type ServiceFactory interface {
	CreateService(providerName, apiKey, model string) (Service, error)
}

// DefaultServiceFactory builds real API-backed services.
type DefaultServiceFactory struct {
	Logger *logger.Logger
}

func NewServiceFactory(logger *logger.Logger) *DefaultServiceFactory {
	return &DefaultServiceFactory{Logger: logger}
}

func (f *DefaultServiceFactory) CreateService(providerName, apiKey, model string) (Service, error) {
	switch providerName {
	case "openai":
		return NewOpenAIService(apiKey, model, f.Logger), nil
	case "anthropic":
		return NewClaudeService(apiKey, model, f.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}

// InferProvider maps a model name to its provider key and display name.
// Returns ok=false for model names that match no known provider family.
func InferProvider(model string) (key string, display string, ok bool) {
	switch {
	case strings.HasPrefix(model, "gpt"):
		return "openai", "OpenAI", true
	case strings.HasPrefix(model, "claude"):
		return "anthropic", "Anthropic", true
	default:
		return "", "", false
	}
}
