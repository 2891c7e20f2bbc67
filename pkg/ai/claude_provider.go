package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/noteline/noteline/pkg/logger"
)

// ClaudeService implements Service using Anthropic's Claude API.
type ClaudeService struct {
	Client anthropic.Client
	Model  string
	Logger *logger.Logger
}

// NewClaudeService creates a new Claude-backed service.
func NewClaudeService(apiKey, model string, logger *logger.Logger) *ClaudeService {
	return &ClaudeService{
		Client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		Model:  model,
		Logger: logger,
	}
}

func (s *ClaudeService) SendMessage(ctx context.Context, history []Message) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("no messages provided for AI processing")
	}

	// Claude has no system role in the message list, so system messages are
	// lifted into the request's system prompt.
	var systemParts []string
	var claudeMessages []anthropic.MessageParam
	for _, msg := range history {
		switch msg.Role {
		case RoleSystem:
			systemParts = append(systemParts, msg.Content)
		case RoleAssistant:
			claudeMessages = append(claudeMessages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			claudeMessages = append(claudeMessages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.Model),
		Messages:  claudeMessages,
		MaxTokens: 4096,
	}
	if len(systemParts) > 0 {
		params.System = []anthropic.TextBlockParam{{Text: strings.Join(systemParts, "\n\n")}}
	}

	resp, err := s.Client.Messages.New(ctx, params)
	if err != nil {
		s.Logger.Warnf("Claude completion failed for model %s: %v", s.Model, err)
		return "", &ServiceError{Provider: "Anthropic", Err: err}
	}

	var content strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			content.WriteString(block.AsText().Text)
		}
	}
	if content.Len() == 0 {
		return "", &ServiceError{Provider: "Anthropic", Err: fmt.Errorf("empty completion response")}
	}
	return content.String(), nil
}
