package ai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/noteline/noteline/pkg/logger"
)

// OpenAIService implements Service using OpenAI's chat completions API.
type OpenAIService struct {
	Client *openai.Client
	Model  string
	Logger *logger.Logger
}

// NewOpenAIService creates a new OpenAI-backed service.
func NewOpenAIService(apiKey, model string, logger *logger.Logger) *OpenAIService {
	return &OpenAIService{
		Client: openai.NewClient(apiKey),
		Model:  model,
		Logger: logger,
	}
}

func (s *OpenAIService) SendMessage(ctx context.Context, history []Message) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("no messages provided for AI processing")
	}

	var openAIMessages []openai.ChatCompletionMessage
	for _, msg := range history {
		openAIMessages = append(openAIMessages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := s.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    s.Model,
		Messages: openAIMessages,
	})
	if err != nil {
		s.Logger.Warnf("OpenAI completion failed for model %s: %v", s.Model, err)
		return "", &ServiceError{Provider: "OpenAI", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ServiceError{Provider: "OpenAI", Err: fmt.Errorf("empty completion response")}
	}
	return resp.Choices[0].Message.Content, nil
}
