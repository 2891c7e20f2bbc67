package ai

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noteline/noteline/pkg/db"
	"github.com/noteline/noteline/pkg/errors"
	"github.com/noteline/noteline/pkg/logger"
)

// RequestObserver records upstream AI call outcomes.
type RequestObserver interface {
	ObserveAIRequest(provider, outcome string, elapsed time.Duration)
}

// ChatService owns chat dispatch, session access, and per-user AI settings.
type ChatService struct {
	queries  *db.Queries
	factory  ServiceFactory
	logger   *logger.Logger
	observer RequestObserver
}

func NewChatService(queries *db.Queries, factory ServiceFactory, logger *logger.Logger) *ChatService {
	return &ChatService{
		queries: queries,
		factory: factory,
		logger:  logger,
	}
}

// WithObserver attaches a metrics sink for upstream AI calls.
func (s *ChatService) WithObserver(observer RequestObserver) *ChatService {
	s.observer = observer
	return s
}

// SendMessage dispatches one user message to the model's provider and
// persists both sides of the exchange.
func (s *ChatService) SendMessage(ctx context.Context, userID int64, req *SendRequest) (*SendResult, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, errors.NewValidationError("Message cannot be empty", nil)
	}

	providerKey, providerDisplay, ok := InferProvider(req.Model)
	if !ok {
		return nil, errors.NewValidationError(fmt.Sprintf("Unsupported model: %s", req.Model), nil)
	}

	apiKey, err := s.resolveAPIKey(ctx, userID, providerKey, providerDisplay)
	if err != nil {
		return nil, err
	}

	session, err := s.resolveSession(ctx, userID, req.SessionID)
	if err != nil {
		return nil, err
	}

	// The formatted prompt, context blocks included, is what gets stored.
	content := FormatWithContext(message, req.ContextBlocks)
	if _, err := s.queries.InsertChatMessage(ctx, &db.InsertChatMessageParams{
		UUID:      uuid.NewString(),
		SessionID: session.ID,
		Role:      RoleUser,
		Content:   content,
	}); err != nil {
		return nil, errors.NewInternalError("failed to store message", err, nil)
	}

	stored, err := s.queries.ListMessagesForSession(ctx, session.ID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load conversation history", err, nil)
	}
	history := make([]Message, 0, len(stored))
	for _, m := range stored {
		history = append(history, Message{Role: m.Role, Content: m.Content})
	}

	service, err := s.factory.CreateService(providerKey, apiKey, req.Model)
	if err != nil {
		var svcErr *ServiceError
		if stderrors.As(err, &svcErr) {
			s.logger.Warnf("AI service error for user %d on model %s: %v", userID, req.Model, svcErr.Err)
			return nil, errors.NewConfigurationError(fmt.Sprintf("AI service error: %v", svcErr.Err), nil)
		}
		return nil, errors.NewInternalError("failed to create AI service", err, nil)
	}

	start := time.Now()
	reply, err := service.SendMessage(ctx, history)
	if s.observer != nil {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		s.observer.ObserveAIRequest(providerKey, outcome, time.Since(start))
	}
	if err != nil {
		var svcErr *ServiceError
		if stderrors.As(err, &svcErr) {
			s.logger.Warnf("AI service error for user %d on model %s: %v", userID, req.Model, svcErr.Err)
			return nil, errors.NewConfigurationError(fmt.Sprintf("AI service error: %v", svcErr.Err), nil)
		}
		return nil, errors.NewInternalError("failed to get AI response", err, nil)
	}

	if _, err := s.queries.InsertChatMessage(ctx, &db.InsertChatMessageParams{
		UUID:      uuid.NewString(),
		SessionID: session.ID,
		Role:      RoleAssistant,
		Content:   reply,
	}); err != nil {
		return nil, errors.NewInternalError("failed to store response", err, nil)
	}
	if err := s.queries.TouchChatSession(ctx, session.ID); err != nil {
		return nil, errors.NewInternalError("failed to update session", err, nil)
	}

	return &SendResult{Response: reply, SessionID: session.UUID}, nil
}

// resolveAPIKey finds the caller's key for the provider. Missing provider
// row, missing config, disabled config, and blank key all read the same to
// the caller: no key configured.
func (s *ChatService) resolveAPIKey(ctx context.Context, userID int64, providerKey, providerDisplay string) (string, error) {
	noKey := errors.NewConfigurationError(fmt.Sprintf("No API key configured for %s", providerDisplay), nil)

	provider, err := s.queries.GetProviderByName(ctx, providerKey)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return "", noKey
		}
		return "", errors.NewInternalError("failed to look up provider", err, nil)
	}

	cfg, err := s.queries.GetUserProviderConfig(ctx, &db.GetUserProviderConfigParams{
		UserID:     userID,
		ProviderID: provider.ID,
	})
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return "", noKey
		}
		return "", errors.NewInternalError("failed to look up provider config", err, nil)
	}
	if !cfg.IsEnabled || cfg.APIKey == "" {
		return "", noKey
	}
	return cfg.APIKey, nil
}

// resolveSession returns the caller's session for sessionID, or a fresh one.
// An unknown, malformed, or foreign session id is not an error: the exchange
// simply lands in a new session.
func (s *ChatService) resolveSession(ctx context.Context, userID int64, sessionID string) (*db.ChatSession, error) {
	if sessionID != "" {
		session, err := s.queries.GetChatSessionByUUID(ctx, sessionID)
		if err == nil && session.UserID == userID {
			return session, nil
		}
		if err != nil && !stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewInternalError("failed to look up session", err, nil)
		}
		s.logger.Debugf("session %s not usable for user %d, creating a new one", sessionID, userID)
	}

	session, err := s.queries.CreateChatSession(ctx, &db.CreateChatSessionParams{
		UUID:   uuid.NewString(),
		UserID: userID,
	})
	if err != nil {
		return nil, errors.NewInternalError("failed to create session", err, nil)
	}
	return session, nil
}
