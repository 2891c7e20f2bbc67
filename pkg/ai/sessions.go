package ai

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/noteline/noteline/pkg/db"
	"github.com/noteline/noteline/pkg/errors"
)

const previewLimit = 100

// ListSessions returns the caller's sessions, newest modified first.
func (s *ChatService) ListSessions(ctx context.Context, userID int64) ([]SessionSummary, error) {
	sessions, err := s.queries.ListChatSessionsForUser(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError("failed to list sessions", err, nil)
	}

	summaries := make([]SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		count, err := s.queries.CountMessagesForSession(ctx, session.ID)
		if err != nil {
			return nil, errors.NewInternalError("failed to count messages", err, nil)
		}

		preview := ""
		latest, err := s.queries.GetLatestMessageForSession(ctx, session.ID)
		if err != nil && !stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewInternalError("failed to load latest message", err, nil)
		}
		if latest != nil {
			preview = Truncate(latest.Content, previewLimit)
		}

		summaries = append(summaries, SessionSummary{
			UUID:         session.UUID,
			Title:        sessionTitle(session),
			Preview:      preview,
			CreatedAt:    session.CreatedAt.Format(time.RFC3339),
			ModifiedAt:   session.ModifiedAt.Format(time.RFC3339),
			MessageCount: count,
		})
	}
	return summaries, nil
}

// GetSession returns one session with its ordered messages. Unknown and
// foreign sessions are indistinguishable to the caller.
func (s *ChatService) GetSession(ctx context.Context, userID int64, sessionUUID string) (*SessionDetail, error) {
	notFound := errors.NewNotFoundError("Chat session not found", nil)

	session, err := s.queries.GetChatSessionByUUID(ctx, sessionUUID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, notFound
		}
		return nil, errors.NewInternalError("failed to look up session", err, nil)
	}
	if session.UserID != userID {
		return nil, notFound
	}

	stored, err := s.queries.ListMessagesForSession(ctx, session.ID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load messages", err, nil)
	}
	messages := make([]SessionMessage, 0, len(stored))
	for _, m := range stored {
		messages = append(messages, SessionMessage{
			UUID:      m.UUID,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		})
	}

	return &SessionDetail{
		UUID:       session.UUID,
		Title:      sessionTitle(session),
		CreatedAt:  session.CreatedAt.Format(time.RFC3339),
		ModifiedAt: session.ModifiedAt.Format(time.RFC3339),
		Messages:   messages,
	}, nil
}

// sessionTitle falls back to a short-uuid placeholder for untitled sessions.
func sessionTitle(session *db.ChatSession) string {
	if session.Title.Valid && session.Title.String != "" {
		return session.Title.String
	}
	return fmt.Sprintf("Session %s...", ShortUUID(session.UUID))
}

// ShortUUID returns the first eight characters of a uuid.
func ShortUUID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// Truncate caps s at limit runes, appending an ellipsis when cut.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
