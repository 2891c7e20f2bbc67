package db

import (
	"context"
	"database/sql"
)

type CreateChatSessionParams struct {
	UUID   string
	UserID int64
	Title  sql.NullString
}

const createChatSession = `
INSERT INTO chat_sessions (uuid, user_id, title) VALUES (?, ?, ?)
RETURNING id, uuid, user_id, title, created_at, modified_at
`

func (q *Queries) CreateChatSession(ctx context.Context, arg *CreateChatSessionParams) (*ChatSession, error) {
	var s ChatSession
	err := q.db.QueryRowContext(ctx, createChatSession, arg.UUID, arg.UserID, arg.Title).
		Scan(&s.ID, &s.UUID, &s.UserID, &s.Title, &s.CreatedAt, &s.ModifiedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

const getChatSessionByUUID = `
SELECT id, uuid, user_id, title, created_at, modified_at
FROM chat_sessions WHERE uuid = ?
`

// GetChatSessionByUUID returns the session regardless of owner; visibility
// is enforced by the service layer.
func (q *Queries) GetChatSessionByUUID(ctx context.Context, uuid string) (*ChatSession, error) {
	var s ChatSession
	err := q.db.QueryRowContext(ctx, getChatSessionByUUID, uuid).
		Scan(&s.ID, &s.UUID, &s.UserID, &s.Title, &s.CreatedAt, &s.ModifiedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

const listChatSessionsForUser = `
SELECT id, uuid, user_id, title, created_at, modified_at
FROM chat_sessions
WHERE user_id = ?
ORDER BY modified_at DESC, id DESC
`

func (q *Queries) ListChatSessionsForUser(ctx context.Context, userID int64) ([]*ChatSession, error) {
	rows, err := q.db.QueryContext(ctx, listChatSessionsForUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*ChatSession
	for rows.Next() {
		var s ChatSession
		if err := rows.Scan(&s.ID, &s.UUID, &s.UserID, &s.Title, &s.CreatedAt, &s.ModifiedAt); err != nil {
			return nil, err
		}
		items = append(items, &s)
	}
	return items, rows.Err()
}

const touchChatSession = `
UPDATE chat_sessions SET modified_at = CURRENT_TIMESTAMP WHERE id = ?
`

func (q *Queries) TouchChatSession(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, touchChatSession, id)
	return err
}

type InsertChatMessageParams struct {
	UUID      string
	SessionID int64
	Role      string
	Content   string
}

const insertChatMessage = `
INSERT INTO chat_messages (uuid, session_id, role, content) VALUES (?, ?, ?, ?)
RETURNING id, uuid, session_id, role, content, created_at
`

func (q *Queries) InsertChatMessage(ctx context.Context, arg *InsertChatMessageParams) (*ChatMessage, error) {
	var m ChatMessage
	err := q.db.QueryRowContext(ctx, insertChatMessage, arg.UUID, arg.SessionID, arg.Role, arg.Content).
		Scan(&m.ID, &m.UUID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const listMessagesForSession = `
SELECT id, uuid, session_id, role, content, created_at
FROM chat_messages
WHERE session_id = ?
ORDER BY id
`

func (q *Queries) ListMessagesForSession(ctx context.Context, sessionID int64) ([]*ChatMessage, error) {
	rows, err := q.db.QueryContext(ctx, listMessagesForSession, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.UUID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &m)
	}
	return items, rows.Err()
}

const countMessagesForSession = `
SELECT COUNT(*) FROM chat_messages WHERE session_id = ?
`

func (q *Queries) CountMessagesForSession(ctx context.Context, sessionID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countMessagesForSession, sessionID).Scan(&n)
	return n, err
}

const getLatestMessageForSession = `
SELECT id, uuid, session_id, role, content, created_at
FROM chat_messages
WHERE session_id = ?
ORDER BY id DESC
LIMIT 1
`

func (q *Queries) GetLatestMessageForSession(ctx context.Context, sessionID int64) (*ChatMessage, error) {
	var m ChatMessage
	err := q.db.QueryRowContext(ctx, getLatestMessageForSession, sessionID).
		Scan(&m.ID, &m.UUID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
