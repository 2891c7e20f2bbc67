package db

import (
	"context"
	"database/sql"
)

// The queries in this file back the read-only admin listings. They join in
// the owner email and aggregate counts so the handlers stay declarative.

// AdminSessionRow is a chat session with its owner and message count.
type AdminSessionRow struct {
	ChatSession
	UserEmail    string
	MessageCount int64
}

type ListSessionsPageParams struct {
	Search string
	Limit  int64
	Offset int64
}

const listSessionsPage = `
SELECT s.id, s.uuid, s.user_id, s.title, s.created_at, s.modified_at,
       u.email,
       (SELECT COUNT(*) FROM chat_messages m WHERE m.session_id = s.id)
FROM chat_sessions s
JOIN users u ON u.id = s.user_id
WHERE (? = '' OR s.title LIKE '%' || ? || '%' OR u.email LIKE '%' || ? || '%')
ORDER BY s.modified_at DESC, s.id DESC
LIMIT ? OFFSET ?
`

func (q *Queries) ListSessionsPage(ctx context.Context, arg *ListSessionsPageParams) ([]*AdminSessionRow, error) {
	rows, err := q.db.QueryContext(ctx, listSessionsPage,
		arg.Search, arg.Search, arg.Search, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*AdminSessionRow
	for rows.Next() {
		var r AdminSessionRow
		if err := rows.Scan(&r.ID, &r.UUID, &r.UserID, &r.Title, &r.CreatedAt, &r.ModifiedAt, &r.UserEmail, &r.MessageCount); err != nil {
			return nil, err
		}
		items = append(items, &r)
	}
	return items, rows.Err()
}

const getSessionAdmin = `
SELECT s.id, s.uuid, s.user_id, s.title, s.created_at, s.modified_at,
       u.email,
       (SELECT COUNT(*) FROM chat_messages m WHERE m.session_id = s.id)
FROM chat_sessions s
JOIN users u ON u.id = s.user_id
WHERE s.uuid = ?
`

func (q *Queries) GetSessionAdmin(ctx context.Context, sessionUUID string) (*AdminSessionRow, error) {
	var r AdminSessionRow
	err := q.db.QueryRowContext(ctx, getSessionAdmin, sessionUUID).
		Scan(&r.ID, &r.UUID, &r.UserID, &r.Title, &r.CreatedAt, &r.ModifiedAt, &r.UserEmail, &r.MessageCount)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

const countSessions = `
SELECT COUNT(*)
FROM chat_sessions s
JOIN users u ON u.id = s.user_id
WHERE (? = '' OR s.title LIKE '%' || ? || '%' OR u.email LIKE '%' || ? || '%')
`

func (q *Queries) CountSessions(ctx context.Context, search string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countSessions, search, search, search).Scan(&n)
	return n, err
}

// AdminMessageRow is a chat message with its session and owner context.
type AdminMessageRow struct {
	ChatMessage
	SessionUUID  string
	SessionTitle sql.NullString
	UserEmail    string
}

type ListMessagesPageParams struct {
	Role   sql.NullString
	Search string
	Limit  int64
	Offset int64
}

const listMessagesPage = `
SELECT m.id, m.uuid, m.session_id, m.role, m.content, m.created_at,
       s.uuid, s.title, u.email
FROM chat_messages m
JOIN chat_sessions s ON s.id = m.session_id
JOIN users u ON u.id = s.user_id
WHERE (? IS NULL OR m.role = ?)
  AND (? = '' OR m.content LIKE '%' || ? || '%' OR s.title LIKE '%' || ? || '%' OR u.email LIKE '%' || ? || '%')
ORDER BY m.id DESC
LIMIT ? OFFSET ?
`

func (q *Queries) ListMessagesPage(ctx context.Context, arg *ListMessagesPageParams) ([]*AdminMessageRow, error) {
	rows, err := q.db.QueryContext(ctx, listMessagesPage,
		arg.Role, arg.Role,
		arg.Search, arg.Search, arg.Search, arg.Search,
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*AdminMessageRow
	for rows.Next() {
		var r AdminMessageRow
		if err := rows.Scan(&r.ID, &r.UUID, &r.SessionID, &r.Role, &r.Content, &r.CreatedAt, &r.SessionUUID, &r.SessionTitle, &r.UserEmail); err != nil {
			return nil, err
		}
		items = append(items, &r)
	}
	return items, rows.Err()
}

const countMessages = `
SELECT COUNT(*)
FROM chat_messages m
JOIN chat_sessions s ON s.id = m.session_id
JOIN users u ON u.id = s.user_id
WHERE (? IS NULL OR m.role = ?)
  AND (? = '' OR m.content LIKE '%' || ? || '%' OR s.title LIKE '%' || ? || '%' OR u.email LIKE '%' || ? || '%')
`

func (q *Queries) CountMessages(ctx context.Context, arg *ListMessagesPageParams) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countMessages,
		arg.Role, arg.Role,
		arg.Search, arg.Search, arg.Search, arg.Search).Scan(&n)
	return n, err
}

// AdminUserSettingsRow is a settings record with owner and model names.
type AdminUserSettingsRow struct {
	UserAISettings
	UserEmail          string
	PreferredModelName sql.NullString
}

type ListUserSettingsPageParams struct {
	ProviderID sql.NullInt64
	Search     string
	Limit      int64
	Offset     int64
}

const listUserSettingsPage = `
SELECT s.id, s.uuid, s.user_id, s.preferred_model_id, s.created_at, s.modified_at,
       u.email, m.name
FROM user_ai_settings s
JOIN users u ON u.id = s.user_id
LEFT JOIN ai_models m ON m.id = s.preferred_model_id
WHERE (? IS NULL OR m.provider_id = ?)
  AND (? = '' OR u.email LIKE '%' || ? || '%' OR m.name LIKE '%' || ? || '%' OR m.display_name LIKE '%' || ? || '%')
ORDER BY s.id
LIMIT ? OFFSET ?
`

func (q *Queries) ListUserSettingsPage(ctx context.Context, arg *ListUserSettingsPageParams) ([]*AdminUserSettingsRow, error) {
	rows, err := q.db.QueryContext(ctx, listUserSettingsPage,
		arg.ProviderID, arg.ProviderID,
		arg.Search, arg.Search, arg.Search, arg.Search, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*AdminUserSettingsRow
	for rows.Next() {
		var r AdminUserSettingsRow
		if err := rows.Scan(&r.ID, &r.UUID, &r.UserID, &r.PreferredModelID, &r.CreatedAt, &r.ModifiedAt, &r.UserEmail, &r.PreferredModelName); err != nil {
			return nil, err
		}
		items = append(items, &r)
	}
	return items, rows.Err()
}

const countUserSettings = `
SELECT COUNT(*)
FROM user_ai_settings s
JOIN users u ON u.id = s.user_id
LEFT JOIN ai_models m ON m.id = s.preferred_model_id
WHERE (? IS NULL OR m.provider_id = ?)
  AND (? = '' OR u.email LIKE '%' || ? || '%' OR m.name LIKE '%' || ? || '%' OR m.display_name LIKE '%' || ? || '%')
`

func (q *Queries) CountUserSettings(ctx context.Context, arg *ListUserSettingsPageParams) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countUserSettings,
		arg.ProviderID, arg.ProviderID,
		arg.Search, arg.Search, arg.Search, arg.Search).Scan(&n)
	return n, err
}

// AdminProviderConfigRow is a provider config with owner, provider, and the
// enabled-model count. The API key itself is intentionally absent.
type AdminProviderConfigRow struct {
	ID                int64
	UUID              string
	UserID            int64
	UserEmail         string
	ProviderID        int64
	ProviderName      string
	HasAPIKey         bool
	IsEnabled         bool
	EnabledModelCount int64
	CreatedAt         sql.NullTime
}

type ListProviderConfigsPageParams struct {
	ProviderID sql.NullInt64
	IsEnabled  sql.NullBool
	Search     string
	Limit      int64
	Offset     int64
}

const listProviderConfigsPage = `
SELECT c.id, c.uuid, c.user_id, u.email, c.provider_id, p.name,
       c.api_key <> '', c.is_enabled,
       (SELECT COUNT(*) FROM user_provider_config_models cm WHERE cm.config_id = c.id),
       c.created_at
FROM user_provider_configs c
JOIN users u ON u.id = c.user_id
JOIN ai_providers p ON p.id = c.provider_id
WHERE (? IS NULL OR c.provider_id = ?)
  AND (? IS NULL OR c.is_enabled = ?)
  AND (? = '' OR u.email LIKE '%' || ? || '%' OR p.name LIKE '%' || ? || '%')
ORDER BY c.id
LIMIT ? OFFSET ?
`

func (q *Queries) ListProviderConfigsPage(ctx context.Context, arg *ListProviderConfigsPageParams) ([]*AdminProviderConfigRow, error) {
	rows, err := q.db.QueryContext(ctx, listProviderConfigsPage,
		arg.ProviderID, arg.ProviderID,
		arg.IsEnabled, arg.IsEnabled,
		arg.Search, arg.Search, arg.Search,
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*AdminProviderConfigRow
	for rows.Next() {
		var r AdminProviderConfigRow
		if err := rows.Scan(&r.ID, &r.UUID, &r.UserID, &r.UserEmail, &r.ProviderID, &r.ProviderName, &r.HasAPIKey, &r.IsEnabled, &r.EnabledModelCount, &r.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &r)
	}
	return items, rows.Err()
}

const countProviderConfigs = `
SELECT COUNT(*)
FROM user_provider_configs c
JOIN users u ON u.id = c.user_id
JOIN ai_providers p ON p.id = c.provider_id
WHERE (? IS NULL OR c.provider_id = ?)
  AND (? IS NULL OR c.is_enabled = ?)
  AND (? = '' OR u.email LIKE '%' || ? || '%' OR p.name LIKE '%' || ? || '%')
`

func (q *Queries) CountProviderConfigs(ctx context.Context, arg *ListProviderConfigsPageParams) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countProviderConfigs,
		arg.ProviderID, arg.ProviderID,
		arg.IsEnabled, arg.IsEnabled,
		arg.Search, arg.Search, arg.Search).Scan(&n)
	return n, err
}
