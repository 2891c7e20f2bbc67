package db

import (
	"context"
	"database/sql"
)

const getUserAISettings = `
SELECT id, uuid, user_id, preferred_model_id, created_at, modified_at
FROM user_ai_settings WHERE user_id = ?
`

func (q *Queries) GetUserAISettings(ctx context.Context, userID int64) (*UserAISettings, error) {
	var s UserAISettings
	err := q.db.QueryRowContext(ctx, getUserAISettings, userID).
		Scan(&s.ID, &s.UUID, &s.UserID, &s.PreferredModelID, &s.CreatedAt, &s.ModifiedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

type UpsertUserAISettingsParams struct {
	UUID             string
	UserID           int64
	PreferredModelID sql.NullInt64
}

const upsertUserAISettings = `
INSERT INTO user_ai_settings (uuid, user_id, preferred_model_id)
VALUES (?, ?, ?)
ON CONFLICT (user_id) DO UPDATE SET
    preferred_model_id = excluded.preferred_model_id,
    modified_at = CURRENT_TIMESTAMP
RETURNING id, uuid, user_id, preferred_model_id, created_at, modified_at
`

func (q *Queries) UpsertUserAISettings(ctx context.Context, arg *UpsertUserAISettingsParams) (*UserAISettings, error) {
	var s UserAISettings
	err := q.db.QueryRowContext(ctx, upsertUserAISettings, arg.UUID, arg.UserID, arg.PreferredModelID).
		Scan(&s.ID, &s.UUID, &s.UserID, &s.PreferredModelID, &s.CreatedAt, &s.ModifiedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

type GetUserProviderConfigParams struct {
	UserID     int64
	ProviderID int64
}

const getUserProviderConfig = `
SELECT id, uuid, user_id, provider_id, api_key, is_enabled, created_at, modified_at
FROM user_provider_configs
WHERE user_id = ? AND provider_id = ?
`

func (q *Queries) GetUserProviderConfig(ctx context.Context, arg *GetUserProviderConfigParams) (*UserProviderConfig, error) {
	var c UserProviderConfig
	err := q.db.QueryRowContext(ctx, getUserProviderConfig, arg.UserID, arg.ProviderID).
		Scan(&c.ID, &c.UUID, &c.UserID, &c.ProviderID, &c.APIKey, &c.IsEnabled, &c.CreatedAt, &c.ModifiedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

type EnsureUserProviderConfigParams struct {
	UUID       string
	UserID     int64
	ProviderID int64
}

const insertUserProviderConfig = `
INSERT INTO user_provider_configs (uuid, user_id, provider_id)
VALUES (?, ?, ?)
ON CONFLICT (user_id, provider_id) DO NOTHING
`

// EnsureUserProviderConfig creates the config row if absent and returns it.
func (q *Queries) EnsureUserProviderConfig(ctx context.Context, arg *EnsureUserProviderConfigParams) (*UserProviderConfig, error) {
	if _, err := q.db.ExecContext(ctx, insertUserProviderConfig, arg.UUID, arg.UserID, arg.ProviderID); err != nil {
		return nil, err
	}
	return q.GetUserProviderConfig(ctx, &GetUserProviderConfigParams{
		UserID:     arg.UserID,
		ProviderID: arg.ProviderID,
	})
}

type UpdateProviderConfigAPIKeyParams struct {
	ID     int64
	APIKey string
}

const updateProviderConfigAPIKey = `
UPDATE user_provider_configs
SET api_key = ?, modified_at = CURRENT_TIMESTAMP
WHERE id = ?
`

func (q *Queries) UpdateProviderConfigAPIKey(ctx context.Context, arg *UpdateProviderConfigAPIKeyParams) error {
	_, err := q.db.ExecContext(ctx, updateProviderConfigAPIKey, arg.APIKey, arg.ID)
	return err
}

type UpdateProviderConfigEnabledParams struct {
	ID        int64
	IsEnabled bool
}

const updateProviderConfigEnabled = `
UPDATE user_provider_configs
SET is_enabled = ?, modified_at = CURRENT_TIMESTAMP
WHERE id = ?
`

func (q *Queries) UpdateProviderConfigEnabled(ctx context.Context, arg *UpdateProviderConfigEnabledParams) error {
	_, err := q.db.ExecContext(ctx, updateProviderConfigEnabled, arg.IsEnabled, arg.ID)
	return err
}

const listUserProviderConfigs = `
SELECT id, uuid, user_id, provider_id, api_key, is_enabled, created_at, modified_at
FROM user_provider_configs
WHERE user_id = ?
ORDER BY provider_id
`

func (q *Queries) ListUserProviderConfigs(ctx context.Context, userID int64) ([]*UserProviderConfig, error) {
	rows, err := q.db.QueryContext(ctx, listUserProviderConfigs, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*UserProviderConfig
	for rows.Next() {
		var c UserProviderConfig
		if err := rows.Scan(&c.ID, &c.UUID, &c.UserID, &c.ProviderID, &c.APIKey, &c.IsEnabled, &c.CreatedAt, &c.ModifiedAt); err != nil {
			return nil, err
		}
		items = append(items, &c)
	}
	return items, rows.Err()
}

const deleteEnabledModels = `
DELETE FROM user_provider_config_models WHERE config_id = ?
`

const insertEnabledModel = `
INSERT INTO user_provider_config_models (config_id, model_id) VALUES (?, ?)
`

// ReplaceEnabledModels resets the enabled-models set for a config. When bound
// to a plain connection the delete and inserts run in one transaction, so a
// failed insert never leaves a half-replaced set.
func (q *Queries) ReplaceEnabledModels(ctx context.Context, configID int64, modelIDs []int64) error {
	conn, ok := q.db.(*sql.DB)
	if !ok {
		return q.replaceEnabledModels(ctx, configID, modelIDs)
	}
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := q.WithTx(tx).replaceEnabledModels(ctx, configID, modelIDs); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (q *Queries) replaceEnabledModels(ctx context.Context, configID int64, modelIDs []int64) error {
	if _, err := q.db.ExecContext(ctx, deleteEnabledModels, configID); err != nil {
		return err
	}
	for _, id := range modelIDs {
		if _, err := q.db.ExecContext(ctx, insertEnabledModel, configID, id); err != nil {
			return err
		}
	}
	return nil
}

const listEnabledModelNames = `
SELECT m.name
FROM user_provider_config_models cm
JOIN ai_models m ON m.id = cm.model_id
WHERE cm.config_id = ?
ORDER BY m.name
`

func (q *Queries) ListEnabledModelNames(ctx context.Context, configID int64) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listEnabledModelNames, configID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
