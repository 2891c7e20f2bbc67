package db

import (
	"context"
	"database/sql"
)

type CreateProviderParams struct {
	UUID    string
	Name    string
	BaseURL string
}

const createProvider = `
INSERT INTO ai_providers (uuid, name, base_url) VALUES (?, ?, ?)
RETURNING id, uuid, name, base_url, created_at, modified_at
`

func (q *Queries) CreateProvider(ctx context.Context, arg *CreateProviderParams) (*AIProvider, error) {
	var p AIProvider
	err := q.db.QueryRowContext(ctx, createProvider, arg.UUID, arg.Name, arg.BaseURL).
		Scan(&p.ID, &p.UUID, &p.Name, &p.BaseURL, &p.CreatedAt, &p.ModifiedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

const getProviderByName = `
SELECT id, uuid, name, base_url, created_at, modified_at
FROM ai_providers
WHERE name = ? COLLATE NOCASE
`

func (q *Queries) GetProviderByName(ctx context.Context, name string) (*AIProvider, error) {
	var p AIProvider
	err := q.db.QueryRowContext(ctx, getProviderByName, name).
		Scan(&p.ID, &p.UUID, &p.Name, &p.BaseURL, &p.CreatedAt, &p.ModifiedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

const listProviders = `
SELECT id, uuid, name, base_url, created_at, modified_at
FROM ai_providers
ORDER BY name
`

func (q *Queries) ListProviders(ctx context.Context) ([]*AIProvider, error) {
	rows, err := q.db.QueryContext(ctx, listProviders)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*AIProvider
	for rows.Next() {
		var p AIProvider
		if err := rows.Scan(&p.ID, &p.UUID, &p.Name, &p.BaseURL, &p.CreatedAt, &p.ModifiedAt); err != nil {
			return nil, err
		}
		items = append(items, &p)
	}
	return items, rows.Err()
}

type ListProvidersPageParams struct {
	Search string
	Limit  int64
	Offset int64
}

const listProvidersPage = `
SELECT id, uuid, name, base_url, created_at, modified_at
FROM ai_providers
WHERE (? = '' OR name LIKE '%' || ? || '%')
ORDER BY name
LIMIT ? OFFSET ?
`

func (q *Queries) ListProvidersPage(ctx context.Context, arg *ListProvidersPageParams) ([]*AIProvider, error) {
	rows, err := q.db.QueryContext(ctx, listProvidersPage, arg.Search, arg.Search, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*AIProvider
	for rows.Next() {
		var p AIProvider
		if err := rows.Scan(&p.ID, &p.UUID, &p.Name, &p.BaseURL, &p.CreatedAt, &p.ModifiedAt); err != nil {
			return nil, err
		}
		items = append(items, &p)
	}
	return items, rows.Err()
}

const countProviders = `
SELECT COUNT(*) FROM ai_providers
WHERE (? = '' OR name LIKE '%' || ? || '%')
`

func (q *Queries) CountProviders(ctx context.Context, search string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countProviders, search, search).Scan(&n)
	return n, err
}

type CreateModelParams struct {
	UUID        string
	Name        string
	ProviderID  int64
	DisplayName string
	Description string
	IsActive    bool
}

const createModel = `
INSERT INTO ai_models (uuid, name, provider_id, display_name, description, is_active)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, uuid, name, provider_id, display_name, description, is_active, created_at, modified_at
`

func (q *Queries) CreateModel(ctx context.Context, arg *CreateModelParams) (*AIModel, error) {
	var m AIModel
	err := q.db.QueryRowContext(ctx, createModel,
		arg.UUID, arg.Name, arg.ProviderID, arg.DisplayName, arg.Description, arg.IsActive).
		Scan(&m.ID, &m.UUID, &m.Name, &m.ProviderID, &m.DisplayName, &m.Description, &m.IsActive, &m.CreatedAt, &m.ModifiedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const getModelByID = `
SELECT id, uuid, name, provider_id, display_name, description, is_active, created_at, modified_at
FROM ai_models WHERE id = ?
`

func (q *Queries) GetModelByID(ctx context.Context, id int64) (*AIModel, error) {
	var m AIModel
	err := q.db.QueryRowContext(ctx, getModelByID, id).
		Scan(&m.ID, &m.UUID, &m.Name, &m.ProviderID, &m.DisplayName, &m.Description, &m.IsActive, &m.CreatedAt, &m.ModifiedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const getModelByName = `
SELECT id, uuid, name, provider_id, display_name, description, is_active, created_at, modified_at
FROM ai_models WHERE name = ?
ORDER BY id
LIMIT 1
`

func (q *Queries) GetModelByName(ctx context.Context, name string) (*AIModel, error) {
	var m AIModel
	err := q.db.QueryRowContext(ctx, getModelByName, name).
		Scan(&m.ID, &m.UUID, &m.Name, &m.ProviderID, &m.DisplayName, &m.Description, &m.IsActive, &m.CreatedAt, &m.ModifiedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

type GetModelByNameForProviderParams struct {
	Name       string
	ProviderID int64
}

const getModelByNameForProvider = `
SELECT id, uuid, name, provider_id, display_name, description, is_active, created_at, modified_at
FROM ai_models WHERE name = ? AND provider_id = ?
`

func (q *Queries) GetModelByNameForProvider(ctx context.Context, arg *GetModelByNameForProviderParams) (*AIModel, error) {
	var m AIModel
	err := q.db.QueryRowContext(ctx, getModelByNameForProvider, arg.Name, arg.ProviderID).
		Scan(&m.ID, &m.UUID, &m.Name, &m.ProviderID, &m.DisplayName, &m.Description, &m.IsActive, &m.CreatedAt, &m.ModifiedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const listActiveModelsForProvider = `
SELECT id, uuid, name, provider_id, display_name, description, is_active, created_at, modified_at
FROM ai_models
WHERE provider_id = ? AND is_active = TRUE
ORDER BY name
`

func (q *Queries) ListActiveModelsForProvider(ctx context.Context, providerID int64) ([]*AIModel, error) {
	rows, err := q.db.QueryContext(ctx, listActiveModelsForProvider, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*AIModel
	for rows.Next() {
		var m AIModel
		if err := rows.Scan(&m.ID, &m.UUID, &m.Name, &m.ProviderID, &m.DisplayName, &m.Description, &m.IsActive, &m.CreatedAt, &m.ModifiedAt); err != nil {
			return nil, err
		}
		items = append(items, &m)
	}
	return items, rows.Err()
}

// ModelWithProviderRow joins a model with its provider name for listings.
type ModelWithProviderRow struct {
	AIModel
	ProviderName string
}

type ListModelsPageParams struct {
	Search     string
	ProviderID sql.NullInt64
	IsActive   sql.NullBool
	Limit      int64
	Offset     int64
}

const listModelsPage = `
SELECT m.id, m.uuid, m.name, m.provider_id, m.display_name, m.description, m.is_active, m.created_at, m.modified_at,
       p.name
FROM ai_models m
JOIN ai_providers p ON p.id = m.provider_id
WHERE (? = '' OR m.name LIKE '%' || ? || '%' OR m.display_name LIKE '%' || ? || '%' OR m.description LIKE '%' || ? || '%')
  AND (? IS NULL OR m.provider_id = ?)
  AND (? IS NULL OR m.is_active = ?)
ORDER BY m.name
LIMIT ? OFFSET ?
`

func (q *Queries) ListModelsPage(ctx context.Context, arg *ListModelsPageParams) ([]*ModelWithProviderRow, error) {
	rows, err := q.db.QueryContext(ctx, listModelsPage,
		arg.Search, arg.Search, arg.Search, arg.Search,
		arg.ProviderID, arg.ProviderID,
		arg.IsActive, arg.IsActive,
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*ModelWithProviderRow
	for rows.Next() {
		var r ModelWithProviderRow
		if err := rows.Scan(&r.ID, &r.UUID, &r.Name, &r.ProviderID, &r.DisplayName, &r.Description, &r.IsActive, &r.CreatedAt, &r.ModifiedAt, &r.ProviderName); err != nil {
			return nil, err
		}
		items = append(items, &r)
	}
	return items, rows.Err()
}

const countModels = `
SELECT COUNT(*)
FROM ai_models m
WHERE (? = '' OR m.name LIKE '%' || ? || '%' OR m.display_name LIKE '%' || ? || '%' OR m.description LIKE '%' || ? || '%')
  AND (? IS NULL OR m.provider_id = ?)
  AND (? IS NULL OR m.is_active = ?)
`

func (q *Queries) CountModels(ctx context.Context, arg *ListModelsPageParams) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countModels,
		arg.Search, arg.Search, arg.Search, arg.Search,
		arg.ProviderID, arg.ProviderID,
		arg.IsActive, arg.IsActive).Scan(&n)
	return n, err
}
