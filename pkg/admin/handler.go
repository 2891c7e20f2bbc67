package admin

import (
	"database/sql"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/noteline/noteline/pkg/ai"
	"github.com/noteline/noteline/pkg/db"
	"github.com/noteline/noteline/pkg/errors"
	"github.com/noteline/noteline/pkg/http/response"
	"github.com/noteline/noteline/pkg/logger"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
	previewLimit    = 100
)

// Handler exposes read-only staff listings over the chat data model. API keys
// never leave this layer, only their presence does.
type Handler struct {
	queries *db.Queries
	logger  *logger.Logger
}

func NewHandler(queries *db.Queries, logger *logger.Logger) *Handler {
	return &Handler{queries: queries, logger: logger}
}

// RegisterRoutes registers the admin routes. Staff gating is applied by the
// router that mounts them.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/ai", func(r chi.Router) {
		r.Get("/providers/", response.Middleware(h.ListProviders))
		r.Get("/models/", response.Middleware(h.ListModels))
		r.Get("/sessions/", response.Middleware(h.ListSessions))
		r.Get("/sessions/{uuid}/", response.Middleware(h.GetSession))
		r.Get("/messages/", response.Middleware(h.ListMessages))
		r.Get("/user-settings/", response.Middleware(h.ListUserSettings))
		r.Get("/provider-configs/", response.Middleware(h.ListProviderConfigs))
	})
}

// PaginatedResponse is the envelope shared by all admin listings.
type PaginatedResponse struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int64       `json:"page"`
	PageSize int64       `json:"page_size"`
}

type pageQuery struct {
	Search string
	Page   int64
	Limit  int64
	Offset int64
}

func parsePageQuery(r *http.Request) (*pageQuery, error) {
	q := &pageQuery{
		Search: r.URL.Query().Get("q"),
		Page:   1,
		Limit:  defaultPageSize,
	}
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || page < 1 {
			return nil, errors.NewValidationError("invalid page", nil)
		}
		q.Page = page
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		size, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || size < 1 || size > maxPageSize {
			return nil, errors.NewValidationError("invalid page_size", nil)
		}
		q.Limit = size
	}
	q.Offset = (q.Page - 1) * q.Limit
	return q, nil
}

func parseBoolFilter(r *http.Request, name string) (sql.NullBool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return sql.NullBool{}, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return sql.NullBool{}, errors.NewValidationError("invalid "+name, nil)
	}
	return sql.NullBool{Bool: value, Valid: true}, nil
}

func parseInt64Filter(r *http.Request, name string) (sql.NullInt64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return sql.NullInt64{}, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return sql.NullInt64{}, errors.NewValidationError("invalid "+name, nil)
	}
	return sql.NullInt64{Int64: value, Valid: true}, nil
}

type ProviderItem struct {
	ID        int64  `json:"id"`
	ShortUUID string `json:"short_uuid"`
	Name      string `json:"name"`
	BaseURL   string `json:"base_url"`
	CreatedAt string `json:"created_at"`
}

// ListProviders godoc
// @Summary List AI providers
// @Tags Admin
// @Produce json
// @Param q query string false "Search by name"
// @Success 200 {object} PaginatedResponse
// @Failure 403 {object} response.ErrorResponse "Staff access required"
// @Router /admin/ai/providers/ [get]
func (h *Handler) ListProviders(w http.ResponseWriter, r *http.Request) error {
	q, err := parsePageQuery(r)
	if err != nil {
		return err
	}

	rows, err := h.queries.ListProvidersPage(r.Context(), &db.ListProvidersPageParams{
		Search: q.Search,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		return errors.NewInternalError("failed to list providers", err, nil)
	}
	total, err := h.queries.CountProviders(r.Context(), q.Search)
	if err != nil {
		return errors.NewInternalError("failed to count providers", err, nil)
	}

	items := make([]ProviderItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, ProviderItem{
			ID:        row.ID,
			ShortUUID: ai.ShortUUID(row.UUID),
			Name:      row.Name,
			BaseURL:   row.BaseURL,
			CreatedAt: formatTime(row.CreatedAt),
		})
	}
	return writePage(w, items, total, q)
}

type ModelItem struct {
	ID          int64  `json:"id"`
	ShortUUID   string `json:"short_uuid"`
	Name        string `json:"name"`
	Provider    string `json:"provider"`
	DisplayName string `json:"display_name"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
}

// ListModels godoc
// @Summary List AI models
// @Tags Admin
// @Produce json
// @Param q query string false "Search by name, display name, or description"
// @Param provider_id query int false "Filter by provider"
// @Param is_active query bool false "Filter by active flag"
// @Success 200 {object} PaginatedResponse
// @Failure 403 {object} response.ErrorResponse "Staff access required"
// @Router /admin/ai/models/ [get]
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) error {
	q, err := parsePageQuery(r)
	if err != nil {
		return err
	}
	providerID, err := parseInt64Filter(r, "provider_id")
	if err != nil {
		return err
	}
	isActive, err := parseBoolFilter(r, "is_active")
	if err != nil {
		return err
	}

	params := &db.ListModelsPageParams{
		Search:     q.Search,
		ProviderID: providerID,
		IsActive:   isActive,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
	rows, err := h.queries.ListModelsPage(r.Context(), params)
	if err != nil {
		return errors.NewInternalError("failed to list models", err, nil)
	}
	total, err := h.queries.CountModels(r.Context(), params)
	if err != nil {
		return errors.NewInternalError("failed to count models", err, nil)
	}

	items := make([]ModelItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, ModelItem{
			ID:          row.ID,
			ShortUUID:   ai.ShortUUID(row.UUID),
			Name:        row.Name,
			Provider:    row.ProviderName,
			DisplayName: row.DisplayName,
			IsActive:    row.IsActive,
			CreatedAt:   formatTime(row.CreatedAt),
		})
	}
	return writePage(w, items, total, q)
}

type SessionItem struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	ShortUUID    string `json:"short_uuid"`
	UserEmail    string `json:"user_email"`
	MessageCount int64  `json:"message_count"`
	CreatedAt    string `json:"created_at"`
	ModifiedAt   string `json:"modified_at"`
}

// ListSessions godoc
// @Summary List chat sessions across all users
// @Tags Admin
// @Produce json
// @Param q query string false "Search by title or user email"
// @Success 200 {object} PaginatedResponse
// @Failure 403 {object} response.ErrorResponse "Staff access required"
// @Router /admin/ai/sessions/ [get]
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) error {
	q, err := parsePageQuery(r)
	if err != nil {
		return err
	}

	rows, err := h.queries.ListSessionsPage(r.Context(), &db.ListSessionsPageParams{
		Search: q.Search,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		return errors.NewInternalError("failed to list sessions", err, nil)
	}
	total, err := h.queries.CountSessions(r.Context(), q.Search)
	if err != nil {
		return errors.NewInternalError("failed to count sessions", err, nil)
	}

	items := make([]SessionItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, SessionItem{
			ID:           row.ID,
			Title:        titleOrID(row.Title.String, row.UUID),
			ShortUUID:    ai.ShortUUID(row.UUID),
			UserEmail:    row.UserEmail,
			MessageCount: row.MessageCount,
			CreatedAt:    formatTime(row.CreatedAt),
			ModifiedAt:   formatTime(row.ModifiedAt),
		})
	}
	return writePage(w, items, total, q)
}

// SessionMessagePreview is one message inlined on the session detail view.
// Content is capped the same way the message listing caps it.
type SessionMessagePreview struct {
	ID             int64  `json:"id"`
	ShortUUID      string `json:"short_uuid"`
	Role           string `json:"role"`
	ContentPreview string `json:"content_preview"`
	CreatedAt      string `json:"created_at"`
}

type SessionDetailItem struct {
	SessionItem
	Messages []SessionMessagePreview `json:"messages"`
}

// GetSession godoc
// @Summary Get one chat session with its message previews
// @Tags Admin
// @Produce json
// @Param uuid path string true "Session UUID"
// @Success 200 {object} SessionDetailItem
// @Failure 403 {object} response.ErrorResponse "Staff access required"
// @Failure 404 {object} response.ErrorResponse "Chat session not found"
// @Router /admin/ai/sessions/{uuid}/ [get]
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) error {
	sessionUUID := chi.URLParam(r, "uuid")

	row, err := h.queries.GetSessionAdmin(r.Context(), sessionUUID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFoundError("Chat session not found", nil)
		}
		return errors.NewInternalError("failed to load session", err, nil)
	}
	messages, err := h.queries.ListMessagesForSession(r.Context(), row.ID)
	if err != nil {
		return errors.NewInternalError("failed to load session messages", err, nil)
	}

	detail := SessionDetailItem{
		SessionItem: SessionItem{
			ID:           row.ID,
			Title:        titleOrID(row.Title.String, row.UUID),
			ShortUUID:    ai.ShortUUID(row.UUID),
			UserEmail:    row.UserEmail,
			MessageCount: row.MessageCount,
			CreatedAt:    formatTime(row.CreatedAt),
			ModifiedAt:   formatTime(row.ModifiedAt),
		},
		Messages: make([]SessionMessagePreview, 0, len(messages)),
	}
	for _, m := range messages {
		detail.Messages = append(detail.Messages, SessionMessagePreview{
			ID:             m.ID,
			ShortUUID:      ai.ShortUUID(m.UUID),
			Role:           m.Role,
			ContentPreview: ai.Truncate(m.Content, previewLimit),
			CreatedAt:      formatTime(m.CreatedAt),
		})
	}
	return response.WriteSuccess(w, http.StatusOK, detail)
}

type MessageItem struct {
	ID             int64  `json:"id"`
	SessionTitle   string `json:"session_title"`
	ShortUUID      string `json:"short_uuid"`
	Role           string `json:"role"`
	ContentPreview string `json:"content_preview"`
	UserEmail      string `json:"user_email"`
	CreatedAt      string `json:"created_at"`
}

// ListMessages godoc
// @Summary List chat messages across all users
// @Tags Admin
// @Produce json
// @Param q query string false "Search by content, session title, or user email"
// @Param role query string false "Filter by role"
// @Success 200 {object} PaginatedResponse
// @Failure 403 {object} response.ErrorResponse "Staff access required"
// @Router /admin/ai/messages/ [get]
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) error {
	q, err := parsePageQuery(r)
	if err != nil {
		return err
	}
	role := sql.NullString{}
	if raw := r.URL.Query().Get("role"); raw != "" {
		if raw != ai.RoleUser && raw != ai.RoleAssistant {
			return errors.NewValidationError("invalid role", nil)
		}
		role = sql.NullString{String: raw, Valid: true}
	}

	params := &db.ListMessagesPageParams{
		Role:   role,
		Search: q.Search,
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	rows, err := h.queries.ListMessagesPage(r.Context(), params)
	if err != nil {
		return errors.NewInternalError("failed to list messages", err, nil)
	}
	total, err := h.queries.CountMessages(r.Context(), params)
	if err != nil {
		return errors.NewInternalError("failed to count messages", err, nil)
	}

	items := make([]MessageItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, MessageItem{
			ID:             row.ID,
			SessionTitle:   titleOrID(row.SessionTitle.String, row.SessionUUID),
			ShortUUID:      ai.ShortUUID(row.UUID),
			Role:           row.Role,
			ContentPreview: ai.Truncate(row.Content, previewLimit),
			UserEmail:      row.UserEmail,
			CreatedAt:      formatTime(row.CreatedAt),
		})
	}
	return writePage(w, items, total, q)
}

type UserSettingsItem struct {
	ID             int64  `json:"id"`
	ShortUUID      string `json:"short_uuid"`
	UserEmail      string `json:"user_email"`
	PreferredModel string `json:"preferred_model"`
	CreatedAt      string `json:"created_at"`
}

// ListUserSettings godoc
// @Summary List per-user AI settings
// @Tags Admin
// @Produce json
// @Param q query string false "Search by user email or model name"
// @Param provider_id query int false "Filter by preferred model's provider"
// @Success 200 {object} PaginatedResponse
// @Failure 403 {object} response.ErrorResponse "Staff access required"
// @Router /admin/ai/user-settings/ [get]
func (h *Handler) ListUserSettings(w http.ResponseWriter, r *http.Request) error {
	q, err := parsePageQuery(r)
	if err != nil {
		return err
	}
	providerID, err := parseInt64Filter(r, "provider_id")
	if err != nil {
		return err
	}

	params := &db.ListUserSettingsPageParams{
		ProviderID: providerID,
		Search:     q.Search,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
	rows, err := h.queries.ListUserSettingsPage(r.Context(), params)
	if err != nil {
		return errors.NewInternalError("failed to list user settings", err, nil)
	}
	total, err := h.queries.CountUserSettings(r.Context(), params)
	if err != nil {
		return errors.NewInternalError("failed to count user settings", err, nil)
	}

	items := make([]UserSettingsItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, UserSettingsItem{
			ID:             row.ID,
			ShortUUID:      ai.ShortUUID(row.UUID),
			UserEmail:      row.UserEmail,
			PreferredModel: row.PreferredModelName.String,
			CreatedAt:      formatTime(row.CreatedAt),
		})
	}
	return writePage(w, items, total, q)
}

type ProviderConfigItem struct {
	ID                int64  `json:"id"`
	ShortUUID         string `json:"short_uuid"`
	UserEmail         string `json:"user_email"`
	Provider          string `json:"provider"`
	IsEnabled         bool   `json:"is_enabled"`
	HasAPIKey         bool   `json:"has_api_key"`
	EnabledModelCount int64  `json:"enabled_models_count"`
	CreatedAt         string `json:"created_at"`
}

// ListProviderConfigs godoc
// @Summary List per-user provider configurations
// @Description API keys are reduced to a presence flag and never returned
// @Tags Admin
// @Produce json
// @Param q query string false "Search by user email or provider name"
// @Param provider_id query int false "Filter by provider"
// @Param is_enabled query bool false "Filter by enabled flag"
// @Success 200 {object} PaginatedResponse
// @Failure 403 {object} response.ErrorResponse "Staff access required"
// @Router /admin/ai/provider-configs/ [get]
func (h *Handler) ListProviderConfigs(w http.ResponseWriter, r *http.Request) error {
	q, err := parsePageQuery(r)
	if err != nil {
		return err
	}
	providerID, err := parseInt64Filter(r, "provider_id")
	if err != nil {
		return err
	}
	isEnabled, err := parseBoolFilter(r, "is_enabled")
	if err != nil {
		return err
	}

	params := &db.ListProviderConfigsPageParams{
		ProviderID: providerID,
		IsEnabled:  isEnabled,
		Search:     q.Search,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
	rows, err := h.queries.ListProviderConfigsPage(r.Context(), params)
	if err != nil {
		return errors.NewInternalError("failed to list provider configs", err, nil)
	}
	total, err := h.queries.CountProviderConfigs(r.Context(), params)
	if err != nil {
		return errors.NewInternalError("failed to count provider configs", err, nil)
	}

	items := make([]ProviderConfigItem, 0, len(rows))
	for _, row := range rows {
		createdAt := ""
		if row.CreatedAt.Valid {
			createdAt = formatTime(row.CreatedAt.Time)
		}
		items = append(items, ProviderConfigItem{
			ID:                row.ID,
			ShortUUID:         ai.ShortUUID(row.UUID),
			UserEmail:         row.UserEmail,
			Provider:          row.ProviderName,
			IsEnabled:         row.IsEnabled,
			HasAPIKey:         row.HasAPIKey,
			EnabledModelCount: row.EnabledModelCount,
			CreatedAt:         createdAt,
		})
	}
	return writePage(w, items, total, q)
}

func writePage(w http.ResponseWriter, items interface{}, total int64, q *pageQuery) error {
	return response.WriteSuccess(w, http.StatusOK, PaginatedResponse{
		Items:    items,
		Total:    total,
		Page:     q.Page,
		PageSize: q.Limit,
	})
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func titleOrID(title, uuid string) string {
	if title != "" {
		return title
	}
	return "Session " + ai.ShortUUID(uuid) + "..."
}
