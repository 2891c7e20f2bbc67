package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/noteline/noteline/pkg/ai"
	"github.com/noteline/noteline/pkg/auth"
	"github.com/noteline/noteline/pkg/db"
	"github.com/noteline/noteline/pkg/errors"
	"github.com/noteline/noteline/pkg/http/response"
	"github.com/noteline/noteline/pkg/logger"
)

// ChatHandler exposes the AI chat API.
type ChatHandler struct {
	service  *ai.ChatService
	logger   *logger.Logger
	validate *validator.Validate
}

func NewChatHandler(service *ai.ChatService, logger *logger.Logger) *ChatHandler {
	return &ChatHandler{
		service:  service,
		logger:   logger,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the chat routes. All of them require an
// authenticated user.
func (h *ChatHandler) RegisterRoutes(r chi.Router) {
	r.Route("/ai-chat", func(r chi.Router) {
		r.Post("/send/", response.Middleware(h.SendMessage))
		r.Get("/sessions/", response.Middleware(h.ListSessions))
		r.Get("/sessions/{uuid}/", response.Middleware(h.GetSession))
		r.Get("/settings/", response.Middleware(h.GetSettings))
		r.Post("/settings/update/", response.Middleware(h.UpdateSettings))
	})
}

func currentUser(r *http.Request) (*db.User, error) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		return nil, errors.NewUnauthorizedError("Authentication credentials were not provided")
	}
	return user, nil
}

// SendMessage godoc
// @Summary Send a chat message
// @Description Send a message to the AI provider inferred from the model name and persist the exchange
// @Tags AIChat
// @Accept json
// @Produce json
// @Param request body ai.SendRequest true "Chat message request"
// @Success 200 {object} ai.SendResult
// @Failure 400 {object} response.ErrorResponse "Validation or configuration error"
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Router /ai-chat/send/ [post]
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}

	var req ai.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return errors.NewValidationError("invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if strings.TrimSpace(req.Message) == "" {
		return errors.NewValidationError("Message cannot be empty", nil)
	}
	if err := h.validate.Struct(&req); err != nil {
		return errors.NewValidationError("Model is required", map[string]interface{}{
			"error": err.Error(),
		})
	}

	result, err := h.service.SendMessage(r.Context(), user.ID, &req)
	if err != nil {
		return err
	}
	return response.WriteSuccess(w, http.StatusOK, result)
}

// ListSessions godoc
// @Summary List chat sessions
// @Description List the caller's chat sessions, most recently modified first
// @Tags AIChat
// @Produce json
// @Success 200 {array} ai.SessionSummary
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Router /ai-chat/sessions/ [get]
func (h *ChatHandler) ListSessions(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}

	sessions, err := h.service.ListSessions(r.Context(), user.ID)
	if err != nil {
		return err
	}
	return response.WriteSuccess(w, http.StatusOK, sessions)
}

// GetSession godoc
// @Summary Get a chat session
// @Description Get one of the caller's chat sessions with its messages
// @Tags AIChat
// @Produce json
// @Param uuid path string true "Session UUID"
// @Success 200 {object} ai.SessionDetail
// @Failure 404 {object} response.ErrorResponse "Session not found"
// @Router /ai-chat/sessions/{uuid}/ [get]
func (h *ChatHandler) GetSession(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}

	detail, err := h.service.GetSession(r.Context(), user.ID, chi.URLParam(r, "uuid"))
	if err != nil {
		return err
	}
	return response.WriteSuccess(w, http.StatusOK, detail)
}

// GetSettings godoc
// @Summary Get AI settings
// @Description Get the provider catalog and the caller's AI configuration
// @Tags AIChat
// @Produce json
// @Success 200 {object} ai.SettingsSnapshot
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Router /ai-chat/settings/ [get]
func (h *ChatHandler) GetSettings(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}

	snapshot, err := h.service.GetSettings(r.Context(), user.ID)
	if err != nil {
		return err
	}
	return response.WriteSuccess(w, http.StatusOK, snapshot)
}

// UpdateSettings godoc
// @Summary Update AI settings
// @Description Update the caller's preferred model, API keys, and provider configuration
// @Tags AIChat
// @Accept json
// @Produce json
// @Param request body ai.UpdateSettingsRequest true "Settings update"
// @Success 200 {object} map[string]string
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Router /ai-chat/settings/update/ [post]
func (h *ChatHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}

	var req ai.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return errors.NewValidationError("invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := h.service.UpdateSettings(r.Context(), user.ID, &req); err != nil {
		return err
	}
	return response.WriteSuccess(w, http.StatusOK, map[string]string{
		"message": "Settings updated successfully",
	})
}
