package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noteline/noteline/pkg/ai"
	"github.com/noteline/noteline/pkg/auth"
	"github.com/noteline/noteline/pkg/db"
	"github.com/noteline/noteline/pkg/logger"
)

type fakeService struct {
	reply string
	err   error
}

func (s *fakeService) SendMessage(ctx context.Context, history []ai.Message) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type fakeFactory struct {
	service *fakeService
}

func (f *fakeFactory) CreateService(providerName, apiKey, model string) (ai.Service, error) {
	return f.service, nil
}

type fixture struct {
	router  chi.Router
	queries *db.Queries
	service *ai.ChatService
	factory *fakeFactory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.RunMigrations(conn))

	queries := db.New(conn)
	require.NoError(t, queries.SeedCatalog(context.Background()))

	log := logger.NewDefault()
	factory := &fakeFactory{service: &fakeService{reply: "canned reply"}}
	service := ai.NewChatService(queries, factory, log)
	handler := NewChatHandler(service, log)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(queries, log))
		handler.RegisterRoutes(r)
	})

	return &fixture{router: router, queries: queries, service: service, factory: factory}
}

func (f *fixture) newUser(t *testing.T, email string) (*db.User, string) {
	t.Helper()
	user, err := f.queries.CreateUser(context.Background(), &db.CreateUserParams{Email: email})
	require.NoError(t, err)

	token := auth.GenerateToken()
	_, err = f.queries.CreateUserToken(context.Background(), &db.CreateUserTokenParams{
		Key:    token,
		UserID: user.ID,
	})
	require.NoError(t, err)
	return user, token
}

func (f *fixture) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	ErrorType string          `json:"error_type"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestAuthenticationRequired(t *testing.T) {
	f := newFixture(t)

	endpoints := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodPost, "/api/ai-chat/send/", map[string]string{"message": "hi", "model": "gpt-4"}},
		{http.MethodGet, "/api/ai-chat/sessions/", nil},
		{http.MethodGet, "/api/ai-chat/sessions/" + uuid.NewString() + "/", nil},
		{http.MethodGet, "/api/ai-chat/settings/", nil},
		{http.MethodPost, "/api/ai-chat/settings/update/", map[string]string{"provider": "test"}},
	}
	for _, ep := range endpoints {
		rec := f.request(t, ep.method, ep.path, "", ep.body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, ep.path)
		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
	}
}

func TestInvalidToken(t *testing.T) {
	f := newFixture(t)
	rec := f.request(t, http.MethodGet, "/api/ai-chat/sessions/", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSendMessageEndpoint(t *testing.T) {
	f := newFixture(t)
	user, token := f.newUser(t, "alice@example.com")
	require.NoError(t, f.service.UpdateSettings(context.Background(), user.ID, &ai.UpdateSettingsRequest{
		APIKeys: map[string]string{"OpenAI": "sk-test"},
	}))

	rec := f.request(t, http.MethodPost, "/api/ai-chat/send/", token, map[string]interface{}{
		"message": "Hello",
		"model":   "gpt-4",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)

	var result ai.SendResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "canned reply", result.Response)
	assert.NotEmpty(t, result.SessionID)
}

func TestSendMessageEmptyMessage(t *testing.T) {
	f := newFixture(t)
	_, token := f.newUser(t, "alice@example.com")

	rec := f.request(t, http.MethodPost, "/api/ai-chat/send/", token, map[string]interface{}{
		"message": "   ",
		"model":   "gpt-4",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "Message cannot be empty")
}

func TestSendMessageNoAPIKey(t *testing.T) {
	f := newFixture(t)
	_, token := f.newUser(t, "alice@example.com")

	rec := f.request(t, http.MethodPost, "/api/ai-chat/send/", token, map[string]interface{}{
		"message": "Hello",
		"model":   "gpt-4",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "No API key configured for OpenAI")
	assert.Equal(t, "configuration_error", env.ErrorType)
}

func TestSessionIsolation(t *testing.T) {
	f := newFixture(t)
	alice, aliceToken := f.newUser(t, "alice@example.com")
	bob, bobToken := f.newUser(t, "bob@example.com")
	for _, u := range []*db.User{alice, bob} {
		require.NoError(t, f.service.UpdateSettings(context.Background(), u.ID, &ai.UpdateSettingsRequest{
			APIKeys: map[string]string{"OpenAI": "sk-test"},
		}))
	}

	rec := f.request(t, http.MethodPost, "/api/ai-chat/send/", bobToken, map[string]interface{}{
		"message": "bob's secret",
		"model":   "gpt-4",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var bobResult ai.SendResult
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &bobResult))

	// Alice sees an empty list.
	rec = f.request(t, http.MethodGet, "/api/ai-chat/sessions/", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sessions []ai.SessionSummary
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &sessions))
	assert.Empty(t, sessions)

	// Bob's session detail 404s for Alice.
	rec = f.request(t, http.MethodGet, "/api/ai-chat/sessions/"+bobResult.SessionID+"/", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "Chat session not found")
}

func TestSessionDetailNotFound(t *testing.T) {
	f := newFixture(t)
	_, token := f.newUser(t, "alice@example.com")

	rec := f.request(t, http.MethodGet, "/api/ai-chat/sessions/"+uuid.NewString()+"/", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Error, "Chat session not found")
}

func TestSettingsEndpoints(t *testing.T) {
	f := newFixture(t)
	_, token := f.newUser(t, "alice@example.com")

	rec := f.request(t, http.MethodGet, "/api/ai-chat/settings/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var snapshot ai.SettingsSnapshot
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &snapshot))
	assert.Len(t, snapshot.Providers, 2)
	assert.Equal(t, "", snapshot.CurrentModel)

	rec = f.request(t, http.MethodPost, "/api/ai-chat/settings/update/", token, map[string]interface{}{
		"provider": "Anthropic",
		"model":    "claude-3-5-sonnet-20241022",
		"api_keys": map[string]string{"Anthropic": "sk-ant"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeEnvelope(t, rec).Success)

	rec = f.request(t, http.MethodGet, "/api/ai-chat/settings/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &snapshot))
	assert.Equal(t, "claude-3-5-sonnet-20241022", snapshot.CurrentModel)
	assert.True(t, snapshot.ProviderConfigs["Anthropic"].HasAPIKey)
}

func TestSettingsUpdateUnknownProviderSucceeds(t *testing.T) {
	f := newFixture(t)
	_, token := f.newUser(t, "alice@example.com")

	rec := f.request(t, http.MethodPost, "/api/ai-chat/settings/update/", token, map[string]interface{}{
		"provider": "NonExistentProvider",
		"model":    "some-model",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeEnvelope(t, rec).Success)
}

func TestBearerSchemeAccepted(t *testing.T) {
	f := newFixture(t)
	_, token := f.newUser(t, "alice@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/ai-chat/sessions/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
