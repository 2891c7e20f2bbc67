package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noteline/noteline/pkg/db"
	"github.com/noteline/noteline/pkg/logger"
)

// fakeService returns a canned reply or error without touching the network.
type fakeService struct {
	reply string
	err   error

	gotHistory []Message
}

func (s *fakeService) SendMessage(ctx context.Context, history []Message) (string, error) {
	s.gotHistory = history
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type fakeFactory struct {
	service   *fakeService
	createErr error

	gotProvider string
	gotAPIKey   string
	gotModel    string
}

func (f *fakeFactory) CreateService(providerName, apiKey, model string) (Service, error) {
	f.gotProvider = providerName
	f.gotAPIKey = apiKey
	f.gotModel = model
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.service, nil
}

func newTestService(t *testing.T) (*ChatService, *db.Queries, *fakeFactory) {
	t.Helper()

	conn, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.RunMigrations(conn))

	queries := db.New(conn)
	require.NoError(t, queries.SeedCatalog(context.Background()))

	factory := &fakeFactory{service: &fakeService{reply: "canned reply"}}
	service := NewChatService(queries, factory, logger.NewDefault())
	return service, queries, factory
}

func seedUser(t *testing.T, queries *db.Queries, email string) *db.User {
	t.Helper()
	user, err := queries.CreateUser(context.Background(), &db.CreateUserParams{Email: email})
	require.NoError(t, err)
	return user
}

// configureKey stores an API key for the user through the settings path, the
// same way a client would.
func configureKey(t *testing.T, service *ChatService, userID int64, provider, key string) {
	t.Helper()
	err := service.UpdateSettings(context.Background(), userID, &UpdateSettingsRequest{
		APIKeys: map[string]string{provider: key},
	})
	require.NoError(t, err)
}
