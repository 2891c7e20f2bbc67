package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueries(t *testing.T) *Queries {
	t.Helper()
	conn, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, RunMigrations(conn))
	return New(conn)
}

func TestMigrationsAndSeed(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()

	require.NoError(t, q.SeedCatalog(ctx))
	providers, err := q.ListProviders(ctx)
	require.NoError(t, err)
	assert.Len(t, providers, 2)

	// Seeding twice leaves the catalog unchanged.
	require.NoError(t, q.SeedCatalog(ctx))
	providers, err = q.ListProviders(ctx)
	require.NoError(t, err)
	assert.Len(t, providers, 2)
}

func TestProviderLookupCaseInsensitive(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()
	require.NoError(t, q.SeedCatalog(ctx))

	provider, err := q.GetProviderByName(ctx, "openai")
	require.NoError(t, err)
	assert.Equal(t, "OpenAI", provider.Name)
}

func TestSessionMessageCascade(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()

	user, err := q.CreateUser(ctx, &CreateUserParams{Email: "a@example.com"})
	require.NoError(t, err)
	session, err := q.CreateChatSession(ctx, &CreateChatSessionParams{
		UUID:   uuid.NewString(),
		UserID: user.ID,
	})
	require.NoError(t, err)
	_, err = q.InsertChatMessage(ctx, &InsertChatMessageParams{
		UUID:      uuid.NewString(),
		SessionID: session.ID,
		Role:      "user",
		Content:   "hello",
	})
	require.NoError(t, err)

	// Roles outside user/assistant are rejected by the schema.
	_, err = q.InsertChatMessage(ctx, &InsertChatMessageParams{
		UUID:      uuid.NewString(),
		SessionID: session.ID,
		Role:      "system",
		Content:   "nope",
	})
	assert.Error(t, err)

	count, err := q.CountMessagesForSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUpsertUserAISettings(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()
	require.NoError(t, q.SeedCatalog(ctx))

	user, err := q.CreateUser(ctx, &CreateUserParams{Email: "a@example.com"})
	require.NoError(t, err)
	model, err := q.GetModelByName(ctx, "gpt-4")
	require.NoError(t, err)
	other, err := q.GetModelByName(ctx, "gpt-4o")
	require.NoError(t, err)

	first, err := q.UpsertUserAISettings(ctx, &UpsertUserAISettingsParams{
		UUID:             uuid.NewString(),
		UserID:           user.ID,
		PreferredModelID: sql.NullInt64{Int64: model.ID, Valid: true},
	})
	require.NoError(t, err)

	second, err := q.UpsertUserAISettings(ctx, &UpsertUserAISettingsParams{
		UUID:             uuid.NewString(),
		UserID:           user.ID,
		PreferredModelID: sql.NullInt64{Int64: other.ID, Valid: true},
	})
	require.NoError(t, err)

	// One row per user, updated in place.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, other.ID, second.PreferredModelID.Int64)
}

func TestReplaceEnabledModelsAtomic(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()
	require.NoError(t, q.SeedCatalog(ctx))

	user, err := q.CreateUser(ctx, &CreateUserParams{Email: "a@example.com"})
	require.NoError(t, err)
	provider, err := q.GetProviderByName(ctx, "OpenAI")
	require.NoError(t, err)
	cfg, err := q.EnsureUserProviderConfig(ctx, &EnsureUserProviderConfigParams{
		UUID:       uuid.NewString(),
		UserID:     user.ID,
		ProviderID: provider.ID,
	})
	require.NoError(t, err)

	gpt4, err := q.GetModelByName(ctx, "gpt-4")
	require.NoError(t, err)
	gpt4o, err := q.GetModelByName(ctx, "gpt-4o")
	require.NoError(t, err)
	require.NoError(t, q.ReplaceEnabledModels(ctx, cfg.ID, []int64{gpt4.ID}))

	// A nonexistent model id trips the foreign key, and the whole replacement
	// rolls back instead of leaving the set half swapped.
	err = q.ReplaceEnabledModels(ctx, cfg.ID, []int64{gpt4o.ID, 99999})
	require.Error(t, err)

	names, err := q.ListEnabledModelNames(ctx, cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-4"}, names)
}

func TestTokenLookup(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()

	user, err := q.CreateUser(ctx, &CreateUserParams{Email: "a@example.com", IsStaff: true})
	require.NoError(t, err)
	_, err = q.CreateUserToken(ctx, &CreateUserTokenParams{Key: "tok-123", UserID: user.ID})
	require.NoError(t, err)

	got, err := q.GetUserByToken(ctx, "tok-123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.True(t, got.IsStaff)

	_, err = q.GetUserByToken(ctx, "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
