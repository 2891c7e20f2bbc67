package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSettingsDefaults(t *testing.T) {
	service, queries, _ := newTestService(t)
	user := seedUser(t, queries, "alice@example.com")

	snapshot, err := service.GetSettings(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, "", snapshot.CurrentModel)
	assert.Empty(t, snapshot.ProviderConfigs)

	names := make([]string, 0, len(snapshot.Providers))
	for _, p := range snapshot.Providers {
		names = append(names, p.Name)
		assert.NotEmpty(t, p.Models)
	}
	assert.ElementsMatch(t, []string{"OpenAI", "Anthropic"}, names)
}

func TestUpdateSettingsFullCycle(t *testing.T) {
	service, queries, _ := newTestService(t)
	user := seedUser(t, queries, "alice@example.com")

	err := service.UpdateSettings(context.Background(), user.ID, &UpdateSettingsRequest{
		Provider: "Anthropic",
		Model:    "claude-3-5-sonnet-20241022",
		APIKeys:  map[string]string{"Anthropic": "new-anthropic-key"},
		ProviderConfigs: map[string]ProviderConfigUpdate{
			"Anthropic": {
				IsEnabled:     true,
				EnabledModels: []string{"claude-3-5-sonnet-20241022", "claude-3-5-haiku-20241022"},
			},
		},
	})
	require.NoError(t, err)

	snapshot, err := service.GetSettings(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-sonnet-20241022", snapshot.CurrentModel)

	cfg, ok := snapshot.ProviderConfigs["Anthropic"]
	require.True(t, ok)
	assert.True(t, cfg.IsEnabled)
	assert.True(t, cfg.HasAPIKey)
	assert.ElementsMatch(t, []string{
		"claude-3-5-sonnet-20241022",
		"claude-3-5-haiku-20241022",
	}, cfg.EnabledModels)
}

func TestUpdateSettingsUnknownProviderTolerated(t *testing.T) {
	service, queries, _ := newTestService(t)
	user := seedUser(t, queries, "alice@example.com")

	err := service.UpdateSettings(context.Background(), user.ID, &UpdateSettingsRequest{
		Provider: "NonExistentProvider",
		Model:    "some-model",
	})
	require.NoError(t, err)

	snapshot, err := service.GetSettings(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "", snapshot.CurrentModel)
}

func TestUpdateSettingsUnknownModelSkipped(t *testing.T) {
	service, queries, _ := newTestService(t)
	user := seedUser(t, queries, "alice@example.com")

	err := service.UpdateSettings(context.Background(), user.ID, &UpdateSettingsRequest{
		ProviderConfigs: map[string]ProviderConfigUpdate{
			"OpenAI": {
				IsEnabled:     true,
				EnabledModels: []string{"gpt-4", "made-up-model"},
			},
		},
	})
	require.NoError(t, err)

	snapshot, err := service.GetSettings(context.Background(), user.ID)
	require.NoError(t, err)
	cfg := snapshot.ProviderConfigs["OpenAI"]
	assert.Equal(t, []string{"gpt-4"}, cfg.EnabledModels)
}

func TestUpdateSettingsReplacesEnabledModels(t *testing.T) {
	service, queries, _ := newTestService(t)
	user := seedUser(t, queries, "alice@example.com")

	for _, models := range [][]string{
		{"gpt-4", "gpt-4o"},
		{"gpt-4o-mini"},
	} {
		err := service.UpdateSettings(context.Background(), user.ID, &UpdateSettingsRequest{
			ProviderConfigs: map[string]ProviderConfigUpdate{
				"OpenAI": {IsEnabled: true, EnabledModels: models},
			},
		})
		require.NoError(t, err)
	}

	snapshot, err := service.GetSettings(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-4o-mini"}, snapshot.ProviderConfigs["OpenAI"].EnabledModels)
}

func TestUpdateSettingsPreferredModelWithoutProvider(t *testing.T) {
	service, queries, _ := newTestService(t)
	user := seedUser(t, queries, "alice@example.com")

	err := service.UpdateSettings(context.Background(), user.ID, &UpdateSettingsRequest{
		Model: "gpt-4o",
	})
	require.NoError(t, err)

	snapshot, err := service.GetSettings(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", snapshot.CurrentModel)
}
