package ai

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/google/uuid"

	"github.com/noteline/noteline/pkg/db"
	"github.com/noteline/noteline/pkg/errors"
)

// GetSettings assembles the caller's settings snapshot: the provider catalog,
// the preferred model, and per-provider configuration with keys reduced to a
// presence flag.
func (s *ChatService) GetSettings(ctx context.Context, userID int64) (*SettingsSnapshot, error) {
	providers, err := s.queries.ListProviders(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to list providers", err, nil)
	}

	snapshot := &SettingsSnapshot{
		Providers:       make([]ProviderInfo, 0, len(providers)),
		ProviderConfigs: make(map[string]ProviderConfigInfo),
	}
	providerNames := make(map[int64]string, len(providers))
	for _, provider := range providers {
		providerNames[provider.ID] = provider.Name

		models, err := s.queries.ListActiveModelsForProvider(ctx, provider.ID)
		if err != nil {
			return nil, errors.NewInternalError("failed to list models", err, nil)
		}
		info := ProviderInfo{
			Name:    provider.Name,
			BaseURL: provider.BaseURL,
			Models:  make([]ProviderModelInfo, 0, len(models)),
		}
		for _, model := range models {
			info.Models = append(info.Models, ProviderModelInfo{
				Name:        model.Name,
				DisplayName: model.DisplayName,
			})
		}
		snapshot.Providers = append(snapshot.Providers, info)
	}

	settings, err := s.queries.GetUserAISettings(ctx, userID)
	if err != nil && !stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewInternalError("failed to load settings", err, nil)
	}
	if settings != nil && settings.PreferredModelID.Valid {
		model, err := s.queries.GetModelByID(ctx, settings.PreferredModelID.Int64)
		if err != nil && !stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewInternalError("failed to load preferred model", err, nil)
		}
		if model != nil {
			snapshot.CurrentModel = model.Name
		}
	}

	configs, err := s.queries.ListUserProviderConfigs(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError("failed to list provider configs", err, nil)
	}
	for _, cfg := range configs {
		name, ok := providerNames[cfg.ProviderID]
		if !ok {
			continue
		}
		enabledModels, err := s.queries.ListEnabledModelNames(ctx, cfg.ID)
		if err != nil {
			return nil, errors.NewInternalError("failed to list enabled models", err, nil)
		}
		snapshot.ProviderConfigs[name] = ProviderConfigInfo{
			IsEnabled:     cfg.IsEnabled,
			HasAPIKey:     cfg.APIKey != "",
			EnabledModels: enabledModels,
		}
	}

	return snapshot, nil
}

// UpdateSettings applies a settings update. Provider and model names that
// match nothing in the catalog are logged and skipped rather than rejected,
// so a stale client never locks itself out of the settings screen.
func (s *ChatService) UpdateSettings(ctx context.Context, userID int64, req *UpdateSettingsRequest) error {
	for providerName, apiKey := range req.APIKeys {
		provider, ok, err := s.lookupProvider(ctx, providerName)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		cfg, err := s.ensureConfig(ctx, userID, provider.ID)
		if err != nil {
			return err
		}
		if err := s.queries.UpdateProviderConfigAPIKey(ctx, &db.UpdateProviderConfigAPIKeyParams{
			ID:     cfg.ID,
			APIKey: apiKey,
		}); err != nil {
			return errors.NewInternalError("failed to update API key", err, nil)
		}
	}

	for providerName, update := range req.ProviderConfigs {
		provider, ok, err := s.lookupProvider(ctx, providerName)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		cfg, err := s.ensureConfig(ctx, userID, provider.ID)
		if err != nil {
			return err
		}
		if err := s.queries.UpdateProviderConfigEnabled(ctx, &db.UpdateProviderConfigEnabledParams{
			ID:        cfg.ID,
			IsEnabled: update.IsEnabled,
		}); err != nil {
			return errors.NewInternalError("failed to update provider config", err, nil)
		}

		modelIDs := make([]int64, 0, len(update.EnabledModels))
		for _, modelName := range update.EnabledModels {
			model, err := s.queries.GetModelByNameForProvider(ctx, &db.GetModelByNameForProviderParams{
				Name:       modelName,
				ProviderID: provider.ID,
			})
			if err != nil {
				if stderrors.Is(err, sql.ErrNoRows) {
					s.logger.Warnf("ignoring unknown model %q for provider %s", modelName, provider.Name)
					continue
				}
				return errors.NewInternalError("failed to look up model", err, nil)
			}
			modelIDs = append(modelIDs, model.ID)
		}
		if err := s.queries.ReplaceEnabledModels(ctx, cfg.ID, modelIDs); err != nil {
			return errors.NewInternalError("failed to update enabled models", err, nil)
		}
	}

	if req.Model != "" {
		if err := s.updatePreferredModel(ctx, userID, req.Provider, req.Model); err != nil {
			return err
		}
	}
	return nil
}

func (s *ChatService) updatePreferredModel(ctx context.Context, userID int64, providerName, modelName string) error {
	var model *db.AIModel
	if providerName != "" {
		provider, ok, err := s.lookupProvider(ctx, providerName)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		model, err = s.queries.GetModelByNameForProvider(ctx, &db.GetModelByNameForProviderParams{
			Name:       modelName,
			ProviderID: provider.ID,
		})
		if err != nil && !stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewInternalError("failed to look up model", err, nil)
		}
	} else {
		var err error
		model, err = s.queries.GetModelByName(ctx, modelName)
		if err != nil && !stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewInternalError("failed to look up model", err, nil)
		}
	}
	if model == nil {
		s.logger.Warnf("ignoring unknown preferred model %q (provider %q)", modelName, providerName)
		return nil
	}

	if _, err := s.queries.UpsertUserAISettings(ctx, &db.UpsertUserAISettingsParams{
		UUID:             uuid.NewString(),
		UserID:           userID,
		PreferredModelID: sql.NullInt64{Int64: model.ID, Valid: true},
	}); err != nil {
		return errors.NewInternalError("failed to update settings", err, nil)
	}
	return nil
}

func (s *ChatService) lookupProvider(ctx context.Context, name string) (*db.AIProvider, bool, error) {
	provider, err := s.queries.GetProviderByName(ctx, name)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			s.logger.Warnf("ignoring unknown provider %q in settings update", name)
			return nil, false, nil
		}
		return nil, false, errors.NewInternalError("failed to look up provider", err, nil)
	}
	return provider, true, nil
}

func (s *ChatService) ensureConfig(ctx context.Context, userID, providerID int64) (*db.UserProviderConfig, error) {
	cfg, err := s.queries.EnsureUserProviderConfig(ctx, &db.EnsureUserProviderConfigParams{
		UUID:       uuid.NewString(),
		UserID:     userID,
		ProviderID: providerID,
	})
	if err != nil {
		return nil, errors.NewInternalError("failed to create provider config", err, nil)
	}
	return cfg, nil
}
