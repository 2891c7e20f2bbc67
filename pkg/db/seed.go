package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

type seedModel struct {
	Name        string
	DisplayName string
}

var catalogSeed = map[string][]seedModel{
	"OpenAI": {
		{Name: "gpt-4", DisplayName: "GPT-4"},
		{Name: "gpt-4o", DisplayName: "GPT-4o"},
		{Name: "gpt-4o-mini", DisplayName: "GPT-4o mini"},
	},
	"Anthropic": {
		{Name: "claude-3-5-sonnet-20241022", DisplayName: "Claude 3.5 Sonnet"},
		{Name: "claude-3-5-haiku-20241022", DisplayName: "Claude 3.5 Haiku"},
	},
}

// SeedCatalog makes sure the default providers and models exist. Rows that
// are already present are left untouched, so operator edits survive restarts.
func (q *Queries) SeedCatalog(ctx context.Context) error {
	for providerName, models := range catalogSeed {
		provider, err := q.GetProviderByName(ctx, providerName)
		if errors.Is(err, sql.ErrNoRows) {
			provider, err = q.CreateProvider(ctx, &CreateProviderParams{
				UUID: uuid.NewString(),
				Name: providerName,
			})
		}
		if err != nil {
			return err
		}

		for _, m := range models {
			_, err := q.GetModelByNameForProvider(ctx, &GetModelByNameForProviderParams{
				Name:       m.Name,
				ProviderID: provider.ID,
			})
			if err == nil {
				continue
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return err
			}
			if _, err := q.CreateModel(ctx, &CreateModelParams{
				UUID:        uuid.NewString(),
				Name:        m.Name,
				ProviderID:  provider.ID,
				DisplayName: m.DisplayName,
				IsActive:    true,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}
