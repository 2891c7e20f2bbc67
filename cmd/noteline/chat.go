package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noteline/noteline/cmd/common"
	"github.com/noteline/noteline/pkg/ai"
)

func chatCmd() *cobra.Command {
	var apiURL string
	var token string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to a running noteline server",
	}
	cmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8180", "base URL of the noteline API")
	cmd.PersistentFlags().StringVar(&token, "token", os.Getenv("NOTELINE_TOKEN"), "API token (defaults to NOTELINE_TOKEN)")

	client := func() *common.Client {
		return common.NewClient(apiURL, token)
	}

	cmd.AddCommand(chatSendCmd(client))
	cmd.AddCommand(chatSessionsCmd(client))
	cmd.AddCommand(chatSettingsCmd(client))
	return cmd
}

func chatSendCmd(client func() *common.Client) *cobra.Command {
	var model string
	var sessionID string

	cmd := &cobra.Command{
		Use:   "send [message]",
		Short: "Send a chat message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client().SendChatMessage(&ai.SendRequest{
				Message:   args[0],
				Model:     model,
				SessionID: sessionID,
			})
			if err != nil {
				return err
			}
			fmt.Printf("session: %s\n\n%s\n", result.SessionID, result.Response)
			return nil
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "gpt-4o", "model to use")
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "continue an existing session")
	return cmd
}

func chatSessionsCmd(client func() *common.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions [uuid]",
		Short: "List sessions, or show one with its messages",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				detail, err := client().GetChatSession(args[0])
				if err != nil {
					return err
				}
				fmt.Printf("%s (%s)\n", detail.Title, detail.UUID)
				for _, msg := range detail.Messages {
					fmt.Printf("\n[%s] %s\n%s\n", msg.CreatedAt, msg.Role, msg.Content)
				}
				return nil
			}

			sessions, err := client().ListChatSessions()
			if err != nil {
				return err
			}
			for _, s := range sessions {
				fmt.Printf("%s  %-30s  %3d messages  %s\n", s.UUID, s.Title, s.MessageCount, s.ModifiedAt)
			}
			return nil
		},
	}
	return cmd
}

func chatSettingsCmd(client func() *common.Client) *cobra.Command {
	var model string
	var provider string
	var apiKeyProvider string
	var apiKey string

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or update AI settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if model != "" || apiKey != "" {
				req := &ai.UpdateSettingsRequest{Provider: provider, Model: model}
				if apiKey != "" {
					if apiKeyProvider == "" {
						return fmt.Errorf("--api-key requires --api-key-provider")
					}
					req.APIKeys = map[string]string{apiKeyProvider: apiKey}
				}
				if err := client().UpdateAISettings(req); err != nil {
					return err
				}
				fmt.Println("settings updated")
				return nil
			}

			snapshot, err := client().GetAISettings()
			if err != nil {
				return err
			}
			fmt.Printf("current model: %s\n", snapshot.CurrentModel)
			for _, p := range snapshot.Providers {
				cfg := snapshot.ProviderConfigs[p.Name]
				fmt.Printf("\n%s (enabled: %t, key set: %t)\n", p.Name, cfg.IsEnabled, cfg.HasAPIKey)
				for _, m := range p.Models {
					fmt.Printf("  %s (%s)\n", m.Name, m.DisplayName)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&model, "set-model", "", "set the preferred model")
	cmd.Flags().StringVar(&provider, "provider", "", "provider of the preferred model")
	cmd.Flags().StringVar(&apiKeyProvider, "api-key-provider", "", "provider the API key belongs to")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "set an API key")
	return cmd
}
