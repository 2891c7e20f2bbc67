package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/noteline/noteline/pkg/auth"
	"github.com/noteline/noteline/pkg/config"
	"github.com/noteline/noteline/pkg/db"
	"github.com/noteline/noteline/pkg/logger"
	"github.com/noteline/noteline/pkg/server"
)

func serveCmd() *cobra.Command {
	var configPath string
	var bootstrapEmail string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			log := logger.New(cfg.LogLevel)
			defer log.Sync()

			database, err := db.Open(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer database.Close()
			if err := db.RunMigrations(database); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			queries := db.New(database)
			ctx := cmd.Context()
			if err := queries.SeedCatalog(ctx); err != nil {
				return fmt.Errorf("failed to seed provider catalog: %w", err)
			}

			if bootstrapEmail != "" {
				if err := bootstrapUser(ctx, queries, bootstrapEmail); err != nil {
					return err
				}
			}

			srv := server.New(cfg, queries, log)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-stop:
				log.Infof("received %s, shutting down", sig)
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&bootstrapEmail, "bootstrap-staff", "", "create a staff user with this email and print an API token")
	return cmd
}

// bootstrapUser creates a staff account and prints its token once. Used to
// get a fresh install to a usable state without touching the database by
// hand.
func bootstrapUser(ctx context.Context, queries *db.Queries, email string) error {
	user, err := queries.CreateUser(ctx, &db.CreateUserParams{
		Email:   email,
		IsStaff: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create staff user: %w", err)
	}

	token := auth.GenerateToken()
	if _, err := queries.CreateUserToken(ctx, &db.CreateUserTokenParams{
		Key:    token,
		UserID: user.ID,
	}); err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	fmt.Printf("created staff user %s\nAPI token: %s\n", email, token)
	return nil
}
