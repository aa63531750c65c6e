package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/forum/internal/auth/app"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the session service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Forum session service",
		Long: `Email and password login for the forum.

Configuration is read from AUTH_CONFIG_FILE (YAML), a .env file and the
environment, in that order. ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET
are required.`,
		SilenceUsage: true,
		RunE:         serve.RunE,
	}

	cmd.AddCommand(serve)

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply user store migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}

			db, err := app.OpenStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", cfg.DatabaseDriver)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "auth version %s\n", app.BuildVersion)
		},
	})

	return cmd
}

func runServe() error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return application.Run()
}
