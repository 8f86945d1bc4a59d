package main

import (
	"fmt"
	"os"

	"github.com/devfolio/devfolio/internal/portfolio/app"
	"github.com/devfolio/devfolio/internal/portfolio/store/drivers/sqlite"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "devfolio",
		Short:   "DevFolio portfolio API server",
		Version: app.Version,
	}

	root.AddCommand(serveCmd(), migrateCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(app.LoadConfig())
			if err != nil {
				return err
			}
			return a.Run()
		},
	}
}

func migrateCmd() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}

	migrate.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(func(st *sqlite.Store) error {
					return st.ApplyMigrations()
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert all migrations (destructive)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(func(st *sqlite.Store) error {
					return st.RollbackMigrations()
				})
			},
		},
	)
	return migrate
}

func withStore(fn func(*sqlite.Store) error) error {
	cfg := app.LoadConfig()

	st, err := sqlite.NewStore("file:" + cfg.DatabaseFile)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	return fn(st)
}
