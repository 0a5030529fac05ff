package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yigit/consultdesk/internal/app/migrations"
	"github.com/yigit/consultdesk/internal/bootstrap"
	"github.com/yigit/consultdesk/internal/config"
	"github.com/yigit/consultdesk/internal/db"
	"github.com/yigit/consultdesk/internal/pkg/logger"
	"github.com/yigit/consultdesk/internal/seed"
	"github.com/yigit/consultdesk/internal/server"
)

// @title ConsultDesk API
// @version 1.0
// @description Student consultation booking portal
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	app := &cli.App{
		Name:  "consultdesk",
		Usage: "student consultation booking API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "configs/config.yaml",
				Usage:   "path to the YAML config file",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server",
				Action: serve,
			},
			{
				Name:   "seed",
				Usage:  "create a demo student with upcoming consultations",
				Action: seedAction,
			},
			{
				Name:  "migrate",
				Usage: "manage the self-hosted database schema",
				Subcommands: []*cli.Command{
					{Name: "up", Usage: "apply all pending migrations", Action: migrateAction(func(ctx context.Context, m *migrations.Migrator) error { return m.Up(ctx) })},
					{Name: "down", Usage: "roll back the latest migration", Action: migrateAction(func(ctx context.Context, m *migrations.Migrator) error { return m.Down(ctx) })},
					{Name: "status", Usage: "print migration status", Action: migrateAction(func(ctx context.Context, m *migrations.Migrator) error { return m.Status(ctx) })},
					{Name: "version", Usage: "print the current schema version", Action: migrateAction(func(ctx context.Context, m *migrations.Migrator) error {
						v, err := m.Version(ctx)
						if err != nil {
							return err
						}
						fmt.Println(v)
						return nil
					})},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func serve(c *cli.Context) error {
	srv, err := server.NewServer(c.Context, c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	if err := srv.Run(); err != nil {
		return err
	}

	logger.Info().Msg("Application finished gracefully.")
	return nil
}

func seedAction(c *cli.Context) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(c.String("config"))
	if err != nil {
		return err
	}
	if cfg.Backend.Driver == config.DriverMemory {
		return fmt.Errorf("the %q backend does not outlive the seed command", config.DriverMemory)
	}

	b, err := bootstrap.SetupBackend(c.Context, cfg, lgr)
	if err != nil {
		return err
	}
	defer b.Close()

	return seed.CreateDemoData(c.Context, b, time.Now(), lgr)
}

func migrateAction(run func(context.Context, *migrations.Migrator) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(c.String("config"))
		if err != nil {
			return err
		}
		if cfg.Backend.Driver != config.DriverPostgres {
			return fmt.Errorf("migrations apply to the %q backend only, configured driver is %q", config.DriverPostgres, cfg.Backend.Driver)
		}

		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		m, err := migrations.NewMigrator(database.Pool, lgr)
		if err != nil {
			return err
		}
		defer m.Close()

		return run(c.Context, m)
	}
}
