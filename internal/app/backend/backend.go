// Package backend builds the external data service selected by
// configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/consultdesk/internal/app/services"
	"github.com/yigit/consultdesk/internal/config"
	"github.com/yigit/consultdesk/internal/pkg/helpers"
	"github.com/yigit/consultdesk/internal/pkg/supabase"
)

var (
	_ services.Backend = (*Supabase)(nil)
	_ services.Backend = (*Postgres)(nil)
	_ services.Backend = (*Memory)(nil)
)

// New returns the backend named by cfg.Backend.Driver
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (services.Backend, error) {
	switch cfg.Backend.Driver {
	case config.DriverSupabase:
		client, err := supabase.New(supabase.Config{
			URL:        cfg.Supabase.URL,
			AnonKey:    cfg.Supabase.AnonKey,
			ServiceKey: cfg.Supabase.ServiceKey,
			JWTSecret:  cfg.Supabase.JWTSecret,
			Timeout:    helpers.ParseDuration(cfg.Supabase.Timeout, supabase.DefaultTimeout),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create supabase client: %w", err)
		}
		if !client.HasServiceKey() {
			logger.Warn().Msg("Supabase service role key not set; failed signups cannot roll back their identity")
		}
		return NewSupabase(client, logger), nil
	case config.DriverPostgres:
		pg, err := OpenPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case config.DriverMemory:
		logger.Warn().Msg("Using the in-memory backend; data is lost on restart")
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown backend driver %q", cfg.Backend.Driver)
	}
}
