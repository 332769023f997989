package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/profile-cli/internal/resolve"
	"github.com/sells-group/profile-cli/internal/store"
)

// openProfiles opens the append-only profile store, preferring an
// explicit --store flag over the configured path.
func openProfiles(flagPath string) (*store.ProfileStore, error) {
	path := flagPath
	if path == "" {
		path = cfg.Store.Path
	}
	return store.Open(path)
}

// openLedger opens the configured run ledger backend and applies
// migrations.
func openLedger(ctx context.Context) (store.Ledger, error) {
	var (
		ledger store.Ledger
		err    error
	)
	switch cfg.Ledger.Driver {
	case "postgres":
		ledger, err = store.NewPostgres(ctx, cfg.Ledger.DatabaseURL)
	case "sqlite", "":
		ledger, err = store.NewSQLite(cfg.Ledger.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown ledger driver: %s", cfg.Ledger.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := ledger.Migrate(ctx); err != nil {
		ledger.Close() //nolint:errcheck
		return nil, err
	}
	return ledger, nil
}

// loadPatterns returns the text-pattern set, overlaying the configured
// YAML file when present.
func loadPatterns() (*resolve.Patterns, error) {
	if cfg.Export.Patterns == "" {
		return resolve.DefaultPatterns(), nil
	}
	return resolve.LoadPatterns(cfg.Export.Patterns)
}
