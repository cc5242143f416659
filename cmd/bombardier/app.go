package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"bombardier/internal/analysis"
	"bombardier/internal/cache"
	"bombardier/internal/config"
	"bombardier/internal/logging"
	"bombardier/internal/metrics"
	"bombardier/internal/store/sqlite"
	"bombardier/internal/xclient"
)

// app holds what most commands share. Close releases the cache and store.
type app struct {
	cfg     config.Config
	svc     *analysis.Service
	db      *sqlite.DB
	closers []io.Closer
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", cfgPath, err)
	}
	logging.Init(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}

// newApp loads config and builds the analysis service. withStore also opens
// the SQLite database.
func newApp(ctx context.Context, withStore bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	metrics.StartServer(cfg.Metrics.Addr)

	a := &app{cfg: cfg}
	backend, err := cache.New(ctx, cfg.Cache)
	if err != nil {
		logging.Warn("cache_unavailable", logging.Fields{"backend": cfg.Cache.Backend, "error": err.Error()})
		backend = cache.Nop{}
	}
	if c, ok := backend.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}
	a.svc = analysis.New(analysis.Options{
		Cache:           backend,
		CacheTTL:        cfg.Cache.TTL,
		TargetInterests: cfg.Campaign.TargetInterests,
		Workers:         cfg.Analysis.Workers,
	})

	if withStore {
		db, err := openStore(cfg)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.db = db
		a.closers = append(a.closers, db)
	}
	return a, nil
}

func openStore(cfg config.Config) (*sqlite.DB, error) {
	db, err := sqlite.Open(cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", cfg.Storage.DBPath, err)
	}
	return db, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
}

// snapshotFrom reads a snapshot from a JSON file or fetches it from X.
func (a *app) snapshotFrom(ctx context.Context, file, xUser string, limit int) (analysis.ProfileRequest, error) {
	var req analysis.ProfileRequest
	switch {
	case file != "" && xUser != "":
		return req, fmt.Errorf("use either --file or --x, not both")
	case file != "":
		return req, readJSON(file, &req)
	case xUser != "":
		if a.cfg.Credentials.BearerToken == "" {
			logging.Warn("missing_bearer_token", logging.Fields{"hint": "set X_BEARER_TOKEN"})
		}
		client := xclient.NewHTTPClient(a.cfg.Credentials.BearerToken)
		snap, err := xclient.FetchSnapshot(ctx, client, strings.TrimPrefix(xUser, "@"), limit)
		req.ProfileSnapshot = snap
		return req, err
	default:
		return req, fmt.Errorf("one of --file or --x is required")
	}
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
