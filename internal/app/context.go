package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"gabinete/internal/ai"
	"gabinete/internal/config"
	"gabinete/internal/db"
	"gabinete/internal/engine"
	"gabinete/internal/migrate"
	"gabinete/internal/remote"
	"gabinete/internal/roster"
)

// App bundles the opened workbench: database, config and the wired engine.
// Remote and AI are nil when the config does not enable them.
type App struct {
	DB     *sql.DB
	Config *config.Config
	Engine engine.Engine
	Remote *remote.Client
	AI     *ai.Client
}

// Open prepares the workspace, runs migrations, loads the optional config
// and wires the remote and AI clients it enables. The duty roster is seeded
// into master_promotores so cargo records can reference prosecutors before
// any remote snapshot lands.
func Open(ctx context.Context, workspace string) (*App, error) {
	if _, err := db.EnsureWorkspace(workspace); err != nil {
		return nil, err
	}
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return nil, err
	}
	if err := migrate.Migrate(conn); err != nil {
		conn.Close()
		return nil, err
	}
	cfg, err := config.LoadOptional(workspace)
	if err != nil {
		conn.Close()
		return nil, err
	}

	var rc *remote.Client
	if cfg != nil && (cfg.Remote.URL != "" || cfg.Remote.Session != "") {
		rc, err = remote.New(remote.Options{
			BaseURL:    cfg.Remote.URL,
			AnonKey:    cfg.Remote.AnonKey,
			ServiceKey: cfg.Remote.ServiceKey,
			Session:    cfg.Remote.Session,
			Timeout:    time.Duration(cfg.Remote.TimeoutSec) * time.Second,
		})
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("remote setup: %w", err)
		}
	}

	var client *ai.Client
	apiKey := os.Getenv("GEMINI_API_KEY")
	if cfg != nil && cfg.Gemini.APIKey != "" {
		apiKey = cfg.Gemini.APIKey
	}
	if apiKey != "" {
		opts := ai.Options{APIKey: apiKey}
		if cfg != nil {
			opts.Model = cfg.Gemini.Model
			opts.ProModel = cfg.Gemini.ProModel
			opts.MaxRetries = cfg.Gemini.MaxRetries
			opts.Operator = cfg.Operator.Name
		}
		client, err = ai.New(ctx, opts)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("gemini setup: %w", err)
		}
	}

	e := engine.New(conn, cfg, rc)
	if err := seedPromotores(ctx, e); err != nil {
		conn.Close()
		return nil, err
	}
	return &App{DB: conn, Config: cfg, Engine: e, Remote: rc, AI: client}, nil
}

func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// seedPromotores inserts every distinct roster name missing from
// master_promotores. EnsurePromotor is idempotent, so reopening the
// workspace is cheap.
func seedPromotores(ctx context.Context, e engine.Engine) error {
	seen := map[string]bool{}
	for _, label := range roster.Labels() {
		p, _ := roster.Find(label)
		for _, entry := range p.Schedule {
			if seen[entry.Name] {
				continue
			}
			seen[entry.Name] = true
			if _, err := e.EnsurePromotor(ctx, entry.Name); err != nil {
				return fmt.Errorf("seed promotor %s: %w", entry.Name, err)
			}
		}
	}
	return nil
}
