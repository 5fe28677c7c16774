package main

import (
	"fmt"
	"log"

	"github.com/borderdrill/borderdrill/pkg/cache"
	cachepkg "github.com/borderdrill/borderdrill/pkg/cache/sqlite"
	"github.com/borderdrill/borderdrill/pkg/config"
	"github.com/borderdrill/borderdrill/pkg/gateway"
	"github.com/borderdrill/borderdrill/pkg/interview"
	"github.com/borderdrill/borderdrill/pkg/persona"
	"github.com/borderdrill/borderdrill/pkg/tracker"
)

// app holds the process-wide collaborators built from config.
type app struct {
	cfg     *config.Config
	service *interview.Service
	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

func loadRegistry(cfg *config.Config) (*persona.Registry, error) {
	if cfg.PersonasFile == "" {
		return persona.Default(), nil
	}
	return persona.Load(cfg.PersonasFile)
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	a := &app{cfg: cfg}

	registry, err := loadRegistry(cfg)
	if err != nil {
		return nil, fmt.Errorf("load personas: %w", err)
	}

	var store cache.Store
	if cfg.Cache.Enabled {
		switch cfg.Cache.Backend {
		case config.BackendSQLite:
			c, err := cachepkg.New(cfg.DBPath, cfg.Cache.TTL, nil)
			if err != nil {
				return nil, fmt.Errorf("init cache: %w", err)
			}
			a.closers = append(a.closers, c.Close)
			store = c
		default:
			store = cache.NewMemory(cfg.Cache.TTL, nil)
		}
	}

	var tr tracker.Tracker
	if cfg.Usage.Enabled {
		t, err := tracker.New(cfg.DBPath)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init tracker: %w", err)
		}
		a.closers = append(a.closers, t.Close)
		tr = t
	}

	if cfg.Provider.APIKey == "" {
		log.Printf("warning: no provider API key configured, completions will fail")
	}
	gw := gateway.NewOpenAI(cfg.Provider.URL, cfg.Provider.APIKey, cfg.Provider.Model, cfg.Provider.Timeout)

	a.service = interview.New(registry, gw, store, tr, persona.DefaultSource, interview.Options{
		ReplyTemperature: cfg.Provider.ReplyTemperature,
		ScoreTemperature: cfg.Provider.ScoreTemperature,
	})
	return a, nil
}
