package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/wordiz/internal/config"
	"github.com/abhisek/wordiz/internal/logger"
	"github.com/abhisek/wordiz/internal/mastery"
	"github.com/abhisek/wordiz/internal/sampler"
	"github.com/abhisek/wordiz/internal/store"
	"github.com/abhisek/wordiz/internal/tasks"
)

// app bundles the dependencies shared by the commands.
type app struct {
	cfg       config.Config
	log       *logger.Logger
	backend   store.Backend
	mastery   *mastery.Store
	builder   *tasks.Builder
	rng       *rand.Rand
	sessionID string
}

// openApp loads configuration, opens the backend and builds the mastery
// store and task builder on top of it.
func openApp(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	backend, err := openBackend(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	policy, err := mastery.LoadPolicy(ctx, backend.Settings())
	if err != nil {
		log.Warn("using default mastery policy", "error", err)
	}

	sessionID := uuid.NewString()
	log = log.With("session", sessionID)
	rng := sampler.New(cfg.Seed)

	ms := mastery.NewStore(backend.Collection(), mastery.Options{
		Policy:    policy,
		Events:    backend.Events(),
		SessionID: sessionID,
		Logger:    log,
	})
	builder := tasks.NewBuilder(tasks.Options{
		Rand:     rng,
		Policy:   policy,
		Counters: ms,
		Logger:   log,
	})

	return &app{
		cfg:       cfg,
		log:       log,
		backend:   backend,
		mastery:   ms,
		builder:   builder,
		rng:       rng,
		sessionID: sessionID,
	}, nil
}

func openBackend(ctx context.Context, cfg config.Config, log *logger.Logger) (store.Backend, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		return store.OpenRedis(ctx, cfg.RedisURL, cfg.Profile)
	default:
		s, err := store.Open(store.DSN(cfg.DBPath))
		if err != nil {
			return nil, err
		}
		s.SetLogger(log.With("store", "sqlite"))
		return s, nil
	}
}

func (a *app) Close() {
	if err := a.backend.Close(); err != nil {
		a.log.Warn("close store", "error", err)
	}
	a.log.Sync()
}
