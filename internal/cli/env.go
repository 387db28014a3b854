package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aheadhealth/onboard/internal/config"
	"github.com/aheadhealth/onboard/internal/cookies"
	"github.com/aheadhealth/onboard/internal/db"
	"github.com/aheadhealth/onboard/internal/events"
	"github.com/aheadhealth/onboard/internal/overlay"
	"github.com/aheadhealth/onboard/internal/sequences"
)

const (
	databaseFile = "onboard.db"
	cookiesDir   = "cookies"
)

// appEnv bundles the stores every command works against.
type appEnv struct {
	cfg       config.Config
	database  *db.DB
	eventRepo *db.EventRepository
	telemetry *events.Log
	jar       *cookies.Jar
	gate      *cookies.Gate
	sequences []*sequences.Sequence
}

func currentConfig() config.Config {
	if cfg := GetConfig(); cfg != nil {
		return *cfg
	}
	return config.DefaultConfig()
}

func openEnv(ctx context.Context) (*appEnv, error) {
	cfg := currentConfig()

	seqs, err := loadSequences(cfg)
	if err != nil {
		return nil, err
	}

	database, err := openDatabaseAt(ctx, cfg)
	if err != nil {
		return nil, err
	}
	repo := db.NewEventRepository(database)

	jar := cookies.NewJar(filepath.Join(cfg.Global.DataDir, cookiesDir),
		cookies.WithDisabled(cfg.Features.DisableCookies))

	return &appEnv{
		cfg:       cfg,
		database:  database,
		eventRepo: repo,
		telemetry: events.NewLog(events.WithRepository(repo)),
		jar:       jar,
		gate:      cookies.NewGate(jar),
		sequences: seqs,
	}, nil
}

func (e *appEnv) Close() error {
	if e.database == nil {
		return nil
	}
	return e.database.Close()
}

// openDatabase opens and migrates the telemetry database of the loaded
// config.
func openDatabase() (*db.DB, error) {
	return openDatabaseAt(context.Background(), currentConfig())
}

func openDatabaseAt(ctx context.Context, cfg config.Config) (*db.DB, error) {
	if cfg.Global.DataDir == "" {
		return nil, &PreflightError{
			Message:  "data directory is not configured",
			Hint:     "Set global.data_dir in the config or ONBOARD_GLOBAL_DATA_DIR",
			NextStep: "onboard init",
		}
	}
	database, err := db.Open(filepath.Join(cfg.Global.DataDir, databaseFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := database.MigrateUp(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return database, nil
}

func loadSequences(cfg config.Config) ([]*sequences.Sequence, error) {
	projectDir, err := os.Getwd()
	if err != nil {
		projectDir = ""
	}
	seqs, err := sequences.LoadSequencesFromSearchPaths(projectDir, cfg.Global.SequencesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load sequences: %w", err)
	}
	return seqs, nil
}

// overlayConfigs renders every sequence for the configured profile.
func overlayConfigs(cfg config.Config, seqs []*sequences.Sequence) ([]overlay.Config, error) {
	out := make([]overlay.Config, 0, len(seqs))
	for _, seq := range seqs {
		oc, err := overlayConfig(cfg, seq)
		if err != nil {
			return nil, err
		}
		out = append(out, oc)
	}
	return out, nil
}

func overlayConfig(cfg config.Config, seq *sequences.Sequence) (overlay.Config, error) {
	if seq == nil {
		return overlay.Config{}, errors.New("sequence is required")
	}
	rendered, err := sequences.Render(seq, map[string]string{"name": cfg.Profile.Name})
	if err != nil {
		return overlay.Config{}, err
	}

	timing := cfg.Report
	if seq.Name == "intro" {
		timing = cfg.Intro
	}
	return overlay.Config{
		Sequence:                   rendered,
		Timing:                     timing.Timing(),
		MaxLines:                   cfg.Layout.MaxLines,
		LineStep:                   cfg.Layout.LineStep(),
		DisableMessages:            cfg.Features.DisableMessages,
		ClearPinnedOnMissingTarget: cfg.Features.ClearPinnedOnMissingTarget,
	}, nil
}

// completionCookies lists the distinct completion cookies of seqs.
func completionCookies(seqs []*sequences.Sequence) []string {
	seen := map[string]bool{}
	var names []string
	for _, seq := range seqs {
		if seq.Cookie == "" || seen[seq.Cookie] {
			continue
		}
		seen[seq.Cookie] = true
		names = append(names, seq.Cookie)
	}
	return names
}
