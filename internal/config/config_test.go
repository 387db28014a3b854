package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aheadhealth/onboard/internal/models"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	want := DefaultConfig()
	require.Equal(t, want.Intro, cfg.Intro)
	require.Equal(t, want.Report, cfg.Report)
	require.Equal(t, 30, cfg.Layout.LineStep())
	require.True(t, cfg.Features.ShowRevealStatusMessage)
	require.False(t, cfg.Features.DisableCookies)
	require.Equal(t, 1500*time.Millisecond, cfg.Intro.Timing().StartDelay)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
profile:
  name: Andres
features:
  disable_messages: true
report:
  visible: 2s
layout:
  max_lines: 4
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	t.Setenv("ONBOARD_FEATURES_DISABLE_COOKIES", "true")
	t.Setenv("ONBOARD_INTRO_FADE_IN", "250ms")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Andres", cfg.Profile.Name)
	require.True(t, cfg.Features.DisableMessages)
	require.True(t, cfg.Features.DisableCookies)
	require.Equal(t, 2*time.Second, cfg.Report.Visible)
	require.Equal(t, 900*time.Millisecond, cfg.Report.FadeOut, "unset keys keep defaults")
	require.Equal(t, 250*time.Millisecond, cfg.Intro.FadeIn)
	require.Equal(t, 4, cfg.Layout.MaxLines)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "loud"
	cfg.Logging.Format = "xml"
	cfg.Intro.FadeOut = -time.Second
	cfg.Layout.MaxLines = 1

	err := cfg.Validate()
	var verrs *models.ValidationErrors
	require.True(t, errors.As(err, &verrs), "got %v", err)
	require.Len(t, verrs.Errors, 4)
	require.Contains(t, err.Error(), "intro.fade_out")

	good := DefaultConfig()
	require.NoError(t, good.Validate())
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefault(path, false))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(content), "Onboard Configuration File"))

	require.ErrorIs(t, WriteDefault(path, false), ErrConfigExists)
	require.NoError(t, WriteDefault(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig().Intro, cfg.Intro)
	require.Equal(t, DefaultConfig().Report, cfg.Report)
}
