// Package config loads onboard configuration from file, environment and
// defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/aheadhealth/onboard/internal/models"
	"github.com/aheadhealth/onboard/internal/sequencer"
)

// EnvPrefix prefixes every environment override, e.g. ONBOARD_LOGGING_LEVEL.
const EnvPrefix = "ONBOARD"

// Config is the complete application configuration. It is decoded once and
// passed by value to constructors.
type Config struct {
	Global   GlobalConfig   `mapstructure:"global"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Profile  ProfileConfig  `mapstructure:"profile"`
	Features FeaturesConfig `mapstructure:"features"`
	Intro    OverlayConfig  `mapstructure:"intro"`
	Report   OverlayConfig  `mapstructure:"report"`
	Layout   LayoutConfig   `mapstructure:"layout"`
	Reveal   RevealConfig   `mapstructure:"reveal"`
	TUI      TUIConfig      `mapstructure:"tui"`
}

// GlobalConfig holds filesystem locations.
type GlobalConfig struct {
	// DataDir holds the cookie jar and the telemetry database.
	DataDir string `mapstructure:"data_dir"`

	// SequencesDir is searched for sequence definitions before the builtins.
	SequencesDir string `mapstructure:"sequences_dir"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ProfileConfig personalizes message text.
type ProfileConfig struct {
	Name string `mapstructure:"name"`
}

// FeaturesConfig toggles behavior.
type FeaturesConfig struct {
	DisableCookies             bool `mapstructure:"disable_cookies"`
	DisableMessages            bool `mapstructure:"disable_messages"`
	ShowRevealStatusMessage    bool `mapstructure:"show_reveal_status_message"`
	ClearPinnedOnMissingTarget bool `mapstructure:"clear_pinned_on_missing_target"`
}

// OverlayConfig times one overlay.
type OverlayConfig struct {
	StartDelay time.Duration `mapstructure:"start_delay"`
	FadeIn     time.Duration `mapstructure:"fade_in"`
	Visible    time.Duration `mapstructure:"visible"`
	FadeOut    time.Duration `mapstructure:"fade_out"`
	ClearHold  time.Duration `mapstructure:"clear_hold"`
}

// Timing converts to sequencer timing.
func (o OverlayConfig) Timing() sequencer.Timing {
	return sequencer.Timing{
		StartDelay: o.StartDelay,
		FadeIn:     o.FadeIn,
		Visible:    o.Visible,
		FadeOut:    o.FadeOut,
		ClearHold:  o.ClearHold,
	}
}

// LayoutConfig sizes overlay lines.
type LayoutConfig struct {
	MaxLines   int `mapstructure:"max_lines"`
	LineHeight int `mapstructure:"line_height"`
	LineGap    int `mapstructure:"line_gap"`
}

// LineStep is the distance between pinned lines.
func (l LayoutConfig) LineStep() int {
	return l.LineHeight + l.LineGap
}

// RevealConfig times the reveal status message.
type RevealConfig struct {
	StatusVisible time.Duration `mapstructure:"status_visible"`
	StatusFade    time.Duration `mapstructure:"status_fade"`
}

// TUIConfig configures the terminal UI.
type TUIConfig struct {
	Theme string `mapstructure:"theme"`
	Route string `mapstructure:"route"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Global: GlobalConfig{
			DataDir: DefaultDataDir(),
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		Profile: ProfileConfig{
			Name: "there",
		},
		Features: FeaturesConfig{
			ShowRevealStatusMessage: true,
		},
		Intro: OverlayConfig{
			StartDelay: 1500 * time.Millisecond,
			FadeIn:     500 * time.Millisecond,
			Visible:    2000 * time.Millisecond,
			FadeOut:    1000 * time.Millisecond,
			ClearHold:  1000 * time.Millisecond,
		},
		Report: OverlayConfig{
			FadeIn:  600 * time.Millisecond,
			Visible: 1600 * time.Millisecond,
			FadeOut: 900 * time.Millisecond,
		},
		Layout: LayoutConfig{
			MaxLines:   sequencer.DefaultMaxLines,
			LineHeight: 22,
			LineGap:    8,
		},
		Reveal: RevealConfig{
			StatusVisible: 1200 * time.Millisecond,
			StatusFade:    600 * time.Millisecond,
		},
		TUI: TUIConfig{
			Theme: "default",
			Route: "/index.html",
		},
	}
}

// DefaultConfigDir returns ~/.config/onboard, honoring XDG_CONFIG_HOME.
func DefaultConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "onboard")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".onboard"
	}
	return filepath.Join(home, ".config", "onboard")
}

// DefaultDataDir returns ~/.local/share/onboard, honoring XDG_DATA_HOME.
func DefaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "onboard")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".onboard"
	}
	return filepath.Join(home, ".local", "share", "onboard")
}

// Load reads configuration. An empty path searches the default config dir
// and the working directory for config.yaml; a missing file there is not an
// error. An explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(DefaultConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Global.DataDir = expandHome(cfg.Global.DataDir)
	cfg.Global.SequencesDir = expandHome(cfg.Global.SequencesDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	errs := &models.ValidationErrors{}

	if c.Global.DataDir == "" {
		errs.AddMessage("global.data_dir", "is required")
	}
	if level := strings.TrimSpace(c.Logging.Level); level != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(level)); err != nil {
			errs.AddMessage("logging.level", fmt.Sprintf("unknown level %q", level))
		}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "console", "json":
	default:
		errs.AddMessage("logging.format", fmt.Sprintf("must be console or json, got %q", c.Logging.Format))
	}

	validateOverlay(errs, "intro", c.Intro)
	validateOverlay(errs, "report", c.Report)

	if c.Layout.MaxLines < 2 {
		errs.AddMessage("layout.max_lines", "must be at least 2")
	}
	if c.Layout.LineHeight < 0 || c.Layout.LineGap < 0 {
		errs.AddMessage("layout", "line height and gap must not be negative")
	}
	if c.Reveal.StatusVisible < 0 || c.Reveal.StatusFade < 0 {
		errs.AddMessage("reveal", "durations must not be negative")
	}

	return errs.Err()
}

func validateOverlay(errs *models.ValidationErrors, name string, o OverlayConfig) {
	for field, d := range map[string]time.Duration{
		"start_delay": o.StartDelay,
		"fade_in":     o.FadeIn,
		"visible":     o.Visible,
		"fade_out":    o.FadeOut,
		"clear_hold":  o.ClearHold,
	} {
		if d < 0 {
			errs.AddMessage(name+"."+field, "must not be negative")
		}
	}
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("global.data_dir", d.Global.DataDir)
	v.SetDefault("global.sequences_dir", d.Global.SequencesDir)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("profile.name", d.Profile.Name)
	v.SetDefault("features.disable_cookies", d.Features.DisableCookies)
	v.SetDefault("features.disable_messages", d.Features.DisableMessages)
	v.SetDefault("features.show_reveal_status_message", d.Features.ShowRevealStatusMessage)
	v.SetDefault("features.clear_pinned_on_missing_target", d.Features.ClearPinnedOnMissingTarget)
	for prefix, o := range map[string]OverlayConfig{"intro": d.Intro, "report": d.Report} {
		v.SetDefault(prefix+".start_delay", o.StartDelay)
		v.SetDefault(prefix+".fade_in", o.FadeIn)
		v.SetDefault(prefix+".visible", o.Visible)
		v.SetDefault(prefix+".fade_out", o.FadeOut)
		v.SetDefault(prefix+".clear_hold", o.ClearHold)
	}
	v.SetDefault("layout.max_lines", d.Layout.MaxLines)
	v.SetDefault("layout.line_height", d.Layout.LineHeight)
	v.SetDefault("layout.line_gap", d.Layout.LineGap)
	v.SetDefault("reveal.status_visible", d.Reveal.StatusVisible)
	v.SetDefault("reveal.status_fade", d.Reveal.StatusFade)
	v.SetDefault("tui.theme", d.TUI.Theme)
	v.SetDefault("tui.route", d.TUI.Route)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
