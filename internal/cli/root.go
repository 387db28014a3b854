// Package cli implements the onboard command line.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aheadhealth/onboard/internal/config"
	"github.com/aheadhealth/onboard/internal/logging"
)

// Version is set at build time.
var Version = "dev"

var (
	cfgFile        string
	logLevel       string
	logFormat      string
	jsonOutput     bool
	jsonlOutput    bool
	nonInteractive bool
	noProgress     bool

	appConfig *config.Config

	// configDirFunc is overridden in tests.
	configDirFunc = config.DefaultConfigDir
)

var rootCmd = &cobra.Command{
	Use:           "onboard",
	Short:         "Onboarding overlays for the Ahead health report",
	Long:          "onboard plays the timed onboarding overlays of the Ahead health report in the terminal and manages their persisted state.",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/onboard/config.yaml)")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&logFormat, "log-format", "", "log format: console, json")
	flags.BoolVar(&jsonOutput, "json", false, "emit JSON output")
	flags.BoolVar(&jsonlOutput, "jsonl", false, "emit JSON lines output")
	flags.BoolVar(&nonInteractive, "non-interactive", false, "never prompt; use defaults")
	flags.BoolVar(&noProgress, "no-progress", false, "disable progress output")
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

// GetConfig returns the loaded configuration, or nil before a command ran.
func GetConfig() *config.Config {
	return appConfig
}

func initConfig(cmd *cobra.Command) error {
	// init writes the config file, so it must not fail on a broken one.
	if cmd.Name() == "init" {
		cfg := config.DefaultConfig()
		appConfig = &cfg
		initLogging(cfg)
		return nil
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return &PreflightError{
			Message:  fmt.Sprintf("failed to load config: %v", err),
			Hint:     "Fix the config file or run with --config pointing at a valid file",
			NextStep: "onboard init --force",
		}
	}
	appConfig = cfg
	initLogging(*cfg)
	return nil
}

func initLogging(cfg config.Config) {
	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	format := cfg.Logging.Format
	if logFormat != "" {
		format = logFormat
	}
	logging.Init(logging.Config{Level: level, Format: format})
}

func configFilePath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return filepath.Join(configDirFunc(), "config.yaml")
}

// PreflightError is a user-facing error with a hint and a follow-up command.
type PreflightError struct {
	Message  string
	Hint     string
	NextStep string
}

func (e *PreflightError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
	}
	if e.NextStep != "" {
		b.WriteString("\nNext: ")
		b.WriteString(e.NextStep)
	}
	return b.String()
}

func printError(err error) {
	if IsJSONOutput() || IsJSONLOutput() {
		_ = WriteOutput(os.Stderr, map[string]string{"error": err.Error()})
		return
	}
	fmt.Fprintln(os.Stderr, colorize("Error: ", colorRed)+err.Error())
}
