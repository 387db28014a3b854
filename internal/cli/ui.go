// Package cli provides TUI launch commands.
package cli

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aheadhealth/onboard/internal/page"
	"github.com/aheadhealth/onboard/internal/reveal"
	"github.com/aheadhealth/onboard/internal/tui"
)

var uiRoute string

func init() {
	rootCmd.AddCommand(uiCmd)
	uiCmd.Flags().StringVar(&uiRoute, "route", "", "page to open (default: tui.route from config)")
}

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the report TUI",
	Long:  "Launch the health report terminal UI with its onboarding overlays.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context())
	},
}

func runTUI(ctx context.Context) error {
	if IsNonInteractive() {
		return &PreflightError{
			Message:  "TUI requires an interactive terminal",
			Hint:     "Run without --non-interactive and with a TTY, or use onboard simulate",
			NextStep: "onboard --help",
		}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	overlays, err := overlayConfigs(env.cfg, env.sequences)
	if err != nil {
		return err
	}

	route := env.cfg.TUI.Route
	if uiRoute != "" {
		route = uiRoute
	}

	return tui.Run(tui.Config{
		Site:      page.DefaultSite(env.cfg.Profile.Name),
		Route:     route,
		Theme:     env.cfg.TUI.Theme,
		Overlays:  overlays,
		Gate:      env.gate,
		Telemetry: env.telemetry,
		Reveal: reveal.Config{
			ShowStatusMessage: env.cfg.Features.ShowRevealStatusMessage,
			ProfileName:       env.cfg.Profile.Name,
			StatusVisible:     env.cfg.Reveal.StatusVisible,
			StatusFade:        env.cfg.Reveal.StatusFade,
		},
		RevealStore:   env.gate,
		RevealTargets: reveal.DefaultTargets(),
	})
}

func hasTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func parseEnvDuration(value string) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed, true
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second, true
	}
	return 0, false
}
