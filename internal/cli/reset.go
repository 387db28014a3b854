package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aheadhealth/onboard/internal/cookies"
	"github.com/aheadhealth/onboard/internal/sequences"
)

var resetKeepRevealed bool

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVar(&resetKeepRevealed, "keep-revealed", false, "keep the revealed panels cookie")
}

var resetCmd = &cobra.Command{
	Use:   "reset [sequence...]",
	Short: "Forget completed sequences and revealed panels",
	Long: `Delete completion cookies so sequences run in full again.

Without arguments every sequence is reset and revealed panels are hidden again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(context.Background())
		if err != nil {
			return err
		}
		defer env.Close()

		if !env.jar.Enabled() {
			return &PreflightError{
				Message:  "cookies are disabled",
				Hint:     "Unset features.disable_cookies to persist onboarding state",
				NextStep: "onboard init --force",
			}
		}

		result, err := resetState(env.gate, env.sequences, args, !resetKeepRevealed && len(args) == 0)
		if err != nil {
			return err
		}
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, result)
		}
		for _, name := range result.Cookies {
			fmt.Printf("Reset %s\n", name)
		}
		if result.Revealed {
			fmt.Println("Hidden panels will ask to be revealed again")
		}
		return nil
	},
}

type resetResult struct {
	Cookies  []string `json:"cookies"`
	Revealed bool     `json:"revealed"`
}

func resetState(gate *cookies.Gate, seqs []*sequences.Sequence, names []string, revealed bool) (resetResult, error) {
	targets := seqs
	if len(names) > 0 {
		targets = make([]*sequences.Sequence, 0, len(names))
		for _, name := range names {
			seq, err := sequences.Find(seqs, name)
			if err != nil {
				return resetResult{}, err
			}
			targets = append(targets, seq)
		}
	}

	result := resetResult{Cookies: []string{}}
	for _, name := range completionCookies(targets) {
		if err := gate.Reset(name); err != nil {
			return result, fmt.Errorf("failed to reset %s: %w", name, err)
		}
		result.Cookies = append(result.Cookies, name)
	}
	if revealed {
		if err := gate.ClearRevealed(); err != nil {
			return result, fmt.Errorf("failed to clear revealed panels: %w", err)
		}
		result.Revealed = true
	}
	return result, nil
}
