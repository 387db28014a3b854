// Package cli provides export commands for onboard state.
package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aheadhealth/onboard/internal/cookies"
	"github.com/aheadhealth/onboard/internal/events"
	"github.com/aheadhealth/onboard/internal/sequences"
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportStatusCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export onboard state",
	Long:  "Export onboarding state for automation or reporting.",
}

var exportStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Export full status",
	Long:  "Export full status as JSON: sequence completion, revealed panels and telemetry.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		env, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		telemetry, err := loadTelemetry(ctx, env.eventRepo)
		if err != nil {
			return err
		}
		status := buildExportStatus(env.gate, env.sequences, telemetry)

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, status)
		}

		writer := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintf(writer, "Cookies enabled:\t%s\n", formatYesNo(status.CookiesEnabled))
		for _, s := range status.Sequences {
			fmt.Fprintf(writer, "Sequence %s:\t%s\n", s.Name, completedLabel(s.Completed))
		}
		fmt.Fprintf(writer, "Revealed panels:\t%d\n", len(status.Revealed))
		fmt.Fprintf(writer, "Reveal clicks:\t%d\n", len(status.Telemetry.Reveal))
		fmt.Fprintf(writer, "Missing targets:\t%d\n", len(status.Telemetry.Missing))
		fmt.Fprintf(writer, "Skips:\t%d\n", len(status.Telemetry.Skips))
		if err := writer.Flush(); err != nil {
			return err
		}

		fmt.Println("Use --json or --jsonl for full export output.")
		return nil
	},
}

// ExportStatus is the payload returned by `onboard export status`.
type ExportStatus struct {
	CookiesEnabled bool             `json:"cookies_enabled"`
	Sequences      []SequenceStatus `json:"sequences"`
	Revealed       []string         `json:"revealed"`
	Telemetry      events.Dump      `json:"telemetry"`
}

// SequenceStatus reports whether a sequence was completed.
type SequenceStatus struct {
	Name      string `json:"name"`
	Cookie    string `json:"cookie"`
	Completed bool   `json:"completed"`
}

func buildExportStatus(gate *cookies.Gate, seqs []*sequences.Sequence, telemetry events.Dump) ExportStatus {
	status := ExportStatus{
		CookiesEnabled: gate.Jar().Enabled(),
		Sequences:      make([]SequenceStatus, 0, len(seqs)),
		Revealed:       gate.RevealedIDs(),
		Telemetry:      telemetry,
	}
	if status.Revealed == nil {
		status.Revealed = []string{}
	}
	for _, seq := range seqs {
		status.Sequences = append(status.Sequences, SequenceStatus{
			Name:      seq.Name,
			Cookie:    seq.Cookie,
			Completed: seq.Cookie != "" && gate.HasCompleted(seq.Cookie),
		})
	}
	return status
}

func completedLabel(completed bool) string {
	if completed {
		return colorize("completed", colorGreen)
	}
	return colorize("pending", colorYellow)
}
