package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/aheadhealth/onboard/internal/db"
	"github.com/aheadhealth/onboard/internal/events"
	"github.com/aheadhealth/onboard/internal/models"
	"github.com/aheadhealth/onboard/internal/tui/components"
	"github.com/aheadhealth/onboard/internal/tui/styles"
)

var logClear bool

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.Flags().BoolVar(&logClear, "clear", false, "delete every recorded event")
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recorded telemetry",
	Long:  "Show reveal clicks, missing overlay targets and overlay skips recorded by the TUI.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()
		repo := db.NewEventRepository(database)

		if logClear {
			step := startProgress("Clearing telemetry")
			removed, err := clearTelemetry(ctx, repo)
			if err != nil {
				step.Fail(err)
				return err
			}
			step.Done()
			if IsJSONOutput() || IsJSONLOutput() {
				return WriteOutput(os.Stdout, map[string]int64{"removed": removed})
			}
			fmt.Printf("Removed %d events.\n", removed)
			return nil
		}

		dump, err := loadTelemetry(ctx, repo)
		if err != nil {
			return err
		}
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, dump)
		}
		return printTelemetry(os.Stdout, dump)
	},
}

// loadTelemetry reads every stored event back into a Dump. Events that no
// longer decode are skipped.
func loadTelemetry(ctx context.Context, repo *db.EventRepository) (events.Dump, error) {
	dump := events.Dump{
		Reveal:  []events.RevealClick{},
		Missing: []events.MissingTarget{},
		Skips:   []events.Skip{},
	}
	for _, eventType := range models.EventTypes {
		stored, err := repo.ListByType(ctx, eventType)
		if err != nil {
			return dump, fmt.Errorf("failed to list %s events: %w", eventType, err)
		}
		for _, event := range stored {
			record, err := events.Decode(event)
			if err != nil {
				continue
			}
			switch r := record.(type) {
			case events.RevealClick:
				dump.Reveal = append(dump.Reveal, r)
			case events.MissingTarget:
				dump.Missing = append(dump.Missing, r)
			case events.Skip:
				dump.Skips = append(dump.Skips, r)
			}
		}
	}
	return dump, nil
}

func clearTelemetry(ctx context.Context, repo *db.EventRepository) (int64, error) {
	var removed int64
	for _, eventType := range models.EventTypes {
		n, err := repo.DeleteByType(ctx, eventType)
		if err != nil {
			return removed, fmt.Errorf("failed to clear %s events: %w", eventType, err)
		}
		removed += n
	}
	return removed, nil
}

func printTelemetry(out io.Writer, dump events.Dump) error {
	if len(dump.Reveal)+len(dump.Missing)+len(dump.Skips) == 0 {
		fmt.Fprintln(out, components.EmptyTelemetry().Render(styles.DefaultStyles()))
		return nil
	}

	fmt.Fprintln(out, formatEventType(models.EventTypeRevealClicked))
	rows := make([][]string, 0, len(dump.Reveal))
	for _, r := range dump.Reveal {
		rows = append(rows, []string{formatEventTime(r.ClickedAt), r.TargetID, r.ButtonLabel})
	}
	if err := writeTable(out, []string{"TIME", "TARGET", "BUTTON"}, rows); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, formatEventType(models.EventTypeTargetMissing))
	rows = rows[:0]
	for _, m := range dump.Missing {
		rows = append(rows, []string{formatEventTime(m.OccurredAt), m.Source, m.TargetID, strconv.Itoa(m.MessageIndex), truncate(m.Message, 48)})
	}
	if err := writeTable(out, []string{"TIME", "SOURCE", "TARGET", "INDEX", "MESSAGE"}, rows); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, formatEventType(models.EventTypeOverlaySkipped))
	rows = rows[:0]
	for _, s := range dump.Skips {
		rows = append(rows, []string{formatEventTime(s.OccurredAt), s.Source})
	}
	return writeTable(out, []string{"TIME", "SOURCE"}, rows)
}

func formatEventTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
