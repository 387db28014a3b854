package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aheadhealth/onboard/internal/clock"
	"github.com/aheadhealth/onboard/internal/config"
	"github.com/aheadhealth/onboard/internal/events"
	"github.com/aheadhealth/onboard/internal/overlay"
	"github.com/aheadhealth/onboard/internal/page"
	"github.com/aheadhealth/onboard/internal/sequencer"
	"github.com/aheadhealth/onboard/internal/sequences"
)

// simulationLimit bounds a simulated run; sequences finish far earlier.
const simulationLimit = time.Hour

var (
	simulateRoute     string
	simulateCompleted bool
	simulateMissing   []string
)

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringVar(&simulateRoute, "route", "", "route to mount on (default: first allowed route)")
	simulateCmd.Flags().BoolVar(&simulateCompleted, "completed", false, "simulate a returning visitor")
	simulateCmd.Flags().StringSliceVar(&simulateMissing, "missing", nil, "page regions to remove, e.g. top-menu")
}

var simulateCmd = &cobra.Command{
	Use:   "simulate <sequence>",
	Short: "Print the timeline of a sequence",
	Long: `Run a sequence on a virtual clock and print every display change.

Nothing is persisted: completion cookies and telemetry stay in memory.`,
	Example: `  onboard simulate intro
  onboard simulate report --completed
  onboard simulate intro --missing top-menu --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := currentConfig()
		seqs, err := loadSequences(cfg)
		if err != nil {
			return err
		}
		seq, err := sequences.Find(seqs, args[0])
		if err != nil {
			return &PreflightError{
				Message:  err.Error(),
				Hint:     "List the available sequences",
				NextStep: "onboard sequences",
			}
		}

		sim, err := simulateSequence(cfg, seq, simulateOptions{
			Route:     simulateRoute,
			Completed: simulateCompleted,
			Missing:   simulateMissing,
		})
		if err != nil {
			return err
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, sim)
		}
		return printSimulation(sim)
	},
}

type simulateOptions struct {
	Route     string
	Completed bool
	Missing   []string
}

// timelineEntry is one display change of a simulated overlay.
type timelineEntry struct {
	AtMS        int64           `json:"at_ms"`
	Mounted     bool            `json:"mounted"`
	Fading      bool            `json:"fading,omitempty"`
	Index       int             `json:"index"`
	Total       int             `json:"total"`
	Phase       sequencer.Phase `json:"phase"`
	Text        string          `json:"text,omitempty"`
	Pinned      []string        `json:"pinned,omitempty"`
	Clearing    bool            `json:"clearing,omitempty"`
	Highlighted []string        `json:"highlighted,omitempty"`
}

type simulation struct {
	Sequence       string                 `json:"sequence"`
	Route          string                 `json:"route"`
	Returning      bool                   `json:"returning"`
	DurationMS     int64                  `json:"duration_ms"`
	CompletedAfter bool                   `json:"completed_after"`
	Entries        []timelineEntry        `json:"entries"`
	MissingTargets []events.MissingTarget `json:"missing_targets,omitempty"`
}

type simulationGate struct {
	completed map[string]bool
}

func (g *simulationGate) HasCompleted(name string) bool { return g.completed[name] }
func (g *simulationGate) MarkCompleted(name string)     { g.completed[name] = true }

// hidingLocator reports the listed regions as absent.
type hidingLocator struct {
	base   sequencer.TargetLocator
	hidden map[string]bool
}

func (l hidingLocator) Find(id string) (sequencer.Target, bool) {
	if l.hidden[id] {
		return nil, false
	}
	return l.base.Find(id)
}

func simulateSequence(cfg config.Config, seq *sequences.Sequence, opts simulateOptions) (*simulation, error) {
	oc, err := overlayConfig(cfg, seq)
	if err != nil {
		return nil, err
	}
	// The virtual run should show the sequence even when messages are off.
	oc.DisableMessages = false

	route := opts.Route
	if route == "" {
		route = defaultRoute(seq)
	}
	site := page.DefaultSite(cfg.Profile.Name)
	p, err := site.Page(route)
	if err != nil {
		return nil, err
	}

	hidden := make(map[string]bool, len(opts.Missing))
	for _, id := range opts.Missing {
		if id = strings.TrimSpace(id); id != "" {
			hidden[id] = true
		}
	}

	clk := clock.NewManual()
	gate := &simulationGate{completed: map[string]bool{}}
	if opts.Completed && seq.Cookie != "" {
		gate.completed[seq.Cookie] = true
	}
	telemetry := events.NewLog()

	sim := &simulation{Sequence: seq.Name, Route: p.Route, Returning: opts.Completed}
	record := func(state overlay.State) {
		entry := entryFromState(clk.Now(), state, p)
		if n := len(sim.Entries); n > 0 && sameEntry(sim.Entries[n-1], entry) {
			return
		}
		sim.Entries = append(sim.Entries, entry)
	}

	o := overlay.New(oc, overlay.Options{
		Scheduler:  clk,
		Locator:    hidingLocator{base: p, hidden: hidden},
		Gate:       gate,
		Telemetry:  telemetry,
		ScrollLock: overlay.NewScrollLock(nil),
		OnChange:   record,
	})
	if err := o.Mount(context.Background(), p.Route); err != nil {
		return nil, err
	}

	sim.DurationMS = clk.Run(simulationLimit).Milliseconds()
	if o.Mounted() {
		o.Close()
	}
	sim.CompletedAfter = seq.Cookie != "" && gate.completed[seq.Cookie]
	sim.MissingTargets = telemetry.MissingTargets()
	return sim, nil
}

func defaultRoute(seq *sequences.Sequence) string {
	if len(seq.Routes.Only) > 0 {
		return "/" + strings.TrimPrefix(seq.Routes.Only[0], "/")
	}
	return page.RouteIndex
}

func entryFromState(at time.Duration, state overlay.State, p *page.Page) timelineEntry {
	snap := state.Sequence
	entry := timelineEntry{
		AtMS:     at.Milliseconds(),
		Mounted:  state.Mounted,
		Fading:   state.Fading,
		Index:    snap.Index,
		Total:    snap.Total,
		Phase:    snap.Phase,
		Clearing: snap.Clearing,
	}
	for _, pinned := range snap.Pinned {
		entry.Pinned = append(entry.Pinned, pinned.Text)
		if snap.Current == nil && pinned.SourceIndex == snap.Index {
			entry.Text = pinned.Text
		}
	}
	if snap.Current != nil {
		entry.Text = snap.Current.Text
	}
	for _, region := range p.Regions() {
		if region.Highlighted() {
			entry.Highlighted = append(entry.Highlighted, region.ID)
		}
	}
	return entry
}

func sameEntry(a, b timelineEntry) bool {
	return a.Mounted == b.Mounted &&
		a.Fading == b.Fading &&
		a.Index == b.Index &&
		a.Total == b.Total &&
		a.Phase == b.Phase &&
		a.Text == b.Text &&
		a.Clearing == b.Clearing &&
		slices.Equal(a.Pinned, b.Pinned) &&
		slices.Equal(a.Highlighted, b.Highlighted)
}

func printSimulation(sim *simulation) error {
	fmt.Printf("Sequence %s on %s", sim.Sequence, sim.Route)
	if sim.Returning {
		fmt.Print(" (returning visitor)")
	}
	fmt.Println()

	rows := make([][]string, 0, len(sim.Entries))
	for _, e := range sim.Entries {
		step := "-"
		if e.Total > 0 && e.Index < e.Total {
			step = strconv.Itoa(e.Index+1) + "/" + strconv.Itoa(e.Total)
		}
		state := formatPhase(e.Phase)
		switch {
		case !e.Mounted:
			state = colorize("unmounted", colorMagenta)
		case e.Fading:
			state = colorize("closing", colorMagenta)
		case e.Clearing:
			state += " (clearing)"
		}
		rows = append(rows, []string{
			formatDuration(time.Duration(e.AtMS) * time.Millisecond),
			step,
			state,
			truncate(e.Text, 48),
			strconv.Itoa(len(e.Pinned)),
			strings.Join(e.Highlighted, ","),
		})
	}
	if err := writeTable(os.Stdout, []string{"AT", "STEP", "STATE", "MESSAGE", "PINNED", "HIGHLIGHT"}, rows); err != nil {
		return err
	}

	fmt.Printf("\nFinished after %s; completed: %s\n",
		formatDuration(time.Duration(sim.DurationMS)*time.Millisecond), formatYesNo(sim.CompletedAfter))
	for _, m := range sim.MissingTargets {
		fmt.Println(colorize(fmt.Sprintf("missing target %q for message %d: %s", m.TargetID, m.MessageIndex, m.Message), colorRed))
	}
	return nil
}
