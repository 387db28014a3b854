package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aheadhealth/onboard/internal/clock"
	"github.com/aheadhealth/onboard/internal/overlay"
	"github.com/aheadhealth/onboard/internal/page"
	"github.com/aheadhealth/onboard/internal/sequences"
)

const defaultPlayTimeout = 2 * time.Minute

var (
	playRoute   string
	playTimeout time.Duration
	playPersist bool
)

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().StringVar(&playRoute, "route", "", "route to mount on (default: first allowed route)")
	playCmd.Flags().DurationVar(&playTimeout, "timeout", 0, "stop playback after this long (default: 2m, or ONBOARD_PLAY_TIMEOUT)")
	playCmd.Flags().BoolVar(&playPersist, "persist", false, "record completion cookies and telemetry")
}

var playCmd = &cobra.Command{
	Use:   "play <sequence>",
	Short: "Play a sequence in real time",
	Long: `Play a sequence on the wall clock and print each message as it appears.

Press Ctrl+C to skip the rest of the sequence.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		timeout := playTimeout
		if timeout <= 0 {
			timeout = defaultPlayTimeout
			if parsed, ok := parseEnvDuration(strings.TrimSpace(os.Getenv("ONBOARD_PLAY_TIMEOUT"))); ok {
				timeout = parsed
			}
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		cfg := currentConfig()
		opts := playOptions{Route: playRoute}

		var seqs []*sequences.Sequence
		if playPersist {
			env, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer env.Close()
			seqs = env.sequences
			opts.Gate = env.gate
			opts.Telemetry = env.telemetry
		} else {
			loaded, err := loadSequences(cfg)
			if err != nil {
				return err
			}
			seqs = loaded
		}

		seq, err := sequences.Find(seqs, args[0])
		if err != nil {
			return err
		}
		oc, err := overlayConfig(cfg, seq)
		if err != nil {
			return err
		}
		oc.DisableMessages = false
		return playSequence(ctx, os.Stdout, oc, page.DefaultSite(cfg.Profile.Name), opts)
	},
}

type playOptions struct {
	Route     string
	Gate      overlay.CompletionGate
	Telemetry overlay.Telemetry
}

// playSequence mounts oc on a clock.Loop and prints message changes until
// the overlay unmounts. Cancelling ctx skips the sequence and waits for the
// fade out.
func playSequence(ctx context.Context, out io.Writer, oc overlay.Config, site *page.Site, opts playOptions) error {
	route := opts.Route
	if route == "" && oc.Sequence != nil {
		route = defaultRoute(oc.Sequence)
	}
	p, err := site.Page(route)
	if err != nil {
		return err
	}

	loop := clock.NewLoop(0)
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer func() {
		stopLoop()
		<-loop.Done()
	}()
	go loop.Run(loopCtx)

	started := time.Now()
	done := make(chan struct{})
	var lastText string
	var lastFading bool

	o := overlay.New(oc, overlay.Options{
		Scheduler:  clock.NewDispatcher(loop.Post),
		Locator:    p,
		Gate:       opts.Gate,
		Telemetry:  opts.Telemetry,
		ScrollLock: overlay.NewScrollLock(nil),
		OnChange: func(state overlay.State) {
			elapsed := formatDuration(time.Since(started).Round(time.Millisecond))
			switch {
			case !state.Mounted:
				fmt.Fprintf(out, "%8s  %s\n", elapsed, colorize("done", colorGreen))
				select {
				case <-done:
				default:
					close(done)
				}
			case state.Fading && !lastFading:
				fmt.Fprintf(out, "%8s  %s\n", elapsed, colorize("closing", colorMagenta))
			default:
				if current := state.Sequence.Current; current != nil && current.Text != lastText {
					lastText = current.Text
					fmt.Fprintf(out, "%8s  %s\n", elapsed, current.Text)
				}
			}
			lastFading = state.Fading
		},
	})

	mounted := make(chan error, 1)
	loop.Post(func() { mounted <- o.Mount(loopCtx, p.Route) })
	if err := <-mounted; err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
	}

	// Interrupted: skip and let the fade finish, bounded by the fade time.
	loop.Post(o.Skip)
	select {
	case <-done:
	case <-time.After(oc.Timing.FadeOut + time.Second):
		loop.Post(o.Close)
	}
	return nil
}
