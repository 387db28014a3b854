package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aheadhealth/onboard/internal/sequences"
	"github.com/aheadhealth/onboard/internal/tui/components"
	"github.com/aheadhealth/onboard/internal/tui/styles"
)

var sequencesRoute string

func init() {
	rootCmd.AddCommand(sequencesCmd)
	sequencesCmd.AddCommand(sequencesShowCmd)
	sequencesCmd.Flags().StringVar(&sequencesRoute, "route", "", "only list sequences allowed on this route")
}

var sequencesCmd = &cobra.Command{
	Use:     "sequences",
	Aliases: []string{"seq"},
	Short:   "List overlay sequences",
	Long:    "List the overlay sequences loaded from the search paths and the builtins.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := currentConfig()
		items, err := loadSequences(cfg)
		if err != nil {
			return err
		}
		items = filterSequences(items, sequencesRoute)

		projectDir := ""
		if cwd, err := os.Getwd(); err == nil {
			projectDir = filepath.Join(cwd, ".onboard", "sequences")
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, items)
		}
		if len(items) == 0 {
			fmt.Println(components.EmptySequences().Render(styles.DefaultStyles()))
			return nil
		}

		rows := make([][]string, 0, len(items))
		for _, seq := range items {
			rows = append(rows, []string{
				seq.Name,
				seq.Label,
				string(seq.Mode),
				seq.Cookie,
				strconv.Itoa(len(seq.Messages)),
				formatRoutes(seq.Routes),
				sequenceSourceLabel(seq.Source, cfg.Global.SequencesDir, projectDir),
			})
		}
		return writeTable(os.Stdout, []string{"NAME", "LABEL", "MODE", "COOKIE", "MESSAGES", "ROUTES", "SOURCE"}, rows)
	},
}

var sequencesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show the messages of a sequence",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := currentConfig()
		items, err := loadSequences(cfg)
		if err != nil {
			return err
		}
		seq, err := sequences.Find(items, args[0])
		if err != nil {
			return err
		}
		rendered, err := sequences.Render(seq, map[string]string{"name": cfg.Profile.Name})
		if err != nil {
			return err
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, rendered)
		}

		fmt.Printf("%s (%s)\n", rendered.Name, rendered.Label)
		if rendered.Description != "" {
			fmt.Println(rendered.Description)
		}
		fmt.Printf("Mode: %s  Cookie: %s  Routes: %s  Incremental: %s\n\n",
			rendered.Mode, rendered.Cookie, formatRoutes(rendered.Routes), formatYesNo(rendered.Incremental))

		rows := make([][]string, 0, len(rendered.Messages))
		for i, msg := range rendered.Messages {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				msg.Text,
				msg.Target,
				formatMessageFlags(msg),
			})
		}
		return writeTable(os.Stdout, []string{"#", "TEXT", "TARGET", "FLAGS"}, rows)
	},
}

// filterSequences keeps the sequences allowed on route. An empty route
// keeps everything.
func filterSequences(items []*sequences.Sequence, route string) []*sequences.Sequence {
	route = strings.TrimSpace(route)
	if route == "" {
		return items
	}
	out := make([]*sequences.Sequence, 0, len(items))
	for _, seq := range items {
		if seq.Routes.Allows(route) {
			out = append(out, seq)
		}
	}
	return out
}

// sequenceSourceLabel names where a sequence was loaded from.
func sequenceSourceLabel(source, userDir, projectDir string) string {
	switch {
	case source == "builtin":
		return "builtin"
	case userDir != "" && strings.HasPrefix(source, userDir+string(filepath.Separator)):
		return "user"
	case projectDir != "" && strings.HasPrefix(source, projectDir+string(filepath.Separator)):
		return "project"
	default:
		return "file"
	}
}

func formatRoutes(routes sequences.Routes) string {
	var parts []string
	if len(routes.Only) > 0 {
		parts = append(parts, "only "+strings.Join(routes.Only, ","))
	}
	if len(routes.Exclude) > 0 {
		parts = append(parts, "not "+strings.Join(routes.Exclude, ","))
	}
	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, "; ")
}

func formatMessageFlags(msg sequences.Message) string {
	var flags []string
	if msg.Always {
		flags = append(flags, "always")
	}
	if msg.Permanent {
		flags = append(flags, "permanent")
	}
	if msg.ClearPinned {
		flags = append(flags, "clear")
	}
	return strings.Join(flags, ",")
}
