package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aheadhealth/onboard/internal/config"
)

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config file")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file and data directory",
	Long:  "Write a commented default config file and prepare the data directory that holds cookies and telemetry.",
	RunE: func(cmd *cobra.Command, args []string) error {
		results := []initResult{
			createConfigFile(),
			createDataDir(),
			initDatabase(),
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, results)
		}

		failed := false
		for _, r := range results {
			label, color := "OK", colorGreen
			switch r.status {
			case "skipped":
				label, color = "SKIP", colorYellow
			case "failed":
				label, color = "ERR", colorRed
				failed = true
			}
			fmt.Printf("%s %s: %s\n", colorize(label, color), r.name, r.message)
		}
		if failed {
			return errors.New("init did not complete")
		}
		return nil
	},
}

type initResult struct {
	name    string
	status  string // done, skipped, failed
	message string
}

func (r initResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name    string `json:"name"`
		Status  string `json:"status"`
		Message string `json:"message"`
	}{r.name, r.status, r.message})
}

func createConfigFile() initResult {
	path := configFilePath()
	err := config.WriteDefault(path, initForce)
	switch {
	case errors.Is(err, config.ErrConfigExists):
		return initResult{name: "Config file", status: "skipped", message: fmt.Sprintf("%s exists (use --force to overwrite)", path)}
	case err != nil:
		return initResult{name: "Config file", status: "failed", message: err.Error()}
	}
	return initResult{name: "Config file", status: "done", message: "wrote " + path}
}

func createDataDir() initResult {
	dir := currentConfig().Global.DataDir
	if dir == "" {
		return initResult{name: "Data directory", status: "failed", message: "global.data_dir is empty"}
	}
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return initResult{name: "Data directory", status: "skipped", message: dir + " exists"}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return initResult{name: "Data directory", status: "failed", message: err.Error()}
	}
	return initResult{name: "Data directory", status: "done", message: "created " + dir}
}

func initDatabase() initResult {
	step := startProgress("Migrating telemetry database")
	database, err := openDatabaseAt(context.Background(), currentConfig())
	if err != nil {
		step.Fail(err)
		return initResult{name: "Telemetry database", status: "failed", message: err.Error()}
	}
	defer database.Close()
	step.Done()
	return initResult{name: "Telemetry database", status: "done", message: database.Path()}
}
