// Command onboard plays the onboarding overlays of the Ahead health report.
package main

import (
	"os"

	"github.com/aheadhealth/onboard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
