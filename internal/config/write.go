package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrConfigExists = errors.New("config file already exists")

const defaultConfigYAML = `# Onboard Configuration File
# Durations use Go syntax (1500ms, 2s). Every key can be overridden with an
# ONBOARD_ environment variable, e.g. ONBOARD_FEATURES_DISABLE_COOKIES=true.

# global:
#   data_dir: ~/.local/share/onboard
#   sequences_dir: ~/.config/onboard/sequences

logging:
  level: warn
  format: console

profile:
  name: there

features:
  disable_cookies: false
  disable_messages: false
  show_reveal_status_message: true
  clear_pinned_on_missing_target: false

intro:
  start_delay: 1500ms
  fade_in: 500ms
  visible: 2000ms
  fade_out: 1000ms
  clear_hold: 1000ms

report:
  start_delay: 0s
  fade_in: 600ms
  visible: 1600ms
  fade_out: 900ms

layout:
  max_lines: 5
  line_height: 22
  line_gap: 8

reveal:
  status_visible: 1200ms
  status_fade: 600ms

tui:
  theme: default
  route: /index.html
`

// WriteDefault writes a commented default config file to path. An existing
// file is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
