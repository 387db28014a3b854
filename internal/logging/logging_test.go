package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestComponentTagsLines(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(Config{Output: &bytes.Buffer{}}) })

	logger := Component("sequencer")
	logger.Info().Int("index", 2).Msg("phase change")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v (%q)", err, buf.String())
	}
	if line["component"] != "sequencer" {
		t.Fatalf("expected component sequencer, got %v", line["component"])
	}
	if line["message"] != "phase change" {
		t.Fatalf("unexpected message: %v", line["message"])
	}
}

func TestInitDefaultsToWarn(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "bogus", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(Config{Output: &bytes.Buffer{}}) })

	logger := Component("x")
	logger.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered at warn level, got %q", buf.String())
	}

	logger.Warn().Msg("shown")
	if buf.Len() == 0 {
		t.Fatal("expected warn line to be written")
	}
}
