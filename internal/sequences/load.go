package sequences

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrSequenceNotFound is returned by Find when no sequence matches.
var ErrSequenceNotFound = errors.New("sequence not found")

// LoadSequence reads a single sequence from disk.
func LoadSequence(path string) (*Sequence, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sequence path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sequence %s: %w", path, err)
	}

	seq, err := parseSequence(data)
	if err != nil {
		return nil, fmt.Errorf("parse sequence %s: %w", path, err)
	}
	seq.Source = path
	return seq, nil
}

// LoadSequencesFromDir loads all sequences from a directory.
func LoadSequencesFromDir(dir string) ([]*Sequence, error) {
	if strings.TrimSpace(dir) == "" {
		return []*Sequence{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Sequence{}, nil
		}
		return nil, fmt.Errorf("read sequences dir %s: %w", dir, err)
	}

	sequences := make([]*Sequence, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		seq, err := LoadSequence(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		sequences = append(sequences, seq)
	}

	sort.Slice(sequences, func(i, j int) bool {
		return sequences[i].Name < sequences[j].Name
	})

	return sequences, nil
}

// Find returns the sequence with the given name (case-insensitive).
func Find(items []*Sequence, name string) (*Sequence, error) {
	name = strings.TrimSpace(name)
	for _, seq := range items {
		if strings.EqualFold(seq.Name, name) {
			return seq, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrSequenceNotFound, name)
}

func parseSequence(data []byte) (*Sequence, error) {
	var seq Sequence
	if err := yaml.Unmarshal(data, &seq); err != nil {
		return nil, err
	}

	seq.Name = strings.TrimSpace(seq.Name)
	if seq.Name == "" {
		return nil, fmt.Errorf("sequence name is required")
	}
	seq.Label = strings.TrimSpace(seq.Label)
	if seq.Label == "" {
		seq.Label = seq.Name
	}
	seq.Description = strings.TrimSpace(seq.Description)
	seq.Cookie = strings.TrimSpace(seq.Cookie)
	if seq.Cookie == "" {
		seq.Cookie = seq.Name + "_seen"
	}

	mode := Mode(strings.ToLower(strings.TrimSpace(string(seq.Mode))))
	switch mode {
	case "":
		mode = ModeNarrow
	case ModeNarrow, ModeGate:
	default:
		return nil, fmt.Errorf("unknown sequence mode %q", seq.Mode)
	}
	seq.Mode = mode

	seq.Routes.Only = trimAll(seq.Routes.Only)
	seq.Routes.Exclude = trimAll(seq.Routes.Exclude)

	if len(seq.Messages) == 0 {
		return nil, fmt.Errorf("sequence messages are required")
	}
	for i := range seq.Messages {
		msg := &seq.Messages[i]
		msg.Text = strings.TrimSpace(msg.Text)
		msg.Target = strings.TrimSpace(msg.Target)
		if msg.Text == "" {
			return nil, fmt.Errorf("sequence message %d: text is required", i+1)
		}
	}

	seen := make(map[string]struct{})
	for i := range seq.Variables {
		name := strings.TrimSpace(seq.Variables[i].Name)
		if name == "" {
			return nil, fmt.Errorf("sequence variable name is required")
		}
		if _, exists := seen[name]; exists {
			return nil, fmt.Errorf("duplicate sequence variable %q", name)
		}
		seen[name] = struct{}{}
		seq.Variables[i].Name = name
	}

	return &seq, nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
