package sequences

import (
	"fmt"
	"strings"
	"text/template"
)

// Render returns a copy of seq with variables applied to every message
// text. Missing optional variables fall back to their defaults.
func Render(seq *Sequence, vars map[string]string) (*Sequence, error) {
	if seq == nil {
		return nil, fmt.Errorf("sequence is required")
	}

	data := make(map[string]string, len(vars))
	for key, value := range vars {
		data[key] = value
	}

	for _, variable := range seq.Variables {
		value := strings.TrimSpace(data[variable.Name])
		if value == "" {
			if variable.Default != "" {
				data[variable.Name] = variable.Default
				continue
			}
			if variable.Required {
				return nil, fmt.Errorf("missing required variable %q", variable.Name)
			}
		}
	}

	out := *seq
	out.Messages = make([]Message, len(seq.Messages))
	for i, msg := range seq.Messages {
		text, err := renderText(seq.Name, msg.Text, data)
		if err != nil {
			return nil, fmt.Errorf("render sequence %q message %d: %w", seq.Name, i+1, err)
		}
		msg.Text = text
		out.Messages[i] = msg
	}

	return &out, nil
}

func renderText(name, content string, data map[string]string) (string, error) {
	if !strings.Contains(content, "{{") {
		return content, nil
	}

	parsed, err := template.New(name).
		Funcs(template.FuncMap{"default": defaultValue}).
		Option("missingkey=zero").
		Parse(content)
	if err != nil {
		return "", fmt.Errorf("parse template %q: %w", name, err)
	}

	var out strings.Builder
	if err := parsed.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render template %q: %w", name, err)
	}

	return out.String(), nil
}

func defaultValue(def string, value any) string {
	if value == nil {
		return def
	}

	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	default:
		text := strings.TrimSpace(fmt.Sprint(v))
		if text == "" {
			return def
		}
		return text
	}
}
