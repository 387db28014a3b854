package cookies

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"time"
)

const (
	// Retention is how long completion and reveal cookies live.
	Retention = 365 * 24 * time.Hour

	// RevealedCookie stores the ids of panels the user chose to reveal.
	RevealedCookie = "revealed_elements"

	completedValue = "true"
)

// Gate answers whether an onboarding flow already ran and which panels were
// revealed. Storage failures never surface: an unreadable or disabled jar
// means "not completed" and "nothing revealed".
type Gate struct {
	jar *Jar
}

// NewGate wraps jar.
func NewGate(jar *Jar) *Gate {
	return &Gate{jar: jar}
}

// Jar returns the underlying jar.
func (g *Gate) Jar() *Jar {
	return g.jar
}

// HasCompleted reports whether the completion cookie name is set.
func (g *Gate) HasCompleted(name string) bool {
	value, err := g.jar.Get(name)
	if err != nil {
		g.logUnavailable(err, name, "completion state unavailable")
		return false
	}
	return value == completedValue
}

// MarkCompleted records completion for one year.
func (g *Gate) MarkCompleted(name string) {
	if err := g.jar.Set(name, completedValue, Retention); err != nil {
		g.logUnavailable(err, name, "failed to record completion")
	}
}

// Reset forgets a completion cookie.
func (g *Gate) Reset(name string) error {
	return g.jar.Delete(name)
}

// RevealedIDs returns the persisted reveal list, deduplicated and without
// blank entries. A malformed cookie reads as empty.
func (g *Gate) RevealedIDs() []string {
	value, err := g.jar.Get(RevealedCookie)
	if err != nil {
		g.logUnavailable(err, RevealedCookie, "reveal state unavailable")
		return nil
	}
	return parseRevealed(value)
}

// IsRevealed reports whether id is in the reveal list.
func (g *Gate) IsRevealed(id string) bool {
	return slices.Contains(g.RevealedIDs(), strings.TrimSpace(id))
}

// MarkRevealed appends id to the reveal list. Blank ids are ignored.
func (g *Gate) MarkRevealed(id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	ids := g.RevealedIDs()
	if slices.Contains(ids, id) {
		return
	}
	ids = append(ids, id)

	raw, err := json.Marshal(ids)
	if err != nil {
		g.jar.logger.Warn().Err(err).Msg("failed to encode reveal list")
		return
	}
	if err := g.jar.Set(RevealedCookie, string(raw), Retention); err != nil {
		g.logUnavailable(err, RevealedCookie, "failed to record reveal")
	}
}

// ClearRevealed forgets every revealed panel.
func (g *Gate) ClearRevealed() error {
	return g.jar.Delete(RevealedCookie)
}

func (g *Gate) logUnavailable(err error, name, msg string) {
	switch {
	case errors.Is(err, ErrNoCookie):
		return
	case errors.Is(err, ErrDisabled):
		g.jar.logger.Debug().Str("cookie", name).Msg(msg)
	default:
		g.jar.logger.Warn().Err(err).Str("cookie", name).Msg(msg)
	}
}

// parseRevealed decodes a JSON array keeping only non-blank strings.
func parseRevealed(value string) []string {
	var raw []any
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return nil
	}
	ids := make([]string, 0, len(raw))
	for _, item := range raw {
		id, ok := item.(string)
		if !ok {
			continue
		}
		id = strings.TrimSpace(id)
		if id == "" || slices.Contains(ids, id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
