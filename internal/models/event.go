// Package models defines the persisted telemetry event model.
package models

import (
	"encoding/json"
	"strings"
	"time"
)

// EventType categorizes telemetry events.
type EventType string

const (
	EventTypeRevealClicked  EventType = "reveal.clicked"
	EventTypeTargetMissing  EventType = "target.missing"
	EventTypeOverlaySkipped EventType = "overlay.skipped"
)

// EventTypes lists every telemetry event type in display order.
var EventTypes = []EventType{
	EventTypeRevealClicked,
	EventTypeTargetMissing,
	EventTypeOverlaySkipped,
}

// EntityType identifies what an event relates to.
type EntityType string

const (
	EntityTypePanel   EntityType = "panel"
	EntityTypeOverlay EntityType = "overlay"
	EntityTypeRegion  EntityType = "region"
)

// Event represents an append-only telemetry log entry.
type Event struct {
	// ID is the unique identifier for the event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type categorizes the event.
	Type EventType `json:"type"`

	// EntityType identifies what kind of entity this event relates to.
	EntityType EntityType `json:"entity_type"`

	// EntityID is the panel id, overlay source or region id.
	EntityID string `json:"entity_id"`

	// Payload contains event-specific data.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Validate checks if the event is valid.
func (e *Event) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(string(e.Type)) == "" {
		validation.AddMessage("type", "event type is required")
	}
	if strings.TrimSpace(string(e.EntityType)) == "" {
		validation.AddMessage("entity_type", "entity_type is required")
	}
	if strings.TrimSpace(e.EntityID) == "" {
		validation.AddMessage("entity_id", "entity_id is required")
	}
	return validation.Err()
}

// RevealClickedPayload is the payload for reveal.clicked events.
type RevealClickedPayload struct {
	TargetID    string `json:"target_id"`
	ButtonLabel string `json:"button_label"`
}

// TargetMissingPayload is the payload for target.missing events.
type TargetMissingPayload struct {
	Source       string `json:"source"`
	TargetID     string `json:"target_id"`
	Message      string `json:"message"`
	MessageIndex int    `json:"message_index"`
}

// OverlaySkippedPayload is the payload for overlay.skipped events.
type OverlaySkippedPayload struct {
	Source string `json:"source"`
}
