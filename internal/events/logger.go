// Package events records onboarding telemetry: reveal clicks, missing
// overlay targets and overlay skips.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aheadhealth/onboard/internal/models"
)

// Repository is the minimal interface needed to write events.
type Repository interface {
	Create(ctx context.Context, event *models.Event) error
}

// LogRevealClicked persists a reveal click.
func LogRevealClicked(ctx context.Context, repo Repository, click RevealClick) error {
	if click.TargetID == "" {
		return fmt.Errorf("target id is required")
	}
	return create(ctx, repo, models.EventTypeRevealClicked, models.EntityTypePanel, click.TargetID, click.ClickedAt,
		models.RevealClickedPayload{TargetID: click.TargetID, ButtonLabel: click.ButtonLabel})
}

// LogTargetMissing persists a missing overlay target.
func LogTargetMissing(ctx context.Context, repo Repository, missing MissingTarget) error {
	if missing.TargetID == "" {
		return fmt.Errorf("target id is required")
	}
	return create(ctx, repo, models.EventTypeTargetMissing, models.EntityTypeRegion, missing.TargetID, missing.OccurredAt,
		models.TargetMissingPayload{
			Source:       missing.Source,
			TargetID:     missing.TargetID,
			Message:      missing.Message,
			MessageIndex: missing.MessageIndex,
		})
}

// LogOverlaySkipped persists an overlay skip.
func LogOverlaySkipped(ctx context.Context, repo Repository, skip Skip) error {
	if skip.Source == "" {
		return fmt.Errorf("source is required")
	}
	return create(ctx, repo, models.EventTypeOverlaySkipped, models.EntityTypeOverlay, skip.Source, skip.OccurredAt,
		models.OverlaySkippedPayload{Source: skip.Source})
}

func create(ctx context.Context, repo Repository, eventType models.EventType, entityType models.EntityType, entityID string, at time.Time, payload any) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	return repo.Create(ctx, &models.Event{
		Timestamp:  at,
		Type:       eventType,
		EntityType: entityType,
		EntityID:   entityID,
		Payload:    data,
	})
}

// Decode converts a stored event back into its in-memory record. The
// returned value is a RevealClick, MissingTarget or Skip.
func Decode(event *models.Event) (any, error) {
	if event == nil {
		return nil, fmt.Errorf("event is required")
	}
	switch event.Type {
	case models.EventTypeRevealClicked:
		var p models.RevealClickedPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", event.Type, err)
		}
		return RevealClick{TargetID: p.TargetID, ButtonLabel: p.ButtonLabel, ClickedAt: event.Timestamp}, nil
	case models.EventTypeTargetMissing:
		var p models.TargetMissingPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", event.Type, err)
		}
		return MissingTarget{
			Source:       p.Source,
			TargetID:     p.TargetID,
			Message:      p.Message,
			MessageIndex: p.MessageIndex,
			OccurredAt:   event.Timestamp,
		}, nil
	case models.EventTypeOverlaySkipped:
		var p models.OverlaySkippedPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", event.Type, err)
		}
		return Skip{Source: p.Source, OccurredAt: event.Timestamp}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", event.Type)
	}
}
