package db

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aheadhealth/onboard/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	database, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if _, err := database.MigrateUp(context.Background()); err != nil {
		database.Close()
		t.Fatalf("migrate: %v", err)
	}
	return database
}

func newSkipEvent(t *testing.T, source string) *models.Event {
	t.Helper()

	payload, err := json.Marshal(models.OverlaySkippedPayload{Source: source})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return &models.Event{
		Type:       models.EventTypeOverlaySkipped,
		EntityType: models.EntityTypeOverlay,
		EntityID:   source,
		Payload:    payload,
	}
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	applied, err := database.MigrateUp(context.Background())
	if err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if applied != 0 {
		t.Fatalf("expected no pending migrations, got %d", applied)
	}
}

func TestEventRepositoryCreateAndGet(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	repo := NewEventRepository(database)
	ctx := context.Background()

	event := newSkipEvent(t, "Loading")
	event.Timestamp = time.Date(2026, 1, 2, 3, 4, 5, 600, time.FixedZone("x", 3600))
	if err := repo.Create(ctx, event); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if event.ID == "" {
		t.Fatal("expected ID to be assigned")
	}

	got, err := repo.Get(ctx, event.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Type != models.EventTypeOverlaySkipped {
		t.Fatalf("unexpected type %q", got.Type)
	}
	if !got.Timestamp.Equal(event.Timestamp) {
		t.Fatalf("timestamp mismatch: %v != %v", got.Timestamp, event.Timestamp)
	}

	var payload models.OverlaySkippedPayload
	if err := json.Unmarshal(got.Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Source != "Loading" {
		t.Fatalf("unexpected payload source %q", payload.Source)
	}
}

func TestEventRepositoryGetMissing(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	_, err := NewEventRepository(database).Get(context.Background(), "nope")
	if !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestEventRepositoryAppendValidates(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	err := NewEventRepository(database).Append(context.Background(), &models.Event{Type: models.EventTypeTargetMissing})
	if !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent, got %v", err)
	}
}

func TestEventRepositoryQueryKeepsInsertionOrder(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	repo := NewEventRepository(database)
	ctx := context.Background()

	same := time.Now().UTC()
	sources := []string{"c", "a", "b"}
	for _, source := range sources {
		event := newSkipEvent(t, source)
		event.Timestamp = same
		if err := repo.Create(ctx, event); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	eventType := models.EventTypeOverlaySkipped
	page, err := repo.Query(ctx, EventQuery{Type: &eventType, Limit: 2})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(page.Events) != 2 || page.NextCursor == "" {
		t.Fatalf("expected 2 events and a cursor, got %d / %q", len(page.Events), page.NextCursor)
	}

	all, err := repo.ListByType(ctx, eventType)
	if err != nil {
		t.Fatalf("ListByType: %v", err)
	}
	if len(all) != len(sources) {
		t.Fatalf("expected %d events, got %d", len(sources), len(all))
	}
	for i, event := range all {
		if event.EntityID != sources[i] {
			t.Fatalf("event %d: expected %q, got %q", i, sources[i], event.EntityID)
		}
	}
}

func TestEventRepositoryDeleteByType(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	repo := NewEventRepository(database)
	ctx := context.Background()

	if err := repo.Create(ctx, newSkipEvent(t, "Loading")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	missing := &models.Event{
		Type:       models.EventTypeTargetMissing,
		EntityType: models.EntityTypeRegion,
		EntityID:   "nav",
	}
	if err := repo.Create(ctx, missing); err != nil {
		t.Fatalf("Create: %v", err)
	}

	deleted, err := repo.DeleteByType(ctx, models.EventTypeOverlaySkipped)
	if err != nil {
		t.Fatalf("DeleteByType: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted, got %d", deleted)
	}

	left, err := repo.ListByType(ctx, models.EventTypeTargetMissing)
	if err != nil {
		t.Fatalf("ListByType: %v", err)
	}
	if len(left) != 1 {
		t.Fatalf("expected missing-target event to survive, got %d", len(left))
	}
}
