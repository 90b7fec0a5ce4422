package alerts

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testRepo struct {
	rows []Alert
}

func (r *testRepo) Create(ctx context.Context, a Alert) error {
	if a.ID == "" {
		return errors.New("repo: id required")
	}
	r.rows = append(r.rows, a)
	return nil
}

func (r *testRepo) ListRecent(ctx context.Context, limit int) ([]Alert, error) {
	out := make([]Alert, len(r.rows))
	copy(out, r.rows)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func TestService_CreateFromEvent_SynthesizesOpenAlert(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)

	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	a, err := svc.CreateFromEvent(context.Background(), "pet-1", KindLitterAnomaly, SeverityHigh)
	if err != nil {
		t.Fatalf("CreateFromEvent returned error: %v", err)
	}
	if a.State != StateOpen {
		t.Fatalf("expected state open, got %s", a.State)
	}
	if a.TS != now {
		t.Fatalf("expected ts=now, got %v", a.TS)
	}
	if a.RoomID != "" || a.EvidenceURL != "" {
		t.Fatalf("derived alert must not carry room/evidence, got %#v", a)
	}
	if a.Kind != KindLitterAnomaly {
		t.Fatalf("expected kind %s, got %s", KindLitterAnomaly, a.Kind)
	}
}

func TestService_CreateFromEvent_RejectsInvalid(t *testing.T) {
	svc := NewService(&testRepo{})

	if _, err := svc.CreateFromEvent(context.Background(), "", KindLitterAnomaly, SeverityHigh); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty pet, got %v", err)
	}
	// Severidad low no existe para alertas derivadas.
	if _, err := svc.CreateFromEvent(context.Background(), "pet-1", KindLitterAnomaly, SeverityLow); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for low severity, got %v", err)
	}
}

func TestService_Record_PreservesReportedFields(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)

	ts := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	a, err := svc.Record(context.Background(), RecordInput{
		PetID:       "pet-2",
		RoomID:      "room-1",
		Kind:        "rough_play",
		Severity:    "high",
		State:       "open",
		EvidenceURL: "https://cdn.example.com/clip.mp4",
		TS:          ts,
	})
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if a.RoomID != "room-1" || a.Kind != "rough_play" || a.Severity != SeverityHigh {
		t.Fatalf("expected reported fields preserved, got %#v", a)
	}
	if a.TS != ts {
		t.Fatalf("expected reported ts preserved, got %v", a.TS)
	}
}
