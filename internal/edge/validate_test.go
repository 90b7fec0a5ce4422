package edge

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireValidation(t *testing.T, err error, field string) {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
	assert.Equal(t, field, verr.Field)
}

func TestParseLitterEvent_OK(t *testing.T) {
	raw := []byte(`{
		"pet_id": "pet-1",
		"type": "litter_visit",
		"ts": "2026-02-10T12:00:00Z",
		"duration_s": 200,
		"conf": 0.9,
		"payload": {"sensor": "litter-3"}
	}`)

	ev, err := ParseLitterEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, "pet-1", ev.PetID)
	assert.Equal(t, "litter_visit", ev.Type)
	assert.Equal(t, time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC), ev.TS)
	assert.Equal(t, 200.0, ev.DurationS)
	assert.Equal(t, 0.9, ev.Conf)
	assert.Equal(t, map[string]any{"sensor": "litter-3"}, ev.Payload)
}

func TestParseLitterEvent_PayloadDefaultsEmpty(t *testing.T) {
	raw := []byte(`{"pet_id":"p","type":"feeder_visit","ts":"2026-02-10T12:00:00Z","duration_s":1,"conf":0.5}`)

	ev, err := ParseLitterEvent(raw)
	require.NoError(t, err)
	require.NotNil(t, ev.Payload)
	assert.Empty(t, ev.Payload)
}

func TestParseLitterEvent_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{"json roto", `{"pet_id":`, "(body)"},
		{"pet_id ausente", `{"type":"t","ts":"2026-02-10T12:00:00Z","duration_s":5,"conf":0.5}`, "pet_id"},
		{"pet_id vacío", `{"pet_id":"  ","type":"t","ts":"2026-02-10T12:00:00Z","duration_s":5,"conf":0.5}`, "pet_id"},
		{"type ausente", `{"pet_id":"p","ts":"2026-02-10T12:00:00Z","duration_s":5,"conf":0.5}`, "type"},
		{"ts no RFC3339", `{"pet_id":"p","type":"t","ts":"ayer","duration_s":5,"conf":0.5}`, "ts"},
		{"duration_s ausente", `{"pet_id":"p","type":"t","ts":"2026-02-10T12:00:00Z","conf":0.5}`, "duration_s"},
		{"duration_s negativa", `{"pet_id":"p","type":"t","ts":"2026-02-10T12:00:00Z","duration_s":-1,"conf":0.5}`, "duration_s"},
		{"conf ausente", `{"pet_id":"p","type":"t","ts":"2026-02-10T12:00:00Z","duration_s":5}`, "conf"},
		{"conf con tipo equivocado", `{"pet_id":"p","type":"t","ts":"2026-02-10T12:00:00Z","duration_s":5,"conf":"alta"}`, "conf"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseLitterEvent([]byte(tc.raw))
			requireValidation(t, err, tc.field)
		})
	}
}

func TestParseLitterEvent_ConfOutOfRangeAccepted(t *testing.T) {
	// El rango [0,1] es recomendado; valores fuera de rango se aceptan tal cual.
	raw := []byte(`{"pet_id":"p","type":"t","ts":"2026-02-10T12:00:00Z","duration_s":5,"conf":1.7}`)

	ev, err := ParseLitterEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, 1.7, ev.Conf)
}

func TestParsePlayroomAlert_OK(t *testing.T) {
	raw := []byte(`{
		"pet_id": "pet-2",
		"room_id": "room-9",
		"kind": "rough_play",
		"severity": "high",
		"state": "open",
		"evidence_url": "https://cdn.example.com/clips/abc.mp4",
		"ts": "2026-02-10T12:00:00Z"
	}`)

	al, err := ParsePlayroomAlert(raw)
	require.NoError(t, err)
	assert.Equal(t, "pet-2", al.PetID)
	assert.Equal(t, "room-9", al.RoomID)
	assert.Equal(t, "rough_play", al.Kind)
	assert.Equal(t, "high", al.Severity)
	assert.Equal(t, "open", al.State)
	assert.Equal(t, "https://cdn.example.com/clips/abc.mp4", al.EvidenceURL)
}

func TestParsePlayroomAlert_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{"room_id ausente", `{"pet_id":"p","kind":"k","severity":"low","state":"open","evidence_url":"https://x.test/a","ts":"2026-02-10T12:00:00Z"}`, "room_id"},
		{"evidence_url ausente", `{"pet_id":"p","room_id":"r","kind":"k","severity":"low","state":"open","ts":"2026-02-10T12:00:00Z"}`, "evidence_url"},
		{"evidence_url relativa", `{"pet_id":"p","room_id":"r","kind":"k","severity":"low","state":"open","evidence_url":"/clips/abc.mp4","ts":"2026-02-10T12:00:00Z"}`, "evidence_url"},
		{"evidence_url sin host", `{"pet_id":"p","room_id":"r","kind":"k","severity":"low","state":"open","evidence_url":"file:abc","ts":"2026-02-10T12:00:00Z"}`, "evidence_url"},
		{"ts ausente", `{"pet_id":"p","room_id":"r","kind":"k","severity":"low","state":"open","evidence_url":"https://x.test/a"}`, "ts"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParsePlayroomAlert([]byte(tc.raw))
			requireValidation(t, err, tc.field)
		})
	}
}
