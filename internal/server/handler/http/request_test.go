package http

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/atinyakov/zenly/internal/models"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"mood":"calm","intensity":3}`},
		{name: "trailing object", body: `{"mood":"calm","intensity":3}{"mood":"sad"}`, wantErr: "single JSON object"},
		{name: "unknown field", body: `{"mood":"calm","intensity":3,"user_id":"x"}`, wantErr: "unknown field"},
		{name: "wrong type", body: `{"mood":"calm","intensity":"high"}`, wantErr: "invalid request body"},
		{name: "missing required", body: `{"intensity":3}`, wantErr: "mood is required"},
		{name: "out of range", body: `{"mood":"calm","intensity":0}`, wantErr: "intensity is required"},
		{name: "over max", body: `{"mood":"calm","intensity":12}`, wantErr: "intensity fails max=10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			var dst MoodRequest
			err := decode(httptest.NewRecorder(), req, &dst)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, models.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseRange(t *testing.T) {
	req := httptest.NewRequest("GET", "/?from=2026-03-01T00:00:00Z&to=2026-03-31T23:59:59%2B02:00", nil)
	rng, err := parseRange(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rng.From.Day() != 1 || rng.To.IsZero() {
		t.Errorf("unexpected range: %+v", rng)
	}

	rng, err = parseRange(httptest.NewRequest("GET", "/", nil))
	if err != nil || !rng.From.IsZero() || !rng.To.IsZero() {
		t.Errorf("empty query: rng=%+v err=%v", rng, err)
	}

	_, err = parseRange(httptest.NewRequest("GET", "/?to=2026-03-01", nil))
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}
