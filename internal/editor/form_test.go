package editor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"practica/internal/client"
	"practica/internal/models"
)

// formServer backs SessionForm tests: it records the create and link requests
// and can be told to reject the create.
type formServer struct {
	createCalls int
	linkCalls   int
	links       []models.PiecePracticed
	rejectWith  string
	sessionID   int32
}

func (s *formServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/create_practice_session", func(w http.ResponseWriter, r *http.Request) {
		s.createCalls++
		if s.rejectWith != "" {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": s.rejectWith})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":          true,
			"practice_session": models.PracticeSession{PracticeSessionID: s.sessionID},
		})
	})
	mux.HandleFunc("/api/create_piece_practiced", func(w http.ResponseWriter, r *http.Request) {
		s.linkCalls++
		var mapping models.PiecePracticed
		json.NewDecoder(r.Body).Decode(&mapping)
		s.links = append(s.links, mapping)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "piece_practiced": mapping})
	})
	mux.HandleFunc("/api/get_practice_sessions", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":           true,
			"practice_sessions": []models.PracticeSessionWithPieces{},
		})
	})
	return mux
}

func newTestForm(t *testing.T, backend *formServer) *SessionForm {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	api := client.New(server.URL)
	return NewSessionForm(api, NewEditor(api))
}

func TestSubmitRejectsInvalidFormWithoutRequests(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		duration int
		inst     string
		want     string
	}{
		{"zero duration", "2024-01-01T10:00", 0, "piano", "Invalid duration"},
		{"negative duration", "2024-01-01T10:00", -10, "piano", "Invalid duration"},
		{"bad datetime", "next tuesday", 30, "piano", "Invalid start datetime"},
		{"seconds not accepted", "2024-01-01T10:00:00", 30, "piano", "Invalid start datetime"},
		{"missing instrument", "2024-01-01T10:00", 30, "", "Invalid instrument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &formServer{sessionID: 1}
			form := newTestForm(t, backend)
			form.StartDatetime = tt.start
			form.DurationMins = tt.duration
			form.Instrument = tt.inst

			var gotErr string
			form.Submit(context.Background(), func([]models.PracticeSessionWithPieces) {
				t.Fatal("unexpected success")
			}, func(msg string) {
				gotErr = msg
			})

			if gotErr != tt.want {
				t.Errorf("expected %q, got %q", tt.want, gotErr)
			}
			if backend.createCalls != 0 {
				t.Errorf("expected no create request, got %d", backend.createCalls)
			}
			if form.State() != StateIdle {
				t.Errorf("expected idle state, got %v", form.State())
			}
		})
	}
}

func TestSubmitLinksSelectedPieces(t *testing.T) {
	backend := &formServer{sessionID: 5}
	form := newTestForm(t, backend)
	form.StartDatetime = "2024-01-01T10:00"
	form.DurationMins = 45
	form.Instrument = "piano"
	form.Editor().Toggle(models.Piece{PieceID: 2})
	form.Editor().Toggle(models.Piece{PieceID: 7})

	succeeded := false
	form.Submit(context.Background(), func([]models.PracticeSessionWithPieces) {
		succeeded = true
	}, func(msg string) {
		t.Fatalf("unexpected error: %s", msg)
	})

	if !succeeded {
		t.Fatal("expected the success callback to run")
	}
	if backend.linkCalls != 2 {
		t.Fatalf("expected 2 link requests, got %d", backend.linkCalls)
	}
	for i, want := range []int32{2, 7} {
		if backend.links[i].PracticeSessionID != 5 || backend.links[i].PieceID != want {
			t.Errorf("link %d: expected session 5 piece %d, got %+v", i, want, backend.links[i])
		}
	}

	// The form and the selection reset for the next entry.
	if form.StartDatetime != "" || form.DurationMins != 0 || form.Instrument != "" {
		t.Errorf("expected cleared form, got %q %d %q", form.StartDatetime, form.DurationMins, form.Instrument)
	}
	if len(form.Editor().Selection()) != 0 {
		t.Errorf("expected cleared selection, got %v", form.Editor().Selection())
	}
	if form.State() != StateIdle {
		t.Errorf("expected idle state, got %v", form.State())
	}
}

func TestSubmitCreateFailureKeepsFormState(t *testing.T) {
	backend := &formServer{rejectWith: "A practice session at that time already exists"}
	form := newTestForm(t, backend)
	form.StartDatetime = "2024-01-01T10:00"
	form.DurationMins = 45
	form.Instrument = "piano"
	form.Editor().Toggle(models.Piece{PieceID: 2})

	var gotErr string
	form.Submit(context.Background(), func([]models.PracticeSessionWithPieces) {
		t.Fatal("unexpected success")
	}, func(msg string) {
		gotErr = msg
	})

	if gotErr != "Failed to add practice session: A practice session at that time already exists" {
		t.Errorf("unexpected error: %q", gotErr)
	}
	if backend.linkCalls != 0 {
		t.Errorf("expected no link requests, got %d", backend.linkCalls)
	}
	if form.StartDatetime != "2024-01-01T10:00" || form.DurationMins != 45 || form.Instrument != "piano" {
		t.Errorf("expected form state preserved, got %q %d %q", form.StartDatetime, form.DurationMins, form.Instrument)
	}
	if len(form.Editor().Selection()) != 1 {
		t.Errorf("expected selection preserved, got %v", form.Editor().Selection())
	}
	if form.State() != StateIdle {
		t.Errorf("expected idle state, got %v", form.State())
	}
}
