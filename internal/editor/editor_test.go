package editor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"practica/internal/client"
	"practica/internal/models"
)

// catalogServer serves a fixed piece catalog and counts search and link
// requests.
type catalogServer struct {
	pieces       []models.Piece
	searchCalls  int
	linkCalls    int
	linkedPieces []models.PiecePracticed
}

func (s *catalogServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/get_pieces", func(w http.ResponseWriter, r *http.Request) {
		s.searchCalls++
		composer := strings.ToLower(r.URL.Query().Get("composer"))
		title := strings.ToLower(r.URL.Query().Get("title"))

		var matched []models.Piece
		for _, piece := range s.pieces {
			if composer != "" && !strings.Contains(strings.ToLower(piece.Composer), composer) {
				continue
			}
			if title != "" && !strings.Contains(strings.ToLower(piece.Title), title) {
				continue
			}
			matched = append(matched, piece)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "pieces": matched})
	})
	mux.HandleFunc("/api/create_piece_practiced", func(w http.ResponseWriter, r *http.Request) {
		s.linkCalls++
		var mapping models.PiecePracticed
		json.NewDecoder(r.Body).Decode(&mapping)
		s.linkedPieces = append(s.linkedPieces, mapping)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "piece_practiced": mapping})
	})
	return mux
}

func newTestEditor(t *testing.T, backend *catalogServer) (*Editor, *catalogServer) {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	return NewEditor(client.New(server.URL)), backend
}

func TestSearchFiltersCatalog(t *testing.T) {
	editor, backend := newTestEditor(t, &catalogServer{pieces: []models.Piece{
		{PieceID: 1, Composer: "Bach", Title: "Fugue"},
		{PieceID: 2, Composer: "Chopin", Title: "Nocturne"},
	}})

	editor.SetFilter(context.Background(), "Bach", "", func(msg string) {
		t.Fatalf("unexpected error: %s", msg)
	})

	catalog := editor.Catalog()
	if len(catalog) != 1 {
		t.Fatalf("expected 1 match, got %d", len(catalog))
	}
	if catalog[0].PieceID != 1 || catalog[0].Composer != "Bach" || catalog[0].Title != "Fugue" {
		t.Errorf("unexpected match: %+v", catalog[0])
	}
	if backend.searchCalls != 1 {
		t.Errorf("expected 1 search request, got %d", backend.searchCalls)
	}
}

func TestEmptyFilterIssuesNoRequest(t *testing.T) {
	editor, backend := newTestEditor(t, &catalogServer{pieces: []models.Piece{
		{PieceID: 1, Composer: "Bach", Title: "Fugue"},
	}})

	editor.SetFilter(context.Background(), "Bach", "", func(msg string) {
		t.Fatalf("unexpected error: %s", msg)
	})
	editor.SetFilter(context.Background(), "", "", func(msg string) {
		t.Fatalf("unexpected error: %s", msg)
	})

	if len(editor.Catalog()) != 0 {
		t.Errorf("expected an empty catalog, got %v", editor.Catalog())
	}
	if backend.searchCalls != 1 {
		t.Errorf("expected only the non-empty filter to issue a request, got %d", backend.searchCalls)
	}
}

func TestToggleIsIdempotentInPairs(t *testing.T) {
	editor, _ := newTestEditor(t, &catalogServer{})
	piece := models.Piece{PieceID: 1, Composer: "Bach", Title: "Fugue"}

	editor.Toggle(piece)
	if !editor.IsSelected(1) {
		t.Fatal("expected piece to be selected after first toggle")
	}

	editor.Toggle(piece)
	if editor.IsSelected(1) {
		t.Fatal("expected piece to be deselected after second toggle")
	}
	if len(editor.Selection()) != 0 {
		t.Errorf("expected empty selection, got %v", editor.Selection())
	}
}

func TestToggleMatchesByID(t *testing.T) {
	editor, _ := newTestEditor(t, &catalogServer{})

	editor.Toggle(models.Piece{PieceID: 1, Composer: "Bach", Title: "Fugue"})
	// The same entity re-fetched from the server is still the same selection.
	editor.Toggle(models.Piece{PieceID: 1, Composer: "Bach", Title: "Fugue"})

	if len(editor.Selection()) != 0 {
		t.Errorf("expected empty selection, got %v", editor.Selection())
	}
}

func TestSelectionKeepsAdditionOrder(t *testing.T) {
	editor, _ := newTestEditor(t, &catalogServer{})

	editor.Toggle(models.Piece{PieceID: 3})
	editor.Toggle(models.Piece{PieceID: 1})
	editor.Toggle(models.Piece{PieceID: 2})

	selection := editor.Selection()
	wantOrder := []int32{3, 1, 2}
	for i, want := range wantOrder {
		if selection[i].PieceID != want {
			t.Fatalf("expected order %v, got %v", wantOrder, selection)
		}
	}
}

func TestCommitLinksOnePerSelectedPiece(t *testing.T) {
	editor, backend := newTestEditor(t, &catalogServer{})

	editor.Toggle(models.Piece{PieceID: 4})
	editor.Toggle(models.Piece{PieceID: 9})

	editor.CommitLinks(context.Background(), 5, nil, func(msg string) {
		t.Fatalf("unexpected error: %s", msg)
	})

	if backend.linkCalls != 2 {
		t.Fatalf("expected 2 link requests, got %d", backend.linkCalls)
	}
	for i, want := range []int32{4, 9} {
		linked := backend.linkedPieces[i]
		if linked.PracticeSessionID != 5 || linked.PieceID != want {
			t.Errorf("link %d: expected session 5 piece %d, got %+v", i, want, linked)
		}
	}
}
