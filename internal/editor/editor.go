// Package editor implements the piece-search-and-link workflow: searching the
// piece catalog, building up the set of pieces practiced in a session being
// created, and linking them to the session once it exists.
package editor

import (
	"context"

	"practica/internal/client"
	"practica/internal/models"
)

// Editor manages the pieces pending association with a practice session.
// The pending selection is an ordered sequence, unique by piece ID; order is
// the user's addition order, not catalog order.
type Editor struct {
	api       *client.Client
	catalog   *CatalogCache
	selection []models.Piece
}

func NewEditor(api *client.Client) *Editor {
	return &Editor{api: api, catalog: NewCatalogCache(api)}
}

// SetFilter updates the search filter and refreshes the catalog view.
func (e *Editor) SetFilter(ctx context.Context, composer, title string, onError func(string)) {
	e.catalog.SetFilter(ctx, client.PieceFilter{Composer: composer, Title: title}, onError)
}

// Catalog returns the pieces matching the current filter.
func (e *Editor) Catalog() []models.Piece {
	return e.catalog.Results()
}

// Toggle removes the piece from the pending selection when present, and
// appends it otherwise. Membership is decided by piece ID: a piece re-fetched
// from the server is a different value representing the same entity.
func (e *Editor) Toggle(piece models.Piece) {
	for i, selected := range e.selection {
		if selected.PieceID == piece.PieceID {
			e.selection = append(e.selection[:i], e.selection[i+1:]...)
			return
		}
	}
	e.selection = append(e.selection, piece)
}

// IsSelected reports whether the piece ID is in the pending selection.
func (e *Editor) IsSelected(pieceID int32) bool {
	for _, selected := range e.selection {
		if selected.PieceID == pieceID {
			return true
		}
	}
	return false
}

// Selection returns the pending selection in addition order.
func (e *Editor) Selection() []models.Piece {
	out := make([]models.Piece, len(e.selection))
	copy(out, e.selection)
	return out
}

// Reset clears the pending selection. Called after the session has been
// created and linked, or when the owning form is torn down.
func (e *Editor) Reset() {
	e.selection = nil
}

// CommitLinks issues one link-creation call per selected piece, in selection
// order. The calls are independent best-effort writes: a failure is reported
// through onError but does not abort the remaining calls, and nothing is
// retried or rolled back.
func (e *Editor) CommitLinks(ctx context.Context, practiceSessionID int32, onEachResult func(models.PiecePracticed), onError func(string)) {
	for _, piece := range e.Selection() {
		e.api.CreatePiecePracticed(ctx, practiceSessionID, piece.PieceID, func(linked models.PiecePracticed) {
			if onEachResult != nil {
				onEachResult(linked)
			}
		}, onError)
	}
}
