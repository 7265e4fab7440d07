package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"practica/internal/models"
	"practica/internal/repository"
)

type pieceStore interface {
	List(ctx context.Context, filter repository.PieceFilter) ([]models.Piece, error)
	Create(ctx context.Context, newPiece models.NewPiece) (*models.Piece, error)
	Delete(ctx context.Context, pieceID int32) (int64, error)
}

type PieceHandler struct {
	pieces pieceStore
}

func NewPieceHandler(pieces pieceStore) *PieceHandler {
	return &PieceHandler{pieces: pieces}
}

func (h *PieceHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.PieceFilter{
		Title:    r.URL.Query().Get("title"),
		Composer: r.URL.Query().Get("composer"),
	}

	if raw := r.URL.Query().Get("piece_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid value for piece_id")
			return
		}
		pieceID := int32(id)
		filter.PieceID = &pieceID
	}

	pieces, err := h.pieces.List(r.Context(), filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"pieces":  pieces,
	})
}

func (h *PieceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var newPiece models.NewPiece
	if err := json.NewDecoder(r.Body).Decode(&newPiece); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	piece, err := h.pieces.Create(r.Context(), newPiece)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, "That piece is already registered in the database")
			return
		}
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"piece":   piece,
	})
}

func (h *PieceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "pieceID"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid piece ID")
		return
	}

	deleted, err := h.pieces.Delete(r.Context(), int32(id))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     deleted > 0,
		"num_deleted": deleted,
	})
}
