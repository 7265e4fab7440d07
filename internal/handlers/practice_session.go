package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"practica/internal/middleware"
	"practica/internal/models"
	"practica/internal/repository"
)

type practiceSessionStore interface {
	List(ctx context.Context, userID int32, filter repository.SessionFilter) ([]models.PracticeSessionWithPieces, error)
	Create(ctx context.Context, userID int32, start models.Datetime, durationMins int32, instrument string) (*models.PracticeSession, error)
	VerifyOwnership(ctx context.Context, sessionID, userID int32) error
	Delete(ctx context.Context, sessionID, userID int32) (sessionsDeleted, linksDeleted int64, err error)
	LinkPiece(ctx context.Context, sessionID, pieceID int32) (*models.PiecePracticed, error)
	UnlinkPiece(ctx context.Context, sessionID, pieceID int32) (int64, error)
}

type PracticeSessionHandler struct {
	sessions practiceSessionStore
}

func NewPracticeSessionHandler(sessions practiceSessionStore) *PracticeSessionHandler {
	return &PracticeSessionHandler{sessions: sessions}
}

func (h *PracticeSessionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	filter, errMsg := parseSessionFilter(r)
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	sessions, err := h.sessions.List(r.Context(), userID, filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":           true,
		"practice_sessions": sessions,
	})
}

func (h *PracticeSessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.NewPracticeSession
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg := req.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	start, err := models.ParseDatetime(req.StartDatetime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start datetime")
		return
	}

	session, err := h.sessions.Create(r.Context(), userID, start, int32(req.DurationMins), req.Instrument)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, "A practice session at that time already exists")
			return
		}
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"practice_session": session,
	})
}

func (h *PracticeSessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "practiceSessionID"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid practice session ID")
		return
	}
	sessionID := int32(id)

	if err := h.sessions.VerifyOwnership(r.Context(), sessionID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "Practice session not found")
			return
		}
		handleServiceError(w, err)
		return
	}

	sessionsDeleted, linksDeleted, err := h.sessions.Delete(r.Context(), sessionID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":                           sessionsDeleted > 0,
		"num_deleted":                       sessionsDeleted,
		"pieces_practiced_mappings_deleted": linksDeleted,
	})
}

func (h *PracticeSessionHandler) LinkPiece(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var mapping models.PiecePracticed
	if err := json.NewDecoder(r.Body).Decode(&mapping); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.sessions.VerifyOwnership(r.Context(), mapping.PracticeSessionID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "Practice session not found")
			return
		}
		handleServiceError(w, err)
		return
	}

	linked, err := h.sessions.LinkPiece(r.Context(), mapping.PracticeSessionID, mapping.PieceID)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, "Entry already exists")
			return
		}
		// Session existence was just verified, so a foreign key violation can
		// only mean the piece is missing.
		if repository.IsForeignKeyViolation(err) {
			writeError(w, http.StatusBadRequest, "Piece not found")
			return
		}
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"piece_practiced": linked,
	})
}

func (h *PracticeSessionHandler) UnlinkPiece(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	sessionID, err := strconv.ParseInt(chi.URLParam(r, "practiceSessionID"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid practice session ID")
		return
	}
	pieceID, err := strconv.ParseInt(chi.URLParam(r, "pieceID"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid piece ID")
		return
	}

	if err := h.sessions.VerifyOwnership(r.Context(), int32(sessionID), userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "Practice session not found")
			return
		}
		handleServiceError(w, err)
		return
	}

	deleted, err := h.sessions.UnlinkPiece(r.Context(), int32(sessionID), int32(pieceID))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     deleted > 0,
		"num_deleted": deleted,
	})
}

func parseSessionFilter(r *http.Request) (repository.SessionFilter, string) {
	var filter repository.SessionFilter
	q := r.URL.Query()

	if raw := q.Get("practice_session_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return filter, "Invalid value for practice_session_id"
		}
		v := int32(id)
		filter.PracticeSessionID = &v
	}
	if raw := q.Get("min_datetime"); raw != "" {
		dt, err := models.ParseDatetime(raw)
		if err != nil {
			return filter, "Invalid value for min_datetime"
		}
		filter.MinDatetime = &dt
	}
	if raw := q.Get("max_datetime"); raw != "" {
		dt, err := models.ParseDatetime(raw)
		if err != nil {
			return filter, "Invalid value for max_datetime"
		}
		filter.MaxDatetime = &dt
	}
	if raw := q.Get("min_duration_mins"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || n < 0 {
			return filter, "Invalid value for min_duration_mins"
		}
		v := int32(n)
		filter.MinDurationMins = &v
	}
	if raw := q.Get("max_duration_mins"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || n < 0 {
			return filter, "Invalid value for max_duration_mins"
		}
		v := int32(n)
		filter.MaxDurationMins = &v
	}
	filter.Instrument = q.Get("instrument")

	return filter, ""
}
