package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"practica/internal/models"
)

type PracticeSessionRepo struct {
	pool *pgxpool.Pool
}

func NewPracticeSessionRepo(pool *pgxpool.Pool) *PracticeSessionRepo {
	return &PracticeSessionRepo{pool: pool}
}

// SessionFilter narrows a practice-session listing. Zero values are ignored.
type SessionFilter struct {
	PracticeSessionID *int32
	MinDatetime       *models.Datetime
	MaxDatetime       *models.Datetime
	MinDurationMins   *int32
	MaxDurationMins   *int32
	Instrument        string
}

// List returns the user's practice sessions matching the filter, each joined
// with the pieces practiced in it.
func (r *PracticeSessionRepo) List(ctx context.Context, userID int32, filter SessionFilter) ([]models.PracticeSessionWithPieces, error) {
	query := `
		SELECT practice_session_id, start_datetime, duration_mins, instrument, user_id
		FROM practice_sessions
		WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.PracticeSessionID != nil {
		args = append(args, *filter.PracticeSessionID)
		query += fmt.Sprintf(" AND practice_session_id = $%d", len(args))
	}
	if filter.MinDatetime != nil {
		args = append(args, filter.MinDatetime.Time)
		query += fmt.Sprintf(" AND start_datetime >= $%d", len(args))
	}
	if filter.MaxDatetime != nil {
		args = append(args, filter.MaxDatetime.Time)
		query += fmt.Sprintf(" AND start_datetime <= $%d", len(args))
	}
	if filter.MinDurationMins != nil {
		args = append(args, *filter.MinDurationMins)
		query += fmt.Sprintf(" AND duration_mins >= $%d", len(args))
	}
	if filter.MaxDurationMins != nil {
		args = append(args, *filter.MaxDurationMins)
		query += fmt.Sprintf(" AND duration_mins <= $%d", len(args))
	}
	if filter.Instrument != "" {
		args = append(args, filter.Instrument)
		query += fmt.Sprintf(" AND instrument = $%d", len(args))
	}

	query += " ORDER BY practice_session_id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.PracticeSessionWithPieces, 0)
	ids := make([]int32, 0)
	for rows.Next() {
		var s models.PracticeSessionWithPieces
		if err := rows.Scan(&s.PracticeSessionID, &s.StartDatetime.Time, &s.DurationMins, &s.Instrument, &s.UserID); err != nil {
			return nil, err
		}
		s.PiecesPracticed = make([]models.Piece, 0)
		sessions = append(sessions, s)
		ids = append(ids, s.PracticeSessionID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(sessions) == 0 {
		return sessions, nil
	}

	// Attach the pieces practiced in each session.
	pieceRows, err := r.pool.Query(ctx, `
		SELECT pp.practice_session_id, p.piece_id, p.title, p.composer
		FROM pieces_practiced pp
		JOIN pieces p ON p.piece_id = pp.piece_id
		WHERE pp.practice_session_id = ANY($1)
		ORDER BY pp.practice_session_id, p.piece_id`, ids)
	if err != nil {
		return nil, err
	}
	defer pieceRows.Close()

	bySession := make(map[int32][]models.Piece)
	for pieceRows.Next() {
		var sessionID int32
		var p models.Piece
		if err := pieceRows.Scan(&sessionID, &p.PieceID, &p.Title, &p.Composer); err != nil {
			return nil, err
		}
		bySession[sessionID] = append(bySession[sessionID], p)
	}
	if err := pieceRows.Err(); err != nil {
		return nil, err
	}

	for i := range sessions {
		if pieces, ok := bySession[sessions[i].PracticeSessionID]; ok {
			sessions[i].PiecesPracticed = pieces
		}
	}

	return sessions, nil
}

func (r *PracticeSessionRepo) Create(ctx context.Context, userID int32, start models.Datetime, durationMins int32, instrument string) (*models.PracticeSession, error) {
	session := &models.PracticeSession{
		StartDatetime: start,
		DurationMins:  durationMins,
		Instrument:    instrument,
		UserID:        userID,
	}
	query := `
		INSERT INTO practice_sessions (start_datetime, duration_mins, instrument, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING practice_session_id`

	err := r.pool.QueryRow(ctx, query, start.Time, durationMins, instrument, userID).Scan(&session.PracticeSessionID)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// VerifyOwnership confirms the session exists and belongs to the user.
// Returns pgx.ErrNoRows when it does not.
func (r *PracticeSessionRepo) VerifyOwnership(ctx context.Context, sessionID, userID int32) error {
	var owner int32
	return r.pool.QueryRow(ctx, `
		SELECT user_id FROM practice_sessions
		WHERE practice_session_id = $1 AND user_id = $2`, sessionID, userID).Scan(&owner)
}

// Delete removes a practice session and its piece links. Returns the number
// of sessions deleted (0 or 1) and the number of links deleted with it.
func (r *PracticeSessionRepo) Delete(ctx context.Context, sessionID, userID int32) (sessionsDeleted, linksDeleted int64, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback(ctx)

	// Links reference the session, so they go first.
	linkTag, err := tx.Exec(ctx, `
		DELETE FROM pieces_practiced WHERE practice_session_id = $1`, sessionID)
	if err != nil {
		return 0, 0, err
	}

	sessionTag, err := tx.Exec(ctx, `
		DELETE FROM practice_sessions
		WHERE practice_session_id = $1 AND user_id = $2`, sessionID, userID)
	if err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, err
	}

	return sessionTag.RowsAffected(), linkTag.RowsAffected(), nil
}

func (r *PracticeSessionRepo) LinkPiece(ctx context.Context, sessionID, pieceID int32) (*models.PiecePracticed, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO pieces_practiced (practice_session_id, piece_id)
		VALUES ($1, $2)`, sessionID, pieceID)
	if err != nil {
		return nil, err
	}
	return &models.PiecePracticed{PracticeSessionID: sessionID, PieceID: pieceID}, nil
}

// UnlinkPiece removes a piece-practiced link and returns how many rows were
// deleted (0 or 1).
func (r *PracticeSessionRepo) UnlinkPiece(ctx context.Context, sessionID, pieceID int32) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM pieces_practiced
		WHERE practice_session_id = $1 AND piece_id = $2`, sessionID, pieceID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
