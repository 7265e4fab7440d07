package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"practica/internal/models"
)

type PieceRepo struct {
	pool *pgxpool.Pool
}

func NewPieceRepo(pool *pgxpool.Pool) *PieceRepo {
	return &PieceRepo{pool: pool}
}

// PieceFilter narrows a piece listing. Title and Composer match as
// case-insensitive substrings; zero values are ignored.
type PieceFilter struct {
	PieceID  *int32
	Title    string
	Composer string
}

func (r *PieceRepo) List(ctx context.Context, filter PieceFilter) ([]models.Piece, error) {
	query := `SELECT piece_id, title, composer FROM pieces`
	conds := []string{}
	args := []interface{}{}

	if filter.PieceID != nil {
		args = append(args, *filter.PieceID)
		conds = append(conds, fmt.Sprintf("piece_id = $%d", len(args)))
	}
	if filter.Title != "" {
		args = append(args, "%"+filter.Title+"%")
		conds = append(conds, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if filter.Composer != "" {
		args = append(args, "%"+filter.Composer+"%")
		conds = append(conds, fmt.Sprintf("composer ILIKE $%d", len(args)))
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY piece_id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pieces := make([]models.Piece, 0)
	for rows.Next() {
		var p models.Piece
		if err := rows.Scan(&p.PieceID, &p.Title, &p.Composer); err != nil {
			return nil, err
		}
		pieces = append(pieces, p)
	}

	return pieces, rows.Err()
}

func (r *PieceRepo) Create(ctx context.Context, newPiece models.NewPiece) (*models.Piece, error) {
	piece := &models.Piece{Title: newPiece.Title, Composer: newPiece.Composer}
	query := `
		INSERT INTO pieces (title, composer)
		VALUES ($1, $2)
		RETURNING piece_id`

	err := r.pool.QueryRow(ctx, query, newPiece.Title, newPiece.Composer).Scan(&piece.PieceID)
	if err != nil {
		return nil, err
	}
	return piece, nil
}

// Delete removes a piece and returns how many rows were deleted (0 or 1).
func (r *PieceRepo) Delete(ctx context.Context, pieceID int32) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pieces WHERE piece_id = $1`, pieceID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
