package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"practica/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, userName, passwordHash string) (*models.User, error) {
	user := &models.User{UserName: userName, PasswordHash: passwordHash}
	query := `
		INSERT INTO users (user_name, password_hash)
		VALUES ($1, $2)
		RETURNING user_id`

	err := r.pool.QueryRow(ctx, query, userName, passwordHash).Scan(&user.UserID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) GetByName(ctx context.Context, userName string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT user_id, user_name, password_hash FROM users WHERE user_name = $1`

	err := r.pool.QueryRow(ctx, query, userName).Scan(&user.UserID, &user.UserName, &user.PasswordHash)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID int32) (*models.User, error) {
	user := &models.User{}
	query := `SELECT user_id, user_name, password_hash FROM users WHERE user_id = $1`

	err := r.pool.QueryRow(ctx, query, userID).Scan(&user.UserID, &user.UserName, &user.PasswordHash)
	if err != nil {
		return nil, err
	}
	return user, nil
}
