package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"revisio-backend/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Create inserts the profile row. The id is normally supplied by the caller
// (it comes from the identity token); a zero id gets a fresh one.
func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Spacing == nil {
		u.Spacing = models.DefaultSpacingSettings()
	}

	spacingBytes, err := json.Marshal(u.Spacing)
	if err != nil {
		return fmt.Errorf("failed to marshal spacing settings: %w", err)
	}

	query := `INSERT INTO users (id, email, full_name, spacing_json)
		VALUES ($1, $2, $3, $4) RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		u.ID, u.Email, u.FullName, spacingBytes,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u := &models.User{}
	var spacingBytes []byte

	query := `SELECT id, email, full_name, spacing_json, created_at, updated_at
		FROM users WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.FullName, &spacingBytes, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(spacingBytes, &u.Spacing); err != nil {
		return nil, fmt.Errorf("failed to unmarshal spacing settings: %w", err)
	}
	return u, nil
}

func (r *UserRepo) UpdateSpacing(ctx context.Context, id uuid.UUID, spacing models.SpacingSettings) error {
	spacingBytes, err := json.Marshal(spacing)
	if err != nil {
		return fmt.Errorf("failed to marshal spacing settings: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		"UPDATE users SET spacing_json = $1, updated_at = NOW() WHERE id = $2",
		spacingBytes, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ForEachUserID streams every user id to fn in creation order. The rows are
// iterated one at a time so the daily job never loads the whole user table;
// errors from fn stop the stream.
func (r *UserRepo) ForEachUserID(ctx context.Context, fn func(uuid.UUID) error) error {
	rows, err := r.pool.Query(ctx, "SELECT id FROM users ORDER BY created_at, id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return err
		}
		if err := fn(id); err != nil {
			return err
		}
	}
	return rows.Err()
}
