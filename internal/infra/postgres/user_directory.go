package postgres

import (
	"context"
	"errors"
	"fmt"

	"assessment-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// UserDirectory resolves respondent profiles from the users table. A missing
// user is not an error; the caller falls back to blank profile fields.
type UserDirectory struct {
	pool *pgxpool.Pool
}

func NewUserDirectory(pool *pgxpool.Pool) *UserDirectory {
	return &UserDirectory{pool: pool}
}

func (d *UserDirectory) FindByEmail(ctx context.Context, email string) (domain.Profile, bool, error) {
	var p domain.Profile
	err := d.pool.QueryRow(ctx,
		`SELECT COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(gender, ''), email
		 FROM users WHERE email = $1`,
		email,
	).Scan(&p.FirstName, &p.LastName, &p.Gender, &p.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{}, false, nil
	}
	if err != nil {
		return domain.Profile{}, false, fmt.Errorf("find user by email: %w", err)
	}
	return p, true, nil
}
