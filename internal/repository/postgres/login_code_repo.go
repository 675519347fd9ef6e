package postgres

import (
	"context"
	"database/sql"
	"time"

	"eventmanager/internal/domain"
)

type loginCodeRepository struct {
	DB *sql.DB
}

// NewLoginCodeRepository returns a domain.LoginCodeRepository implemented with Postgres.
func NewLoginCodeRepository(db *sql.DB) domain.LoginCodeRepository {
	return &loginCodeRepository{DB: db}
}

func (r *loginCodeRepository) Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO login_codes (email, code_hash, expires_at)
		VALUES ($1, $2, $3)
	`
	_, err := conn(ctx, r.DB).ExecContext(ctx, query, email, codeHash, expiresAt)
	return err
}

func (r *loginCodeRepository) ListActiveByEmail(ctx context.Context, email string) ([]*domain.LoginCode, error) {
	query := `
		SELECT id, email, code_hash, expires_at FROM login_codes
		WHERE email = $1 AND expires_at > NOW()
		ORDER BY expires_at DESC
	`
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var codes []*domain.LoginCode
	for rows.Next() {
		c := &domain.LoginCode{}
		if err := rows.Scan(&c.ID, &c.Email, &c.CodeHash, &c.ExpiresAt); err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

func (r *loginCodeRepository) Delete(ctx context.Context, id string) error {
	_, err := conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM login_codes WHERE id = $1`, id)
	return err
}
