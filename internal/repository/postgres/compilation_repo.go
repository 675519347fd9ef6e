package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"eventmanager/internal/domain"
)

type compilationRepository struct {
	DB *sql.DB
}

func NewCompilationRepository(db *sql.DB) domain.CompilationRepository {
	return &compilationRepository{DB: db}
}

// Create inserts the compilation and links eventIDs. Call it inside a transaction
// so a failed link leaves no orphan compilation behind.
func (r *compilationRepository) Create(ctx context.Context, c *domain.Compilation, eventIDs []string) error {
	q := conn(ctx, r.DB)
	err := q.QueryRowContext(ctx, `INSERT INTO compilations (title, pinned) VALUES ($1, $2) RETURNING id`, c.Title, c.Pinned).Scan(&c.ID)
	if err != nil {
		return err
	}
	return r.linkEvents(ctx, q, c.ID, eventIDs)
}

func (r *compilationRepository) linkEvents(ctx context.Context, q querier, compilationID string, eventIDs []string) error {
	if len(eventIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO compilation_events (compilation_id, event_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT DO NOTHING
	`
	_, err := q.ExecContext(ctx, query, compilationID, pq.Array(eventIDs))
	return err
}

func (r *compilationRepository) Update(ctx context.Context, c *domain.Compilation) error {
	result, err := conn(ctx, r.DB).ExecContext(ctx, `UPDATE compilations SET title = $1, pinned = $2 WHERE id = $3`, c.Title, c.Pinned, c.ID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrCompilationNotFound
	}
	return nil
}

func (r *compilationRepository) ReplaceEvents(ctx context.Context, compilationID string, eventIDs []string) error {
	q := conn(ctx, r.DB)
	if _, err := q.ExecContext(ctx, `DELETE FROM compilation_events WHERE compilation_id = $1`, compilationID); err != nil {
		return err
	}
	return r.linkEvents(ctx, q, compilationID, eventIDs)
}

func (r *compilationRepository) Delete(ctx context.Context, id string) error {
	result, err := conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM compilations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrCompilationNotFound
	}
	return nil
}

func (r *compilationRepository) GetByID(ctx context.Context, id string) (*domain.Compilation, error) {
	c := &domain.Compilation{}
	err := conn(ctx, r.DB).QueryRowContext(ctx, `SELECT id, title, pinned FROM compilations WHERE id = $1`, id).Scan(&c.ID, &c.Title, &c.Pinned)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCompilationNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *compilationRepository) List(ctx context.Context, pinned *bool, params domain.PaginationParams) ([]*domain.Compilation, int, error) {
	f := &filter{}
	if pinned != nil {
		f.add("pinned = ?", *pinned)
	}
	q := conn(ctx, r.DB)
	var total int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM compilations`+f.where(), f.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count compilations: %w", err)
	}
	limit, args := f.page(params)
	rows, err := q.QueryContext(ctx, `SELECT id, title, pinned FROM compilations`+f.where()+` ORDER BY title`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	comps := make([]*domain.Compilation, 0)
	for rows.Next() {
		c := &domain.Compilation{}
		if err := rows.Scan(&c.ID, &c.Title, &c.Pinned); err != nil {
			return nil, 0, err
		}
		comps = append(comps, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return comps, total, nil
}

func (r *compilationRepository) ListEventIDs(ctx context.Context, compilationID string) ([]string, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx, `SELECT event_id FROM compilation_events WHERE compilation_id = $1`, compilationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
