package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eventmanager/internal/domain"
)

type commentRepository struct {
	DB *sql.DB
}

func NewCommentRepository(db *sql.DB) domain.CommentRepository {
	return &commentRepository{DB: db}
}

func scanComment(s rowScanner) (*domain.Comment, error) {
	c := &domain.Comment{}
	var updated sql.NullTime
	if err := s.Scan(&c.ID, &c.EventID, &c.AuthorID, &c.Message, &c.CreatedAt, &updated); err != nil {
		return nil, err
	}
	if updated.Valid {
		c.UpdatedAt = &updated.Time
	}
	return c, nil
}

func (r *commentRepository) Create(ctx context.Context, c *domain.Comment) error {
	query := `
		INSERT INTO comments (event_id, author_id, message, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return conn(ctx, r.DB).QueryRowContext(ctx, query, c.EventID, c.AuthorID, c.Message, c.CreatedAt).Scan(&c.ID)
}

func (r *commentRepository) Update(ctx context.Context, c *domain.Comment) error {
	result, err := conn(ctx, r.DB).ExecContext(ctx, `UPDATE comments SET message = $1, updated_at = $2 WHERE id = $3`, c.Message, c.UpdatedAt, c.ID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	result, err := conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	query := `SELECT id, event_id, author_id, message, created_at, updated_at FROM comments WHERE id = $1`
	c, err := scanComment(conn(ctx, r.DB).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *commentRepository) ListByEvent(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Comment, int, error) {
	f := &filter{}
	f.add("event_id = ?", eventID)
	return r.list(ctx, f, params)
}

func (r *commentRepository) ListByAuthor(ctx context.Context, authorID string, params domain.PaginationParams) ([]*domain.Comment, int, error) {
	f := &filter{}
	f.add("author_id = ?", authorID)
	return r.list(ctx, f, params)
}

func (r *commentRepository) ListByRange(ctx context.Context, start, end *time.Time, params domain.PaginationParams) ([]*domain.Comment, int, error) {
	f := &filter{}
	if start != nil {
		f.add("created_at >= ?", *start)
	}
	if end != nil {
		f.add("created_at <= ?", *end)
	}
	return r.list(ctx, f, params)
}

func (r *commentRepository) list(ctx context.Context, f *filter, params domain.PaginationParams) ([]*domain.Comment, int, error) {
	q := conn(ctx, r.DB)
	var total int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments`+f.where(), f.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}
	limit, args := f.page(params)
	query := `SELECT id, event_id, author_id, message, created_at, updated_at FROM comments` + f.where() + ` ORDER BY created_at DESC` + limit
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	comments := make([]*domain.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}
