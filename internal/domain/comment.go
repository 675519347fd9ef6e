package domain

import (
	"context"
	"time"
)

// Comment message length bounds.
const (
	CommentMinLength = 10
	CommentMaxLength = 2000
)

// Comment is a user's remark on a published event.
// swagger:model Comment
type Comment struct {
	ID        string     `json:"id"`
	EventID   string     `json:"event_id"`
	AuthorID  string     `json:"author_id"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type CommentRepository interface {
	Create(ctx context.Context, c *Comment) error
	Update(ctx context.Context, c *Comment) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Comment, error)
	ListByEvent(ctx context.Context, eventID string, params PaginationParams) ([]*Comment, int, error)
	ListByAuthor(ctx context.Context, authorID string, params PaginationParams) ([]*Comment, int, error)
	ListByRange(ctx context.Context, start, end *time.Time, params PaginationParams) ([]*Comment, int, error)
}

type CommentService interface {
	Create(ctx context.Context, authorID, eventID, message string) (*Comment, error)
	Update(ctx context.Context, authorID, commentID, message string) (*Comment, error)
	Delete(ctx context.Context, authorID, commentID string) error
	DeleteByAdmin(ctx context.Context, commentID string) error
	ListByEvent(ctx context.Context, eventID string, params PaginationParams) ([]*Comment, int, error)
	ListByAuthor(ctx context.Context, authorID string, params PaginationParams) ([]*Comment, int, error)
	ListByRange(ctx context.Context, start, end *time.Time, params PaginationParams) ([]*Comment, int, error)
}
