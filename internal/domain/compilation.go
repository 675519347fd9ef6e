package domain

import "context"

// CompilationTitleMaxLength is the maximum length of a compilation title.
const CompilationTitleMaxLength = 50

// Compilation is an admin-curated list of events.
// swagger:model Compilation
type Compilation struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Pinned bool     `json:"pinned"`
	Events []*Event `json:"events"`
}

// NewCompilationInput holds the fields of a compilation being created.
type NewCompilationInput struct {
	Title    string
	Pinned   bool
	EventIDs []string
}

// UpdateCompilationInput is a partial update. A nil EventIDs keeps the current
// events; a non-nil slice replaces them.
type UpdateCompilationInput struct {
	Title    *string
	Pinned   *bool
	EventIDs []string
}

type CompilationRepository interface {
	Create(ctx context.Context, c *Compilation, eventIDs []string) error
	Update(ctx context.Context, c *Compilation) error
	ReplaceEvents(ctx context.Context, compilationID string, eventIDs []string) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Compilation, error)
	List(ctx context.Context, pinned *bool, params PaginationParams) ([]*Compilation, int, error)
	ListEventIDs(ctx context.Context, compilationID string) ([]string, error)
}

type CompilationService interface {
	Create(ctx context.Context, in NewCompilationInput) (*Compilation, error)
	Update(ctx context.Context, id string, in UpdateCompilationInput) (*Compilation, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Compilation, error)
	List(ctx context.Context, pinned *bool, params PaginationParams) ([]*Compilation, int, error)
}
