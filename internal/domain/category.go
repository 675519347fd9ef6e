package domain

import "context"

// CategoryNameMaxLength is the maximum length of a category name.
const CategoryNameMaxLength = 50

// Category groups events.
// swagger:model Category
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context, params PaginationParams) ([]*Category, int, error)
	HasEvents(ctx context.Context, id string) (bool, error)
}

type CategoryService interface {
	Create(ctx context.Context, name string) (*Category, error)
	Update(ctx context.Context, id, name string) (*Category, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context, params PaginationParams) ([]*Category, int, error)
}
