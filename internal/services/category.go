package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventmanager/internal/domain"
)

type categoryService struct {
	categoryRepo   domain.CategoryRepository
	contextTimeout time.Duration
}

func NewCategoryService(categoryRepo domain.CategoryRepository, timeout time.Duration) domain.CategoryService {
	return &categoryService{categoryRepo: categoryRepo, contextTimeout: timeout}
}

func validCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.Validationf("name is required")
	}
	if len([]rune(name)) > domain.CategoryNameMaxLength {
		return "", domain.Validationf("name must be at most %d characters", domain.CategoryNameMaxLength)
	}
	return name, nil
}

func (s *categoryService) Create(ctx context.Context, name string) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name, err := validCategoryName(name)
	if err != nil {
		return nil, err
	}
	c := &domain.Category{Name: name}
	if err := s.categoryRepo.Create(ctx, c); err != nil {
		return nil, wrapErr("create category", err)
	}
	return c, nil
}

func (s *categoryService) Update(ctx context.Context, id, name string) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name, err := validCategoryName(name)
	if err != nil {
		return nil, err
	}
	c := &domain.Category{ID: id, Name: name}
	if err := s.categoryRepo.Update(ctx, c); err != nil {
		return nil, wrapErr("update category", err)
	}
	return c, nil
}

func (s *categoryService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	inUse, err := s.categoryRepo.HasEvents(ctx, id)
	if err != nil {
		return fmt.Errorf("check category events: %w", err)
	}
	if inUse {
		return domain.ErrCategoryInUse
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return wrapErr("delete category", err)
	}
	return nil
}

func (s *categoryService) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	c, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapErr("get category", err)
	}
	return c, nil
}

func (s *categoryService) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Category, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	categories, total, err := s.categoryRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	return categories, total, nil
}
