package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventmanager/internal/domain"
)

type compilationService struct {
	tx              domain.Transactor
	compilationRepo domain.CompilationRepository
	eventRepo       domain.EventRepository
	contextTimeout  time.Duration
}

func NewCompilationService(tx domain.Transactor, compilationRepo domain.CompilationRepository, eventRepo domain.EventRepository, timeout time.Duration) domain.CompilationService {
	return &compilationService{
		tx:              tx,
		compilationRepo: compilationRepo,
		eventRepo:       eventRepo,
		contextTimeout:  timeout,
	}
}

func validCompilationTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" || len([]rune(title)) > domain.CompilationTitleMaxLength {
		return "", domain.Validationf("title must be 1..%d characters", domain.CompilationTitleMaxLength)
	}
	return title, nil
}

// checkEvents verifies that every id names an existing event.
func (s *compilationService) checkEvents(ctx context.Context, ids []string) error {
	ids = uniqueIDs(ids)
	events, err := s.eventRepo.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("get events: %w", err)
	}
	if len(events) != len(ids) {
		return domain.ErrEventNotFound
	}
	return nil
}

func (s *compilationService) Create(ctx context.Context, in domain.NewCompilationInput) (*domain.Compilation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	title, err := validCompilationTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if err := s.checkEvents(ctx, in.EventIDs); err != nil {
		return nil, err
	}
	c := &domain.Compilation{Title: title, Pinned: in.Pinned}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.compilationRepo.Create(ctx, c, uniqueIDs(in.EventIDs))
	})
	if err != nil {
		return nil, wrapErr("create compilation", err)
	}
	return s.withEvents(ctx, c)
}

func (s *compilationService) Update(ctx context.Context, id string, in domain.UpdateCompilationInput) (*domain.Compilation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	c, err := s.compilationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapErr("get compilation", err)
	}
	if in.Title != nil {
		title, err := validCompilationTitle(*in.Title)
		if err != nil {
			return nil, err
		}
		c.Title = title
	}
	if in.Pinned != nil {
		c.Pinned = *in.Pinned
	}
	if in.EventIDs != nil {
		if err := s.checkEvents(ctx, in.EventIDs); err != nil {
			return nil, err
		}
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.compilationRepo.Update(ctx, c); err != nil {
			return err
		}
		if in.EventIDs != nil {
			return s.compilationRepo.ReplaceEvents(ctx, id, uniqueIDs(in.EventIDs))
		}
		return nil
	})
	if err != nil {
		return nil, wrapErr("update compilation", err)
	}
	return s.withEvents(ctx, c)
}

func (s *compilationService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.compilationRepo.Delete(ctx, id); err != nil {
		return wrapErr("delete compilation", err)
	}
	return nil
}

func (s *compilationService) GetByID(ctx context.Context, id string) (*domain.Compilation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	c, err := s.compilationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapErr("get compilation", err)
	}
	return s.withEvents(ctx, c)
}

func (s *compilationService) List(ctx context.Context, pinned *bool, params domain.PaginationParams) ([]*domain.Compilation, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	comps, total, err := s.compilationRepo.List(ctx, pinned, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list compilations: %w", err)
	}
	for _, c := range comps {
		if _, err := s.withEvents(ctx, c); err != nil {
			return nil, 0, err
		}
	}
	return comps, total, nil
}

func (s *compilationService) withEvents(ctx context.Context, c *domain.Compilation) (*domain.Compilation, error) {
	ids, err := s.compilationRepo.ListEventIDs(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list compilation events: %w", err)
	}
	events, err := s.eventRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get events: %w", err)
	}
	c.Events = events
	return c, nil
}
