package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventmanager/internal/domain"
)

type commentService struct {
	commentRepo    domain.CommentRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	contextTimeout time.Duration
}

func NewCommentService(commentRepo domain.CommentRepository, eventRepo domain.EventRepository, userRepo domain.UserRepository, timeout time.Duration) domain.CommentService {
	return &commentService{
		commentRepo:    commentRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		contextTimeout: timeout,
	}
}

func validCommentMessage(message string) (string, error) {
	message = strings.TrimSpace(message)
	n := len([]rune(message))
	if n < domain.CommentMinLength || n > domain.CommentMaxLength {
		return "", domain.Validationf("message must be %d..%d characters", domain.CommentMinLength, domain.CommentMaxLength)
	}
	return message, nil
}

func (s *commentService) Create(ctx context.Context, authorID, eventID, message string) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	message, err := validCommentMessage(message)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, authorID); err != nil {
		return nil, wrapErr("get user", err)
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, wrapErr("get event", err)
	}
	if event.State != domain.EventStatePublished {
		return nil, domain.ErrEventNotFound
	}
	c := &domain.Comment{
		EventID:   eventID,
		AuthorID:  authorID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.commentRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}

func (s *commentService) authored(ctx context.Context, authorID, commentID string) (*domain.Comment, error) {
	c, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, wrapErr("get comment", err)
	}
	if c.AuthorID != authorID {
		return nil, domain.ErrNotAuthor
	}
	return c, nil
}

func (s *commentService) Update(ctx context.Context, authorID, commentID, message string) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	message, err := validCommentMessage(message)
	if err != nil {
		return nil, err
	}
	c, err := s.authored(ctx, authorID, commentID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c.Message = message
	c.UpdatedAt = &now
	if err := s.commentRepo.Update(ctx, c); err != nil {
		return nil, wrapErr("update comment", err)
	}
	return c, nil
}

func (s *commentService) Delete(ctx context.Context, authorID, commentID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.authored(ctx, authorID, commentID); err != nil {
		return err
	}
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return wrapErr("delete comment", err)
	}
	return nil
}

func (s *commentService) DeleteByAdmin(ctx context.Context, commentID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return wrapErr("delete comment", err)
	}
	return nil
}

func (s *commentService) ListByEvent(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Comment, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, 0, wrapErr("get event", err)
	}
	comments, total, err := s.commentRepo.ListByEvent(ctx, eventID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	return comments, total, nil
}

func (s *commentService) ListByAuthor(ctx context.Context, authorID string, params domain.PaginationParams) ([]*domain.Comment, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	comments, total, err := s.commentRepo.ListByAuthor(ctx, authorID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	return comments, total, nil
}

func (s *commentService) ListByRange(ctx context.Context, start, end *time.Time, params domain.PaginationParams) ([]*domain.Comment, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := domain.ValidRange(start, end); err != nil {
		return nil, 0, err
	}
	comments, total, err := s.commentRepo.ListByRange(ctx, start, end, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	return comments, total, nil
}
