package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventmanager/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	categoryRepo   domain.CategoryRepository
	userRepo       domain.UserRepository
	eventCache     domain.EventCache
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

func NewEventService(eventRepo domain.EventRepository,
	categoryRepo domain.CategoryRepository,
	userRepo domain.UserRepository,
	eventCache domain.EventCache,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		categoryRepo:   categoryRepo,
		userRepo:       userRepo,
		eventCache:     eventCache,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *eventService) Create(ctx context.Context, initiatorID string, in domain.NewEventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, initiatorID); err != nil {
		return nil, wrapErr("get user", err)
	}
	if _, err := s.categoryRepo.GetByID(ctx, in.CategoryID); err != nil {
		return nil, wrapErr("get category", err)
	}
	if !in.EventDate.After(s.now()) {
		return nil, domain.ErrEventDateInPast
	}
	if in.ParticipantLimit < 0 {
		return nil, domain.Validationf("participant_limit must not be negative")
	}

	event := &domain.Event{
		Title:             strings.TrimSpace(in.Title),
		Annotation:        strings.TrimSpace(in.Annotation),
		Description:       strings.TrimSpace(in.Description),
		CategoryID:        in.CategoryID,
		InitiatorID:       initiatorID,
		EventDate:         in.EventDate.UTC(),
		Location:          in.Location,
		Paid:              in.Paid,
		ParticipantLimit:  in.ParticipantLimit,
		RequestModeration: in.RequestModeration,
		State:             domain.EventStatePending,
		CreatedOn:         s.now().UTC(),
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetByInitiator(ctx context.Context, initiatorID, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, wrapErr("get event", err)
	}
	if event.InitiatorID != initiatorID {
		return nil, domain.ErrEventNotFound
	}
	return event, nil
}

func (s *eventService) ListByInitiator(ctx context.Context, initiatorID string, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, total, err := s.eventRepo.ListByInitiator(ctx, initiatorID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

func (s *eventService) UpdateByInitiator(ctx context.Context, initiatorID, eventID string, in domain.UpdateEventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, wrapErr("get event", err)
	}
	if event.InitiatorID != initiatorID {
		return nil, domain.ErrNotInitiator
	}
	if event.State == domain.EventStatePublished {
		return nil, domain.ErrEventPublished
	}
	if in.StateAction != nil {
		switch *in.StateAction {
		case domain.StateActionSendToReview:
			event.State = domain.EventStatePending
		case domain.StateActionCancelReview:
			event.State = domain.EventStateCanceled
		default:
			return nil, domain.ErrInvalidStateAction
		}
	}
	return s.applyAndSave(ctx, event, in)
}

func (s *eventService) UpdateByAdmin(ctx context.Context, eventID string, in domain.UpdateEventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, wrapErr("get event", err)
	}
	if in.StateAction != nil {
		switch *in.StateAction {
		case domain.StateActionPublishEvent:
			if event.State != domain.EventStatePending {
				return nil, fmt.Errorf("%w: only pending events can be published", domain.ErrInvalidStateTransition)
			}
			now := s.now().UTC()
			event.State = domain.EventStatePublished
			event.PublishedOn = &now
		case domain.StateActionRejectEvent:
			if event.State == domain.EventStatePublished {
				return nil, fmt.Errorf("%w: published events cannot be rejected", domain.ErrInvalidStateTransition)
			}
			event.State = domain.EventStateCanceled
		default:
			return nil, domain.ErrInvalidStateAction
		}
	}
	return s.applyAndSave(ctx, event, in)
}

// applyAndSave applies the non-state fields of in to event and persists it.
func (s *eventService) applyAndSave(ctx context.Context, event *domain.Event, in domain.UpdateEventInput) (*domain.Event, error) {
	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		event.Title = strings.TrimSpace(*in.Title)
	}
	if in.Annotation != nil && strings.TrimSpace(*in.Annotation) != "" {
		event.Annotation = strings.TrimSpace(*in.Annotation)
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) != "" {
		event.Description = strings.TrimSpace(*in.Description)
	}
	if in.EventDate != nil {
		if !in.EventDate.After(s.now()) {
			return nil, domain.ErrEventDateInPast
		}
		event.EventDate = in.EventDate.UTC()
	}
	if in.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *in.CategoryID); err != nil {
			return nil, wrapErr("get category", err)
		}
		event.CategoryID = *in.CategoryID
	}
	if in.Location != nil {
		event.Location = *in.Location
	}
	if in.Paid != nil {
		event.Paid = *in.Paid
	}
	if in.ParticipantLimit != nil {
		if *in.ParticipantLimit < 0 {
			return nil, domain.Validationf("participant_limit must not be negative")
		}
		event.ParticipantLimit = *in.ParticipantLimit
	}
	if in.RequestModeration != nil {
		event.RequestModeration = *in.RequestModeration
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, wrapErr("update event", err)
	}
	if err := s.eventCache.Delete(ctx, event.ID); err != nil {
		s.logger.WarnContext(ctx, "event cache invalidation failed", "event_id", event.ID, "err", err)
	}
	return event, nil
}

func (s *eventService) SearchAdmin(ctx context.Context, f domain.AdminEventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := domain.ValidRange(f.RangeStart, f.RangeEnd); err != nil {
		return nil, 0, err
	}
	for _, st := range f.States {
		if !st.Valid() {
			return nil, 0, domain.Validationf("unknown state %q", st)
		}
	}
	events, total, err := s.eventRepo.SearchAdmin(ctx, f, params)
	if err != nil {
		return nil, 0, fmt.Errorf("search events: %w", err)
	}
	return events, total, nil
}

func (s *eventService) SearchPublic(ctx context.Context, f domain.PublicEventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := domain.ValidRange(f.RangeStart, f.RangeEnd); err != nil {
		return nil, 0, err
	}
	switch f.Sort {
	case "", domain.EventSortEventDate, domain.EventSortID:
	default:
		return nil, 0, domain.Validationf("unknown sort %q", f.Sort)
	}
	events, total, err := s.eventRepo.SearchPublic(ctx, f, params)
	if err != nil {
		return nil, 0, fmt.Errorf("search events: %w", err)
	}
	return events, total, nil
}

// GetPublished returns a published event, served from the cache when possible.
func (s *eventService) GetPublished(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	cached, err := s.eventCache.Get(ctx, eventID)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		s.logger.WarnContext(ctx, "event cache read failed", "event_id", eventID, "err", err)
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, wrapErr("get event", err)
	}
	if event.State != domain.EventStatePublished {
		return nil, domain.ErrEventNotFound
	}
	if err := s.eventCache.Set(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "event cache write failed", "event_id", eventID, "err", err)
	}
	return event, nil
}
