package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"eventmanager/internal/domain"
)

type participationService struct {
	tx             domain.Transactor
	eventRepo      domain.EventRepository
	requestRepo    domain.ParticipationRequestRepository
	userRepo       domain.UserRepository
	eventCache     domain.EventCache
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewParticipationService creates a ParticipationService. emailService may be nil.
func NewParticipationService(
	tx domain.Transactor,
	eventRepo domain.EventRepository,
	requestRepo domain.ParticipationRequestRepository,
	userRepo domain.UserRepository,
	eventCache domain.EventCache,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.ParticipationService {
	return &participationService{
		tx:             tx,
		eventRepo:      eventRepo,
		requestRepo:    requestRepo,
		userRepo:       userRepo,
		eventCache:     eventCache,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *participationService) Create(ctx context.Context, requesterID, eventID string) (*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, requesterID); err != nil {
		return nil, wrapErr("get user", err)
	}

	var pr *domain.ParticipationRequest
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		event, err := s.eventRepo.GetByIDForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		if event.State != domain.EventStatePublished {
			return domain.ErrEventNotPublished
		}
		if event.InitiatorID == requesterID {
			return domain.ErrInitiatorRequest
		}
		if event.AtCapacity() {
			return domain.ErrParticipantLimitReached
		}
		exists, err := s.requestRepo.ExistsByRequesterAndEvent(ctx, requesterID, eventID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateRequest
		}

		pr = &domain.ParticipationRequest{
			EventID:     eventID,
			RequesterID: requesterID,
			Status:      domain.RequestStatusPending,
			CreatedAt:   time.Now().UTC(),
		}
		if !event.NeedsModeration() {
			pr.Status = domain.RequestStatusConfirmed
		}
		if err := s.requestRepo.Create(ctx, pr); err != nil {
			return err
		}
		if pr.Status == domain.RequestStatusConfirmed {
			if _, err := s.syncConfirmed(ctx, eventID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapErr("create participation request", err)
	}
	if pr.Status == domain.RequestStatusConfirmed {
		s.invalidate(ctx, eventID)
	}
	return pr, nil
}

func (s *participationService) Cancel(ctx context.Context, requesterID, requestID string) (*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, wrapErr("get participation request", err)
	}
	if existing.RequesterID != requesterID {
		return nil, domain.ErrRequestNotFound
	}

	var pr *domain.ParticipationRequest
	wasConfirmed := false
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.eventRepo.GetByIDForUpdate(ctx, existing.EventID); err != nil {
			return err
		}
		locked, err := s.requestRepo.ListByIDsForUpdate(ctx, []string{requestID})
		if err != nil {
			return err
		}
		if len(locked) == 0 {
			return domain.ErrRequestNotFound
		}
		pr = locked[0]
		wasConfirmed = pr.Status == domain.RequestStatusConfirmed
		if err := s.requestRepo.UpdateStatuses(ctx, []string{requestID}, domain.RequestStatusCanceled); err != nil {
			return err
		}
		pr.Status = domain.RequestStatusCanceled
		if wasConfirmed {
			if _, err := s.syncConfirmed(ctx, pr.EventID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapErr("cancel participation request", err)
	}
	if wasConfirmed {
		s.invalidate(ctx, pr.EventID)
	}
	return pr, nil
}

func (s *participationService) ListByRequester(ctx context.Context, requesterID string) ([]*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, requesterID); err != nil {
		return nil, wrapErr("get user", err)
	}
	requests, err := s.requestRepo.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("list participation requests: %w", err)
	}
	return requests, nil
}

func (s *participationService) ListForEvent(ctx context.Context, initiatorID, eventID string) ([]*domain.ParticipationRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, wrapErr("get event", err)
	}
	if event.InitiatorID != initiatorID {
		return nil, domain.ErrNotInitiator
	}
	requests, err := s.requestRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participation requests: %w", err)
	}
	return requests, nil
}

// UpdateStatuses confirms or rejects a batch of pending requests for an event.
// The event row and the named requests are locked for the whole batch; any
// failure leaves every request untouched.
//
// The target status and a non-empty id list are checked before the event is
// read, so an empty batch is a validation error even for events that need no
// moderation, where a non-empty batch returns two empty lists.
func (s *participationService) UpdateStatuses(ctx context.Context, initiatorID, eventID string, upd domain.StatusUpdate) (*domain.StatusUpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if upd.Status != domain.RequestStatusConfirmed && upd.Status != domain.RequestStatusRejected {
		return nil, domain.ErrInvalidTargetStatus
	}
	ids := uniqueIDs(upd.RequestIDs)
	if len(ids) == 0 {
		return nil, domain.Validationf("request_ids is required")
	}
	if _, err := s.userRepo.GetByID(ctx, initiatorID); err != nil {
		return nil, wrapErr("get user", err)
	}

	var event *domain.Event
	var result *domain.StatusUpdateResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		event, err = s.eventRepo.GetByIDForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		if event.InitiatorID != initiatorID {
			return domain.ErrNotInitiator
		}
		if !event.NeedsModeration() {
			result = domain.NewStatusUpdateResult()
			return nil
		}
		if event.AtCapacity() {
			return domain.ErrParticipantLimitReached
		}

		locked, err := s.requestRepo.ListByIDsForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[string]*domain.ParticipationRequest, len(locked))
		for _, pr := range locked {
			byID[pr.ID] = pr
		}
		ordered := make([]*domain.ParticipationRequest, 0, len(ids))
		for _, id := range ids {
			pr, ok := byID[id]
			if !ok || pr.EventID != eventID {
				return fmt.Errorf("%w: %s", domain.ErrRequestNotFound, id)
			}
			ordered = append(ordered, pr)
		}

		res, err := applyStatusUpdate(ordered, upd.Status, event.ParticipantLimit-event.ConfirmedRequests)
		if err != nil {
			return err
		}
		if err := s.requestRepo.UpdateStatuses(ctx, requestIDs(res.Confirmed), domain.RequestStatusConfirmed); err != nil {
			return err
		}
		if err := s.requestRepo.UpdateStatuses(ctx, requestIDs(res.Rejected), domain.RequestStatusRejected); err != nil {
			return err
		}
		confirmed, err := s.syncConfirmed(ctx, eventID)
		if err != nil {
			return err
		}
		event.ConfirmedRequests = confirmed
		result = res
		return nil
	})
	if err != nil {
		return nil, wrapErr("update request statuses", err)
	}

	if len(result.Confirmed) > 0 || len(result.Rejected) > 0 {
		s.invalidate(ctx, eventID)
		s.notify(ctx, event, result)
	}
	return result, nil
}

// applyStatusUpdate decides the new status of each request in order.
// Every request must be PENDING, otherwise nothing is changed. Confirmations are
// granted while seats remain; the rest are rejected.
func applyStatusUpdate(requests []*domain.ParticipationRequest, target domain.RequestStatus, availableSeats int) (*domain.StatusUpdateResult, error) {
	for _, pr := range requests {
		if pr.Status != domain.RequestStatusPending {
			return nil, fmt.Errorf("%w: %s", domain.ErrRequestNotPending, pr.ID)
		}
	}
	result := domain.NewStatusUpdateResult()
	for _, pr := range requests {
		if target == domain.RequestStatusConfirmed && availableSeats > 0 {
			pr.Status = domain.RequestStatusConfirmed
			result.Confirmed = append(result.Confirmed, pr)
			availableSeats--
			continue
		}
		pr.Status = domain.RequestStatusRejected
		result.Rejected = append(result.Rejected, pr)
	}
	return result, nil
}

// syncConfirmed recomputes the event's confirmed counter from the stored requests.
func (s *participationService) syncConfirmed(ctx context.Context, eventID string) (int, error) {
	n, err := s.requestRepo.CountByEventAndStatus(ctx, eventID, domain.RequestStatusConfirmed)
	if err != nil {
		return 0, fmt.Errorf("count confirmed requests: %w", err)
	}
	if err := s.eventRepo.SetConfirmedRequests(ctx, eventID, n); err != nil {
		return 0, fmt.Errorf("set confirmed requests: %w", err)
	}
	return n, nil
}

func (s *participationService) invalidate(ctx context.Context, eventID string) {
	if s.eventCache == nil {
		return
	}
	if err := s.eventCache.Delete(ctx, eventID); err != nil {
		s.logger.WarnContext(ctx, "event cache invalidation failed", "event_id", eventID, "err", err)
	}
}

// notify emails each requester whose status changed. Failures are logged only.
func (s *participationService) notify(ctx context.Context, event *domain.Event, result *domain.StatusUpdateResult) {
	if s.emailService == nil {
		return
	}
	changed := make([]*domain.ParticipationRequest, 0, len(result.Confirmed)+len(result.Rejected))
	changed = append(changed, result.Confirmed...)
	changed = append(changed, result.Rejected...)
	for _, pr := range changed {
		user, err := s.userRepo.GetByID(ctx, pr.RequesterID)
		if err != nil {
			s.logger.WarnContext(ctx, "status email skipped", "request_id", pr.ID, "err", err)
			continue
		}
		data := &domain.RequestStatusEmailData{
			Email:      user.Email,
			EventTitle: event.Title,
			EventDate:  event.EventDate.Format(time.RFC1123),
			Status:     pr.Status,
		}
		if err := s.emailService.SendRequestStatus(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "status email failed", "request_id", pr.ID, "err", err)
		}
	}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func requestIDs(requests []*domain.ParticipationRequest) []string {
	ids := make([]string, len(requests))
	for i, pr := range requests {
		ids[i] = pr.ID
	}
	return ids
}
