package domain

import (
	"context"
	"time"
)

// RequestStatus is the status of a participation request.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusConfirmed RequestStatus = "CONFIRMED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCanceled  RequestStatus = "CANCELED"
)

// ParticipationRequest is a user's application to attend an event.
// swagger:model ParticipationRequest
type ParticipationRequest struct {
	ID          string        `json:"id"`
	EventID     string        `json:"event_id"`
	RequesterID string        `json:"requester_id"`
	Status      RequestStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// StatusUpdate asks to move the named pending requests to Status.
type StatusUpdate struct {
	RequestIDs []string
	Status     RequestStatus
}

// StatusUpdateResult lists the requests a batch confirmed and rejected, in processing order.
// swagger:model StatusUpdateResult
type StatusUpdateResult struct {
	Confirmed []*ParticipationRequest `json:"confirmed_requests"`
	Rejected  []*ParticipationRequest `json:"rejected_requests"`
}

// NewStatusUpdateResult returns a result with empty, non-nil lists.
func NewStatusUpdateResult() *StatusUpdateResult {
	return &StatusUpdateResult{
		Confirmed: []*ParticipationRequest{},
		Rejected:  []*ParticipationRequest{},
	}
}

// ParticipationRequestRepository defines storage for participation requests.
// ListByIDsForUpdate must run inside a transaction.
type ParticipationRequestRepository interface {
	Create(ctx context.Context, pr *ParticipationRequest) error
	GetByID(ctx context.Context, id string) (*ParticipationRequest, error)
	ListByIDsForUpdate(ctx context.Context, ids []string) ([]*ParticipationRequest, error)
	ListByEvent(ctx context.Context, eventID string) ([]*ParticipationRequest, error)
	ListByRequester(ctx context.Context, requesterID string) ([]*ParticipationRequest, error)
	ExistsByRequesterAndEvent(ctx context.Context, requesterID, eventID string) (bool, error)
	UpdateStatuses(ctx context.Context, ids []string, status RequestStatus) error
	CountByEventAndStatus(ctx context.Context, eventID string, status RequestStatus) (int, error)
}

// ParticipationService covers participation requests from both sides:
// requesters creating and canceling them, initiators reviewing them.
type ParticipationService interface {
	Create(ctx context.Context, requesterID, eventID string) (*ParticipationRequest, error)
	Cancel(ctx context.Context, requesterID, requestID string) (*ParticipationRequest, error)
	ListByRequester(ctx context.Context, requesterID string) ([]*ParticipationRequest, error)
	ListForEvent(ctx context.Context, initiatorID, eventID string) ([]*ParticipationRequest, error)
	UpdateStatuses(ctx context.Context, initiatorID, eventID string, upd StatusUpdate) (*StatusUpdateResult, error)
}
