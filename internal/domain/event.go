package domain

import (
	"context"
	"time"
)

// EventState is the moderation lifecycle state of an event.
type EventState string

const (
	EventStatePending   EventState = "PENDING"
	EventStatePublished EventState = "PUBLISHED"
	EventStateCanceled  EventState = "CANCELED"
)

// Valid reports whether s is a known state.
func (s EventState) Valid() bool {
	switch s {
	case EventStatePending, EventStatePublished, EventStateCanceled:
		return true
	}
	return false
}

// StateAction is a requested lifecycle transition carried by an event update.
type StateAction string

const (
	StateActionSendToReview StateAction = "SEND_TO_REVIEW"
	StateActionCancelReview StateAction = "CANCEL_REVIEW"
	StateActionPublishEvent StateAction = "PUBLISH_EVENT"
	StateActionRejectEvent  StateAction = "REJECT_EVENT"
)

// EventSort is the ordering of a public event search.
type EventSort string

const (
	EventSortEventDate EventSort = "EVENT_DATE"
	EventSortID        EventSort = "ID"
)

// Location is a geographic point.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Event is a schedulable activity with a participant limit and a moderation flag.
// ParticipantLimit 0 means unlimited. ConfirmedRequests always equals the number
// of CONFIRMED participation requests for the event.
// swagger:model Event
type Event struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Annotation        string     `json:"annotation"`
	Description       string     `json:"description"`
	CategoryID        string     `json:"category_id"`
	InitiatorID       string     `json:"initiator_id"`
	EventDate         time.Time  `json:"event_date"`
	Location          Location   `json:"location"`
	Paid              bool       `json:"paid"`
	ParticipantLimit  int        `json:"participant_limit"`
	ConfirmedRequests int        `json:"confirmed_requests"`
	RequestModeration bool       `json:"request_moderation"`
	State             EventState `json:"state"`
	CreatedOn         time.Time  `json:"created_on"`
	PublishedOn       *time.Time `json:"published_on,omitempty"`
}

// Unlimited reports whether the event accepts any number of participants.
func (e *Event) Unlimited() bool {
	return e.ParticipantLimit == 0
}

// NeedsModeration reports whether requests must be confirmed by the initiator.
func (e *Event) NeedsModeration() bool {
	return e.RequestModeration && !e.Unlimited()
}

// AtCapacity reports whether the event has no free seats left.
func (e *Event) AtCapacity() bool {
	return !e.Unlimited() && e.ConfirmedRequests >= e.ParticipantLimit
}

// NewEventInput holds the fields of an event being created.
type NewEventInput struct {
	Title             string
	Annotation        string
	Description       string
	CategoryID        string
	EventDate         time.Time
	Location          Location
	Paid              bool
	ParticipantLimit  int
	RequestModeration bool
}

// UpdateEventInput is a partial event update; nil fields are left unchanged.
type UpdateEventInput struct {
	Title             *string
	Annotation        *string
	Description       *string
	CategoryID        *string
	EventDate         *time.Time
	Location          *Location
	Paid              *bool
	ParticipantLimit  *int
	RequestModeration *bool
	StateAction       *StateAction
}

// AdminEventFilter narrows the admin event search. Empty fields do not filter.
type AdminEventFilter struct {
	InitiatorIDs []string
	States       []EventState
	CategoryIDs  []string
	RangeStart   *time.Time
	RangeEnd     *time.Time
}

// PublicEventFilter narrows the public event search over published events.
type PublicEventFilter struct {
	Text          string
	CategoryIDs   []string
	Paid          *bool
	RangeStart    *time.Time
	RangeEnd      *time.Time
	OnlyAvailable bool
	Sort          EventSort
}

// ValidRange reports an error when both ends are set and start is after end.
func ValidRange(start, end *time.Time) error {
	if start != nil && end != nil && start.After(*end) {
		return ErrInvalidRange
	}
	return nil
}

// EventRepository defines storage for events.
// GetByIDForUpdate must run inside a transaction and locks the event row until it ends.
type EventRepository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetByIDForUpdate(ctx context.Context, id string) (*Event, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Event, error)
	Update(ctx context.Context, e *Event) error
	SetConfirmedRequests(ctx context.Context, id string, confirmed int) error
	ListByInitiator(ctx context.Context, initiatorID string, params PaginationParams) ([]*Event, int, error)
	SearchAdmin(ctx context.Context, f AdminEventFilter, params PaginationParams) ([]*Event, int, error)
	SearchPublic(ctx context.Context, f PublicEventFilter, params PaginationParams) ([]*Event, int, error)
}

// EventCache caches published events for public reads.
// Get returns ErrNotFound on a miss.
type EventCache interface {
	Get(ctx context.Context, id string) (*Event, error)
	Set(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id string) error
}

// EventService defines event lifecycle and search operations.
type EventService interface {
	Create(ctx context.Context, initiatorID string, in NewEventInput) (*Event, error)
	GetByInitiator(ctx context.Context, initiatorID, eventID string) (*Event, error)
	ListByInitiator(ctx context.Context, initiatorID string, params PaginationParams) ([]*Event, int, error)
	UpdateByInitiator(ctx context.Context, initiatorID, eventID string, in UpdateEventInput) (*Event, error)
	UpdateByAdmin(ctx context.Context, eventID string, in UpdateEventInput) (*Event, error)
	SearchAdmin(ctx context.Context, f AdminEventFilter, params PaginationParams) ([]*Event, int, error)
	SearchPublic(ctx context.Context, f PublicEventFilter, params PaginationParams) ([]*Event, int, error)
	GetPublished(ctx context.Context, eventID string) (*Event, error)
}
