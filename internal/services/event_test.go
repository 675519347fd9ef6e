package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmanager/internal/domain"
)

func newTestEventService(events *fakeEventRepo, cache *fakeEventCache) *eventService {
	users := newFakeUserRepo(&domain.User{ID: initiatorID}, &domain.User{ID: requesterID})
	categories := newFakeCategoryRepo(&domain.Category{ID: "cat-1", Name: "Music"}, &domain.Category{ID: "cat-2", Name: "Talks"})
	return NewEventService(events, categories, users, cache, testLogger, 5*time.Second).(*eventService)
}

func ptr[T any](v T) *T { return &v }

func TestEventService_Create(t *testing.T) {
	ctx := context.Background()
	valid := domain.NewEventInput{
		Title:            "  Go meetup ",
		Annotation:       "Monthly gathering of gophers",
		Description:      "Talks and pizza",
		CategoryID:       "cat-1",
		EventDate:        futureDate(),
		ParticipantLimit: 10,
	}

	tests := []struct {
		name      string
		initiator string
		mutate    func(in *domain.NewEventInput)
		wantErr   error
	}{
		{name: "valid", initiator: initiatorID},
		{name: "unknown user", initiator: "ghost", wantErr: domain.ErrUserNotFound},
		{name: "unknown category", initiator: initiatorID, mutate: func(in *domain.NewEventInput) { in.CategoryID = "cat-9" }, wantErr: domain.ErrCategoryNotFound},
		{name: "date in past", initiator: initiatorID, mutate: func(in *domain.NewEventInput) { in.EventDate = time.Now().Add(-time.Hour) }, wantErr: domain.ErrEventDateInPast},
		{name: "negative limit", initiator: initiatorID, mutate: func(in *domain.NewEventInput) { in.ParticipantLimit = -1 }, wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := newFakeEventRepo()
			svc := newTestEventService(events, newFakeEventCache())
			in := valid
			if tt.mutate != nil {
				tt.mutate(&in)
			}
			got, err := svc.Create(ctx, tt.initiator, in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, events.byID)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, "Go meetup", got.Title)
			assert.Equal(t, domain.EventStatePending, got.State)
			assert.Zero(t, got.ConfirmedRequests)
			assert.Nil(t, got.PublishedOn)
		})
	}
}

func TestEventService_UpdateByInitiator(t *testing.T) {
	ctx := context.Background()

	newEvent := func(state domain.EventState) *domain.Event {
		return &domain.Event{ID: "ev-1", Title: "Old", Annotation: "Old annotation", InitiatorID: initiatorID, CategoryID: "cat-1", EventDate: futureDate(), State: state, ConfirmedRequests: 3}
	}

	t.Run("cancel review and partial fields", func(t *testing.T) {
		events := newFakeEventRepo(newEvent(domain.EventStatePending))
		cache := newFakeEventCache()
		svc := newTestEventService(events, cache)

		got, err := svc.UpdateByInitiator(ctx, initiatorID, "ev-1", domain.UpdateEventInput{
			Title:       ptr("New"),
			Annotation:  ptr("   "),
			StateAction: ptr(domain.StateActionCancelReview),
		})
		require.NoError(t, err)
		assert.Equal(t, "New", got.Title)
		assert.Equal(t, "Old annotation", got.Annotation)
		assert.Equal(t, domain.EventStateCanceled, got.State)
		assert.Equal(t, 3, events.byID["ev-1"].ConfirmedRequests)
		assert.Equal(t, []string{"ev-1"}, cache.deleted)
	})

	t.Run("send to review reopens canceled event", func(t *testing.T) {
		events := newFakeEventRepo(newEvent(domain.EventStateCanceled))
		svc := newTestEventService(events, newFakeEventCache())

		got, err := svc.UpdateByInitiator(ctx, initiatorID, "ev-1", domain.UpdateEventInput{StateAction: ptr(domain.StateActionSendToReview)})
		require.NoError(t, err)
		assert.Equal(t, domain.EventStatePending, got.State)
	})

	t.Run("published event is frozen", func(t *testing.T) {
		svc := newTestEventService(newFakeEventRepo(newEvent(domain.EventStatePublished)), newFakeEventCache())

		_, err := svc.UpdateByInitiator(ctx, initiatorID, "ev-1", domain.UpdateEventInput{Title: ptr("New")})
		require.ErrorIs(t, err, domain.ErrEventPublished)
	})

	t.Run("admin action is rejected", func(t *testing.T) {
		svc := newTestEventService(newFakeEventRepo(newEvent(domain.EventStatePending)), newFakeEventCache())

		_, err := svc.UpdateByInitiator(ctx, initiatorID, "ev-1", domain.UpdateEventInput{StateAction: ptr(domain.StateActionPublishEvent)})
		require.ErrorIs(t, err, domain.ErrInvalidStateAction)
	})

	t.Run("other user", func(t *testing.T) {
		svc := newTestEventService(newFakeEventRepo(newEvent(domain.EventStatePending)), newFakeEventCache())

		_, err := svc.UpdateByInitiator(ctx, requesterID, "ev-1", domain.UpdateEventInput{Title: ptr("New")})
		require.ErrorIs(t, err, domain.ErrNotInitiator)
	})

	t.Run("past date", func(t *testing.T) {
		svc := newTestEventService(newFakeEventRepo(newEvent(domain.EventStatePending)), newFakeEventCache())

		_, err := svc.UpdateByInitiator(ctx, initiatorID, "ev-1", domain.UpdateEventInput{EventDate: ptr(time.Now().Add(-time.Minute))})
		require.ErrorIs(t, err, domain.ErrEventDateInPast)
	})
}

func TestEventService_UpdateByAdmin(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name      string
		state     domain.EventState
		action    domain.StateAction
		wantState domain.EventState
		wantErr   error
	}{
		{name: "publish pending", state: domain.EventStatePending, action: domain.StateActionPublishEvent, wantState: domain.EventStatePublished},
		{name: "publish canceled", state: domain.EventStateCanceled, action: domain.StateActionPublishEvent, wantErr: domain.ErrInvalidStateTransition},
		{name: "publish published", state: domain.EventStatePublished, action: domain.StateActionPublishEvent, wantErr: domain.ErrInvalidStateTransition},
		{name: "reject pending", state: domain.EventStatePending, action: domain.StateActionRejectEvent, wantState: domain.EventStateCanceled},
		{name: "reject published", state: domain.EventStatePublished, action: domain.StateActionRejectEvent, wantErr: domain.ErrInvalidStateTransition},
		{name: "initiator action", state: domain.EventStatePending, action: domain.StateActionSendToReview, wantErr: domain.ErrInvalidStateAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := newFakeEventRepo(&domain.Event{ID: "ev-1", InitiatorID: initiatorID, EventDate: futureDate(), State: tt.state})
			svc := newTestEventService(events, newFakeEventCache())
			svc.now = func() time.Time { return fixed }

			got, err := svc.UpdateByAdmin(ctx, "ev-1", domain.UpdateEventInput{StateAction: ptr(tt.action)})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.state, events.byID["ev-1"].State)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantState, got.State)
			if tt.wantState == domain.EventStatePublished {
				require.NotNil(t, got.PublishedOn)
				assert.Equal(t, fixed, *got.PublishedOn)
			}
		})
	}
}

func TestEventService_GetPublished(t *testing.T) {
	ctx := context.Background()

	t.Run("miss loads and fills cache", func(t *testing.T) {
		cache := newFakeEventCache()
		svc := newTestEventService(newFakeEventRepo(&domain.Event{ID: "ev-1", State: domain.EventStatePublished}), cache)

		got, err := svc.GetPublished(ctx, "ev-1")
		require.NoError(t, err)
		assert.Equal(t, "ev-1", got.ID)
		assert.Equal(t, 1, cache.sets)
	})

	t.Run("hit skips the repository", func(t *testing.T) {
		cache := newFakeEventCache()
		cache.byID["ev-1"] = &domain.Event{ID: "ev-1", Title: "cached", State: domain.EventStatePublished}
		events := newFakeEventRepo()
		events.err = errors.New("must not be called")
		svc := newTestEventService(events, cache)

		got, err := svc.GetPublished(ctx, "ev-1")
		require.NoError(t, err)
		assert.Equal(t, "cached", got.Title)
	})

	t.Run("unpublished is not found", func(t *testing.T) {
		cache := newFakeEventCache()
		svc := newTestEventService(newFakeEventRepo(&domain.Event{ID: "ev-1", State: domain.EventStatePending}), cache)

		_, err := svc.GetPublished(ctx, "ev-1")
		require.ErrorIs(t, err, domain.ErrEventNotFound)
		assert.Zero(t, cache.sets)
	})
}

func TestEventService_Search(t *testing.T) {
	ctx := context.Background()
	events := newFakeEventRepo(
		&domain.Event{ID: "ev-1", State: domain.EventStatePublished},
		&domain.Event{ID: "ev-2", State: domain.EventStatePending},
	)
	svc := newTestEventService(events, newFakeEventCache())
	params := domain.PaginationParams{Page: 1, PageSize: 20}

	got, total, err := svc.SearchPublic(ctx, domain.PublicEventFilter{Sort: domain.EventSortID}, params)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "ev-1", got[0].ID)

	start := time.Now().Add(48 * time.Hour)
	end := time.Now()
	_, _, err = svc.SearchPublic(ctx, domain.PublicEventFilter{RangeStart: &start, RangeEnd: &end}, params)
	require.ErrorIs(t, err, domain.ErrInvalidRange)

	_, _, err = svc.SearchPublic(ctx, domain.PublicEventFilter{Sort: "VIEWS"}, params)
	require.ErrorIs(t, err, domain.ErrValidation)

	_, total, err = svc.SearchAdmin(ctx, domain.AdminEventFilter{States: []domain.EventState{domain.EventStatePending}}, params)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	_, _, err = svc.SearchAdmin(ctx, domain.AdminEventFilter{States: []domain.EventState{"DRAFT"}}, params)
	require.ErrorIs(t, err, domain.ErrValidation)
}
