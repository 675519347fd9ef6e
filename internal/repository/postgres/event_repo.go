package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"eventmanager/internal/domain"
)

const eventColumns = `id, title, annotation, description, category_id, initiator_id, event_date,
	location_lat, location_lon, paid, participant_limit, confirmed_requests, request_moderation,
	state, created_on, published_on`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func scanEvent(s rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var state string
	var publishedOn sql.NullTime
	err := s.Scan(
		&e.ID, &e.Title, &e.Annotation, &e.Description, &e.CategoryID, &e.InitiatorID, &e.EventDate,
		&e.Location.Lat, &e.Location.Lon, &e.Paid, &e.ParticipantLimit, &e.ConfirmedRequests, &e.RequestModeration,
		&state, &e.CreatedOn, &publishedOn,
	)
	if err != nil {
		return nil, err
	}
	e.State = domain.EventState(state)
	if publishedOn.Valid {
		e.PublishedOn = &publishedOn.Time
	}
	return e, nil
}

func scanEvents(rows *sql.Rows) ([]*domain.Event, error) {
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, annotation, description, category_id, initiator_id, event_date,
			location_lat, location_lon, paid, participant_limit, confirmed_requests, request_moderation,
			state, created_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	return conn(ctx, r.DB).QueryRowContext(ctx, query,
		e.Title, e.Annotation, e.Description, e.CategoryID, e.InitiatorID, e.EventDate,
		e.Location.Lat, e.Location.Lon, e.Paid, e.ParticipantLimit, e.ConfirmedRequests, e.RequestModeration,
		string(e.State), e.CreatedOn,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(conn(ctx, r.DB).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`
	e, err := scanEvent(conn(ctx, r.DB).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Event, error) {
	if len(ids) == 0 {
		return []*domain.Event{}, nil
	}
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ANY($1) ORDER BY event_date`
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $1, annotation = $2, description = $3, category_id = $4, event_date = $5,
			location_lat = $6, location_lon = $7, paid = $8, participant_limit = $9,
			request_moderation = $10, state = $11, published_on = $12
		WHERE id = $13
	`
	result, err := conn(ctx, r.DB).ExecContext(ctx, query,
		e.Title, e.Annotation, e.Description, e.CategoryID, e.EventDate,
		e.Location.Lat, e.Location.Lon, e.Paid, e.ParticipantLimit,
		e.RequestModeration, string(e.State), e.PublishedOn, e.ID,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *eventRepository) SetConfirmedRequests(ctx context.Context, id string, confirmed int) error {
	query := `UPDATE events SET confirmed_requests = $1 WHERE id = $2`
	result, err := conn(ctx, r.DB).ExecContext(ctx, query, confirmed, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *eventRepository) ListByInitiator(ctx context.Context, initiatorID string, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f := &filter{}
	f.add("initiator_id = ?", initiatorID)
	return r.list(ctx, f, "created_on DESC", params)
}

func (r *eventRepository) SearchAdmin(ctx context.Context, af domain.AdminEventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f := &filter{}
	if len(af.InitiatorIDs) > 0 {
		f.add("initiator_id = ANY(?)", pq.Array(af.InitiatorIDs))
	}
	if len(af.States) > 0 {
		states := make([]string, len(af.States))
		for i, s := range af.States {
			states[i] = string(s)
		}
		f.add("state = ANY(?)", pq.Array(states))
	}
	if len(af.CategoryIDs) > 0 {
		f.add("category_id = ANY(?)", pq.Array(af.CategoryIDs))
	}
	if af.RangeStart != nil {
		f.add("event_date >= ?", *af.RangeStart)
	}
	if af.RangeEnd != nil {
		f.add("event_date <= ?", *af.RangeEnd)
	}
	return r.list(ctx, f, "id", params)
}

func (r *eventRepository) SearchPublic(ctx context.Context, pf domain.PublicEventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f := &filter{}
	f.add("state = ?", string(domain.EventStatePublished))
	if text := strings.TrimSpace(pf.Text); text != "" {
		f.add("(title ILIKE ? OR annotation ILIKE ? OR description ILIKE ?)", "%"+text+"%")
	}
	if len(pf.CategoryIDs) > 0 {
		f.add("category_id = ANY(?)", pq.Array(pf.CategoryIDs))
	}
	if pf.Paid != nil {
		f.add("paid = ?", *pf.Paid)
	}
	if pf.RangeStart != nil {
		f.add("event_date >= ?", *pf.RangeStart)
	}
	if pf.RangeEnd != nil {
		f.add("event_date <= ?", *pf.RangeEnd)
	}
	if pf.RangeStart == nil && pf.RangeEnd == nil {
		f.addRaw("event_date > NOW()")
	}
	if pf.OnlyAvailable {
		f.addRaw("(participant_limit = 0 OR confirmed_requests < participant_limit)")
	}
	order := "id"
	if pf.Sort == domain.EventSortEventDate {
		order = "event_date"
	}
	return r.list(ctx, f, order, params)
}

func (r *eventRepository) list(ctx context.Context, f *filter, orderBy string, params domain.PaginationParams) ([]*domain.Event, int, error) {
	q := conn(ctx, r.DB)
	var total int
	countQuery := `SELECT COUNT(*) FROM events` + f.where()
	if err := q.QueryRowContext(ctx, countQuery, f.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}
	limit, args := f.page(params)
	query := `SELECT ` + eventColumns + ` FROM events` + f.where() + ` ORDER BY ` + orderBy + limit
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	events, err := scanEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
