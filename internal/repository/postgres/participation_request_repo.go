package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventmanager/internal/domain"
)

const requestColumns = `id, event_id, requester_id, status, created_at`

type participationRequestRepository struct {
	DB *sql.DB
}

// NewParticipationRequestRepository returns a domain.ParticipationRequestRepository implemented with Postgres.
func NewParticipationRequestRepository(db *sql.DB) domain.ParticipationRequestRepository {
	return &participationRequestRepository{DB: db}
}

func scanRequest(s rowScanner) (*domain.ParticipationRequest, error) {
	pr := &domain.ParticipationRequest{}
	var status string
	if err := s.Scan(&pr.ID, &pr.EventID, &pr.RequesterID, &status, &pr.CreatedAt); err != nil {
		return nil, err
	}
	pr.Status = domain.RequestStatus(status)
	return pr, nil
}

func (r *participationRequestRepository) queryRequests(ctx context.Context, query string, args ...any) ([]*domain.ParticipationRequest, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	requests := make([]*domain.ParticipationRequest, 0)
	for rows.Next() {
		pr, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, pr)
	}
	return requests, rows.Err()
}

func (r *participationRequestRepository) Create(ctx context.Context, pr *domain.ParticipationRequest) error {
	query := `
		INSERT INTO participation_requests (event_id, requester_id, status, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := conn(ctx, r.DB).QueryRowContext(ctx, query, pr.EventID, pr.RequesterID, string(pr.Status), pr.CreatedAt).Scan(&pr.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateRequest
		}
		return err
	}
	return nil
}

func (r *participationRequestRepository) GetByID(ctx context.Context, id string) (*domain.ParticipationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM participation_requests WHERE id = $1`
	pr, err := scanRequest(conn(ctx, r.DB).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return pr, nil
}

func (r *participationRequestRepository) ListByIDsForUpdate(ctx context.Context, ids []string) ([]*domain.ParticipationRequest, error) {
	if len(ids) == 0 {
		return []*domain.ParticipationRequest{}, nil
	}
	query := `SELECT ` + requestColumns + ` FROM participation_requests WHERE id = ANY($1) FOR UPDATE`
	return r.queryRequests(ctx, query, pq.Array(ids))
}

func (r *participationRequestRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.ParticipationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM participation_requests WHERE event_id = $1 ORDER BY created_at`
	return r.queryRequests(ctx, query, eventID)
}

func (r *participationRequestRepository) ListByRequester(ctx context.Context, requesterID string) ([]*domain.ParticipationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM participation_requests WHERE requester_id = $1 ORDER BY created_at`
	return r.queryRequests(ctx, query, requesterID)
}

func (r *participationRequestRepository) ExistsByRequesterAndEvent(ctx context.Context, requesterID, eventID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM participation_requests WHERE requester_id = $1 AND event_id = $2)`
	var exists bool
	if err := conn(ctx, r.DB).QueryRowContext(ctx, query, requesterID, eventID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *participationRequestRepository) UpdateStatuses(ctx context.Context, ids []string, status domain.RequestStatus) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE participation_requests SET status = $1 WHERE id = ANY($2)`
	_, err := conn(ctx, r.DB).ExecContext(ctx, query, string(status), pq.Array(ids))
	return err
}

func (r *participationRequestRepository) CountByEventAndStatus(ctx context.Context, eventID string, status domain.RequestStatus) (int, error) {
	query := `SELECT COUNT(*) FROM participation_requests WHERE event_id = $1 AND status = $2`
	var n int
	if err := conn(ctx, r.DB).QueryRowContext(ctx, query, eventID, string(status)).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
