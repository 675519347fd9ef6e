package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"eventmanager/internal/domain"
)

var requestRowColumns = []string{"id", "event_id", "requester_id", "status", "created_at"}

func TestParticipationRequestRepository_Create(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2030, 2, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		errIs   error
		wantErr bool
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO participation_requests`).
					WithArgs("ev-1", "user-2", "PENDING", created).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("pr-1"))
			},
			wantID: "pr-1",
		},
		{
			name: "unique violation returns ErrDuplicateRequest",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO participation_requests`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: true,
			errIs:   domain.ErrDuplicateRequest,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO participation_requests`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			pr := &domain.ParticipationRequest{EventID: "ev-1", RequesterID: "user-2", Status: domain.RequestStatusPending, CreatedAt: created}
			err = NewParticipationRequestRepository(db).Create(ctx, pr)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
					require.ErrorIs(t, err, domain.ErrConflict)
				}
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, pr.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestParticipationRequestRepository_ListByIDsForUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2030, 2, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, event_id, requester_id, status, created_at FROM participation_requests WHERE id = ANY\(\$1\) FOR UPDATE`).
		WithArgs(pq.Array([]string{"pr-1", "pr-2"})).
		WillReturnRows(sqlmock.NewRows(requestRowColumns).
			AddRow("pr-1", "ev-1", "user-2", "PENDING", created).
			AddRow("pr-2", "ev-1", "user-3", "CONFIRMED", created))

	got, err := NewParticipationRequestRepository(db).ListByIDsForUpdate(context.Background(), []string{"pr-1", "pr-2"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, domain.RequestStatusPending, got[0].Status)
	require.Equal(t, domain.RequestStatusConfirmed, got[1].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipationRequestRepository_ListByIDsForUpdate_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	got, err := NewParticipationRequestRepository(db).ListByIDsForUpdate(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipationRequestRepository_UpdateStatuses(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE participation_requests SET status = \$1 WHERE id = ANY\(\$2\)`).
		WithArgs("REJECTED", pq.Array([]string{"pr-3"})).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewParticipationRequestRepository(db)
	require.NoError(t, repo.UpdateStatuses(context.Background(), []string{"pr-3"}, domain.RequestStatusRejected))
	require.NoError(t, repo.UpdateStatuses(context.Background(), nil, domain.RequestStatusConfirmed))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipationRequestRepository_CountByEventAndStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM participation_requests WHERE event_id = \$1 AND status = \$2`).
		WithArgs("ev-1", "CONFIRMED").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := NewParticipationRequestRepository(db).CountByEventAndStatus(context.Background(), "ev-1", domain.RequestStatusConfirmed)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipationRequestRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM participation_requests WHERE id = \$1`).
		WithArgs("pr-x").
		WillReturnError(sql.ErrNoRows)

	_, err = NewParticipationRequestRepository(db).GetByID(context.Background(), "pr-x")
	require.ErrorIs(t, err, domain.ErrRequestNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
