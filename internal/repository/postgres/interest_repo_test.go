package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/and161185/nhh/internal/errs"
	"github.com/and161185/nhh/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

var interestColNames = []string{"id", "listing_id", "interested_officer_id", "message", "status", "created_at", "updated_at"}

func TestInterestRepo_CreateAndGet(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewInterestRepo(db)
	ctx := context.Background()
	i := &model.Interest{
		ID:                  uuid.Must(uuid.NewV4()),
		ListingID:           uuid.Must(uuid.NewV4()),
		InterestedOfficerID: uuid.Must(uuid.NewV4()),
		Message:             "posted to Lagos in May",
		Status:              model.InterestPending,
	}
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO interests \(id, listing_id, interested_officer_id, message, status\)`).
		WithArgs(i.ID, i.ListingID, i.InterestedOfficerID, i.Message, "pending").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	require.NoError(t, r.Create(ctx, i))

	mock.ExpectQuery(`FROM interests WHERE id=\$1`).
		WithArgs(i.ID).
		WillReturnRows(pgxmock.NewRows(interestColNames).
			AddRow(i.ID, i.ListingID, i.InterestedOfficerID, i.Message, "pending", now, now))
	got, err := r.GetByID(ctx, i.ID)
	require.NoError(t, err)
	require.Equal(t, model.InterestPending, got.Status)
	require.Equal(t, i.Message, got.Message)

	mock.ExpectQuery(`FROM interests WHERE id=\$1`).
		WithArgs(i.ID).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByID(ctx, i.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestInterestRepo_ListAndUpdate(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewInterestRepo(db)
	ctx := context.Background()
	lid, oid, id := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM interests WHERE listing_id=\$1 ORDER BY created_at DESC`).
		WithArgs(lid).
		WillReturnRows(pgxmock.NewRows(interestColNames).AddRow(id, lid, oid, "hi", "pending", now, now))
	out, err := r.ListByListing(ctx, lid)
	require.NoError(t, err)
	require.Len(t, out, 1)

	mock.ExpectQuery(`UPDATE interests SET status=\$2, updated_at=now\(\) WHERE id=\$1 RETURNING`).
		WithArgs(id, "accepted").
		WillReturnRows(pgxmock.NewRows(interestColNames).AddRow(id, lid, oid, "hi", "accepted", now, now))
	got, err := r.UpdateStatus(ctx, id, model.InterestAccepted)
	require.NoError(t, err)
	require.Equal(t, model.InterestAccepted, got.Status)
}
