package bookingrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"rentalhub/model"
	"rentalhub/util/database"
)

// selectBooking joins asset and customer names so callers never need the
// full nested objects on the wire.
const selectBooking = `
SELECT b.id, b.asset_id, a.asset_name, b.customer_id,
       c.first_name || ' ' || c.last_name AS customer_name,
       b.start_date, b.end_date, b.active, b.note
FROM rhub_bookings b
JOIN rhub_assets a ON a.id = b.asset_id
JOIN rhub_customers c ON c.id = b.customer_id`

type Repo interface {
	Insert(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Booking, error)
	List(ctx context.Context) ([]model.Booking, error)
	ListForAsset(ctx context.Context, assetID int64) ([]model.Booking, error)
	ListForCustomer(ctx context.Context, customerID int64) ([]model.Booking, error)
	ExistsActiveForAsset(ctx context.Context, assetID int64) (bool, error)
	ExistsActiveForCustomer(ctx context.Context, customerID int64) (bool, error)
	MarkClosed(ctx context.Context, id int64, endDate time.Time) error
	Delete(ctx context.Context, id int64) error
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, b *model.Booking) error {
	const q = `
INSERT INTO rhub_bookings (asset_id, customer_id, start_date, end_date, active, note)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id`
	return r.db.Q(ctx).QueryRow(ctx, q, b.AssetID, b.CustomerID, b.StartDate, b.EndDate, b.Active, b.Note).Scan(&b.ID)
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	return r.scanOne(ctx, selectBooking+`
WHERE b.id = $1`, id)
}

// GetByIDForUpdate locks the booking row (not the joined rows) so closure
// checks-then-writes are serialized per booking.
func (r *repo) GetByIDForUpdate(ctx context.Context, id int64) (*model.Booking, error) {
	return r.scanOne(ctx, selectBooking+`
WHERE b.id = $1
FOR UPDATE OF b`, id)
}

func (r *repo) scanOne(ctx context.Context, q string, id int64) (*model.Booking, error) {
	var b model.Booking
	err := r.db.Q(ctx).QueryRow(ctx, q, id).Scan(
		&b.ID, &b.AssetID, &b.AssetName, &b.CustomerID, &b.CustomerName,
		&b.StartDate, &b.EndDate, &b.Active, &b.Note,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) List(ctx context.Context) ([]model.Booking, error) {
	return r.list(ctx, selectBooking+`
ORDER BY b.id`)
}

func (r *repo) ListForAsset(ctx context.Context, assetID int64) ([]model.Booking, error) {
	return r.list(ctx, selectBooking+`
WHERE b.asset_id = $1
ORDER BY b.start_date DESC, b.id DESC`, assetID)
}

func (r *repo) ListForCustomer(ctx context.Context, customerID int64) ([]model.Booking, error) {
	return r.list(ctx, selectBooking+`
WHERE b.customer_id = $1
ORDER BY b.start_date DESC, b.id DESC`, customerID)
}

func (r *repo) list(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.Q(ctx).Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(
			&b.ID, &b.AssetID, &b.AssetName, &b.CustomerID, &b.CustomerName,
			&b.StartDate, &b.EndDate, &b.Active, &b.Note,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) ExistsActiveForAsset(ctx context.Context, assetID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM rhub_bookings WHERE asset_id = $1 AND active)`
	var exists bool
	err := r.db.Q(ctx).QueryRow(ctx, q, assetID).Scan(&exists)
	return exists, err
}

func (r *repo) ExistsActiveForCustomer(ctx context.Context, customerID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM rhub_bookings WHERE customer_id = $1 AND active)`
	var exists bool
	err := r.db.Q(ctx).QueryRow(ctx, q, customerID).Scan(&exists)
	return exists, err
}

func (r *repo) MarkClosed(ctx context.Context, id int64, endDate time.Time) error {
	const q = `
UPDATE rhub_bookings
SET active = FALSE, end_date = $2
WHERE id = $1`
	_, err := r.db.Q(ctx).Exec(ctx, q, id, endDate)
	return err
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM rhub_bookings WHERE id = $1`
	tag, err := r.db.Q(ctx).Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
