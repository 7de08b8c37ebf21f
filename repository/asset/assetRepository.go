package assetrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"rentalhub/model"
	"rentalhub/util/database"
)

type Repo interface {
	Create(ctx context.Context, a *model.Asset) error
	GetByID(ctx context.Context, id int64) (*model.Asset, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Asset, error)
	List(ctx context.Context) ([]model.Asset, error)
	ListAvailable(ctx context.Context) ([]model.Asset, error)
	Update(ctx context.Context, a *model.Asset) error
	SetAvailability(ctx context.Context, id int64, available bool) error
	Delete(ctx context.Context, id int64) error
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, a *model.Asset) error {
	const q = `
INSERT INTO rhub_assets (asset_name, category, daily_rate, available)
VALUES ($1,$2,$3,$4)
RETURNING id`
	return r.db.Q(ctx).QueryRow(ctx, q, a.AssetName, a.Category, a.DailyRate, a.Available).Scan(&a.ID)
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.Asset, error) {
	const q = `
SELECT id, asset_name, category, daily_rate, available
FROM rhub_assets
WHERE id = $1`
	return r.scanOne(ctx, q, id)
}

// GetByIDForUpdate locks the asset row for the rest of the transaction.
// Booking creation and closure go through this so the availability check
// and the booking write are serialized per asset.
func (r *repo) GetByIDForUpdate(ctx context.Context, id int64) (*model.Asset, error) {
	const q = `
SELECT id, asset_name, category, daily_rate, available
FROM rhub_assets
WHERE id = $1
FOR UPDATE`
	return r.scanOne(ctx, q, id)
}

func (r *repo) scanOne(ctx context.Context, q string, id int64) (*model.Asset, error) {
	var a model.Asset
	if err := r.db.Q(ctx).QueryRow(ctx, q, id).Scan(&a.ID, &a.AssetName, &a.Category, &a.DailyRate, &a.Available); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repo) List(ctx context.Context) ([]model.Asset, error) {
	const q = `
SELECT id, asset_name, category, daily_rate, available
FROM rhub_assets
ORDER BY id`
	return r.list(ctx, q)
}

func (r *repo) ListAvailable(ctx context.Context) ([]model.Asset, error) {
	const q = `
SELECT id, asset_name, category, daily_rate, available
FROM rhub_assets
WHERE available
ORDER BY id`
	return r.list(ctx, q)
}

func (r *repo) list(ctx context.Context, q string) ([]model.Asset, error) {
	rows, err := r.db.Q(ctx).Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Asset
	for rows.Next() {
		var a model.Asset
		if err := rows.Scan(&a.ID, &a.AssetName, &a.Category, &a.DailyRate, &a.Available); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repo) Update(ctx context.Context, a *model.Asset) error {
	const q = `
UPDATE rhub_assets
SET asset_name = $2, category = $3, daily_rate = $4, available = $5
WHERE id = $1`
	_, err := r.db.Q(ctx).Exec(ctx, q, a.ID, a.AssetName, a.Category, a.DailyRate, a.Available)
	return err
}

func (r *repo) SetAvailability(ctx context.Context, id int64, available bool) error {
	const q = `
UPDATE rhub_assets
SET available = $2
WHERE id = $1`
	_, err := r.db.Q(ctx).Exec(ctx, q, id, available)
	return err
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM rhub_assets WHERE id = $1`
	tag, err := r.db.Q(ctx).Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
