package customerrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"rentalhub/model"
	"rentalhub/util/database"
)

type Repo interface {
	Create(ctx context.Context, c *model.Customer) error
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	List(ctx context.Context) ([]model.Customer, error)
	Update(ctx context.Context, c *model.Customer) error
	Delete(ctx context.Context, id int64) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, c *model.Customer) error {
	const q = `
INSERT INTO rhub_customers (first_name, last_name, email, phone)
VALUES ($1,$2,$3,$4)
RETURNING id`
	return r.db.Q(ctx).QueryRow(ctx, q, c.FirstName, c.LastName, c.Email, c.Phone).Scan(&c.ID)
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	const q = `
SELECT id, first_name, last_name, email, phone
FROM rhub_customers
WHERE id = $1`
	var c model.Customer
	if err := r.db.Q(ctx).QueryRow(ctx, q, id).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repo) List(ctx context.Context) ([]model.Customer, error) {
	const q = `
SELECT id, first_name, last_name, email, phone
FROM rhub_customers
ORDER BY id`
	rows, err := r.db.Q(ctx).Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Customer
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repo) Update(ctx context.Context, c *model.Customer) error {
	const q = `
UPDATE rhub_customers
SET first_name = $2, last_name = $3, email = $4, phone = $5
WHERE id = $1`
	_, err := r.db.Q(ctx).Exec(ctx, q, c.ID, c.FirstName, c.LastName, c.Email, c.Phone)
	return err
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM rhub_customers WHERE id = $1`
	tag, err := r.db.Q(ctx).Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ExistsByEmail is a case-sensitive exact match.
func (r *repo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM rhub_customers WHERE email = $1)`
	var exists bool
	err := r.db.Q(ctx).QueryRow(ctx, q, email).Scan(&exists)
	return exists, err
}
