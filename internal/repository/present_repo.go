package repository

import (
	"context"
	"errors"
	"time"

	"GiftRegistryAPI/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBPool matches the methods from *pgxpool.Pool that the repositories use,
// so tests can swap in a mock pool.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PresentRepository struct {
	DB DBPool
}

func NewPresentRepository(db DBPool) *PresentRepository {
	return &PresentRepository{DB: db}
}

const presentColumns = `id, name, description, price, category, image, is_selected, buyer_name, buyer_email, active, product_ref, price_ref, created_at, updated_at`

func scanPresent(row pgx.Row, p *model.Present) error {
	return row.Scan(
		&p.PresentID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Image,
		&p.IsSelected, &p.BuyerName, &p.BuyerEmail, &p.Active,
		&p.ProductRef, &p.PriceRef, &p.CreatedAt, &p.UpdatedAt,
	)
}

func (r *PresentRepository) Create(ctx context.Context, p *model.Present) (string, error) {
	if p.PresentID == "" {
		p.PresentID = uuid.NewString()
	}
	query := `
		INSERT INTO presents (id, name, description, price, category, image, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7)
	`
	if _, err := r.DB.Exec(ctx, query, p.PresentID, p.Name, p.Description, p.Price, p.Category, p.Image, time.Now()); err != nil {
		return "", err
	}
	return p.PresentID, nil
}

func (r *PresentRepository) GetByID(ctx context.Context, id string) (*model.Present, error) {
	var p model.Present
	query := `SELECT ` + presentColumns + ` FROM presents WHERE id=$1`
	if err := scanPresent(r.DB.QueryRow(ctx, query, id), &p); err != nil {
		return nil, errors.New("present not found")
	}
	return &p, nil
}

// List returns the catalog, newest first. With onlyAvailable it excludes
// presents that are already sold or deactivated.
func (r *PresentRepository) List(ctx context.Context, onlyAvailable bool) ([]model.Present, error) {
	query := `SELECT ` + presentColumns + ` FROM presents ORDER BY created_at DESC`
	if onlyAvailable {
		query = `SELECT ` + presentColumns + ` FROM presents WHERE is_selected = FALSE AND active = TRUE ORDER BY created_at DESC`
	}
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Present
	for rows.Next() {
		var p model.Present
		if err := scanPresent(rows, &p); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PresentRepository) Update(ctx context.Context, p *model.Present) error {
	query := `
		UPDATE presents
		SET name=$1, description=$2, price=$3, category=$4, image=$5, active=$6, updated_at=$7
		WHERE id=$8
	`
	tag, err := r.DB.Exec(ctx, query, p.Name, p.Description, p.Price, p.Category, p.Image, p.Active, time.Now(), p.PresentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("present not found")
	}
	return nil
}

func (r *PresentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM presents WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("present not found")
	}
	return nil
}

// MarkSold flips the present to its sold state and attaches the buyer.
// Sold presents stay sold; re-running with the same buyer is a no-op.
func (r *PresentRepository) MarkSold(ctx context.Context, id, buyerName, buyerEmail string) error {
	query := `
		UPDATE presents
		SET is_selected=TRUE, active=FALSE, buyer_name=$1, buyer_email=$2, updated_at=$3
		WHERE id=$4
	`
	tag, err := r.DB.Exec(ctx, query, buyerName, buyerEmail, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("present not found")
	}
	return nil
}

func (r *PresentRepository) SetProcessorRefs(ctx context.Context, id, productRef, priceRef string) error {
	_, err := r.DB.Exec(ctx, `UPDATE presents SET product_ref=$1, price_ref=$2 WHERE id=$3`, productRef, priceRef, id)
	return err
}

func (r *PresentRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM presents`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PresentRepository) CountSelected(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM presents WHERE is_selected = TRUE`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
