package repository

import (
	"context"
	"time"

	"GiftRegistryAPI/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SelectionRepository struct {
	DB DBPool
}

func NewSelectionRepository(db DBPool) *SelectionRepository {
	return &SelectionRepository{DB: db}
}

func (r *SelectionRepository) Create(ctx context.Context, sel *model.GiftSelection) (string, error) {
	if sel.SelectionID == "" {
		sel.SelectionID = uuid.NewString()
	}
	if sel.SelectionDate.IsZero() {
		sel.SelectionDate = time.Now()
	}
	query := `
		INSERT INTO gift_selections (id, present_id, name, email, selection_date)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.DB.Exec(ctx, query, sel.SelectionID, sel.PresentID, sel.Name, sel.Email, sel.SelectionDate); err != nil {
		return "", err
	}
	return sel.SelectionID, nil
}

func (r *SelectionRepository) ExistsByPresentID(ctx context.Context, presentID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM gift_selections WHERE present_id=$1)`
	if err := r.DB.QueryRow(ctx, query, presentID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

const selectionJoin = `
	SELECT gs.id, gs.present_id, gs.name, gs.email, gs.selection_date,
	       p.name, p.description, p.price, p.category, p.image
	FROM gift_selections gs
	JOIN presents p ON p.id = gs.present_id
`

func scanSelections(rows pgx.Rows) ([]model.SelectionWithPresent, error) {
	defer rows.Close()
	var list []model.SelectionWithPresent
	for rows.Next() {
		var s model.SelectionWithPresent
		if err := rows.Scan(
			&s.SelectionID, &s.PresentID, &s.Name, &s.Email, &s.SelectionDate,
			&s.PresentName, &s.PresentDescription, &s.PresentPrice, &s.PresentCategory, &s.PresentImage,
		); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *SelectionRepository) ListAll(ctx context.Context) ([]model.SelectionWithPresent, error) {
	rows, err := r.DB.Query(ctx, selectionJoin+` ORDER BY gs.selection_date DESC`)
	if err != nil {
		return nil, err
	}
	return scanSelections(rows)
}

func (r *SelectionRepository) ListByEmail(ctx context.Context, email string) ([]model.SelectionWithPresent, error) {
	rows, err := r.DB.Query(ctx, selectionJoin+` WHERE gs.email=$1 ORDER BY gs.selection_date DESC`, email)
	if err != nil {
		return nil, err
	}
	return scanSelections(rows)
}

func (r *SelectionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM gift_selections`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
