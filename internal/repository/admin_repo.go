package repository

import (
	"context"
	"errors"
	"time"

	"GiftRegistryAPI/internal/model"
)

type AdminRepository struct {
	DB DBPool
}

func NewAdminRepository(db DBPool) *AdminRepository {
	return &AdminRepository{DB: db}
}

func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var a model.Admin
	query := `SELECT id, username, password, created_at FROM admins WHERE username=$1`
	if err := r.DB.QueryRow(ctx, query, username).Scan(&a.AdminID, &a.Username, &a.Password, &a.CreatedAt); err != nil {
		return nil, errors.New("admin not found")
	}
	return &a, nil
}

func (r *AdminRepository) Create(ctx context.Context, username, passwordHash string) (*model.Admin, error) {
	var a model.Admin
	a.Username = username
	a.CreatedAt = time.Now()
	query := `INSERT INTO admins (username, password, created_at) VALUES ($1, $2, $3) RETURNING id`
	if err := r.DB.QueryRow(ctx, query, username, passwordHash, a.CreatedAt).Scan(&a.AdminID); err != nil {
		return nil, err
	}
	return &a, nil
}
