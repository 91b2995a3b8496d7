package services

import (
	"context"
	"errors"
	"strings"

	"GiftRegistryAPI/internal/middleware"
	"GiftRegistryAPI/internal/model"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AdminStore interface {
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
	Create(ctx context.Context, username, passwordHash string) (*model.Admin, error)
}

type DashboardStats struct {
	TotalPresents    int64 `json:"totalPresents"`
	TotalSelections  int64 `json:"totalSelections"`
	SelectedPresents int64 `json:"selectedPresents"`
}

type AdminService struct {
	Repo       AdminStore
	Presents   PresentStore
	Selections SelectionStore
}

func NewAdminService(repo AdminStore, presents PresentStore, selections SelectionStore) *AdminService {
	return &AdminService{Repo: repo, Presents: presents, Selections: selections}
}

func (s *AdminService) Login(ctx context.Context, username, password string) (string, error) {
	admin, err := s.Repo.GetByUsername(ctx, username)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return middleware.GenerateToken(admin.AdminID, admin.Username, 1)
}

func (s *AdminService) CreateAdmin(ctx context.Context, username, password string) (*model.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("username is required")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.Repo.Create(ctx, username, string(hash))
}

func (s *AdminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	total, err := s.Presents.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	selections, err := s.Selections.Count(ctx)
	if err != nil {
		return nil, err
	}
	selected, err := s.Presents.CountSelected(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		TotalPresents:    total,
		TotalSelections:  selections,
		SelectedPresents: selected,
	}, nil
}
