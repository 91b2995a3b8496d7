package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"GiftRegistryAPI/internal/model"
)

var (
	ErrPresentNotFound  = errors.New("present not found")
	ErrAlreadySelected  = errors.New("this present has already been selected")
	ErrInvalidBuyerName = errors.New("buyer name must be at least 2 characters")
)

type SelectionStore interface {
	Create(ctx context.Context, sel *model.GiftSelection) (string, error)
	ExistsByPresentID(ctx context.Context, presentID string) (bool, error)
	ListAll(ctx context.Context) ([]model.SelectionWithPresent, error)
	ListByEmail(ctx context.Context, email string) ([]model.SelectionWithPresent, error)
	Count(ctx context.Context) (int64, error)
}

// Mailer sends the buyer a confirmation once a purchase is registered.
type Mailer interface {
	SendPurchaseConfirmation(ctx context.Context, toEmail, buyerName, presentName string) error
}

type SelectionService struct {
	Selections SelectionStore
	Presents   PresentStore
	Emails     EmailValidator
	Mail       Mailer // optional
}

func NewSelectionService(selections SelectionStore, presents PresentStore, emails EmailValidator, mail Mailer) *SelectionService {
	return &SelectionService{
		Selections: selections,
		Presents:   presents,
		Emails:     emails,
		Mail:       mail,
	}
}

// RegisterPurchase is the direct purchase-confirmation path: it records the
// selection and marks the present sold without going through the processor.
// The webhook consumer may later set the same fields again; both paths are
// idempotent about the sold state.
func (s *SelectionService) RegisterPurchase(ctx context.Context, presentID, buyerName, buyerEmail string) (*model.Present, error) {
	buyerName = strings.TrimSpace(buyerName)
	if len(buyerName) < 2 {
		return nil, ErrInvalidBuyerName
	}
	if err := s.Emails.Validate(ctx, buyerEmail); err != nil {
		return nil, err
	}

	p, err := s.Presents.GetByID(ctx, presentID)
	if err != nil {
		return nil, ErrPresentNotFound
	}
	if p.IsSelected {
		return nil, ErrAlreadySelected
	}
	if exists, err := s.Selections.ExistsByPresentID(ctx, presentID); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrAlreadySelected
	}

	sel := &model.GiftSelection{
		PresentID: presentID,
		Name:      buyerName,
		Email:     buyerEmail,
	}
	if _, err := s.Selections.Create(ctx, sel); err != nil {
		return nil, err
	}
	if err := s.Presents.MarkSold(ctx, presentID, buyerName, buyerEmail); err != nil {
		return nil, err
	}

	if s.Mail != nil {
		if err := s.Mail.SendPurchaseConfirmation(ctx, buyerEmail, buyerName, p.Name); err != nil {
			log.Printf("selection: confirmation email to %s failed: %v", buyerEmail, err)
		}
	}

	return s.Presents.GetByID(ctx, presentID)
}

func (s *SelectionService) ListSelections(ctx context.Context) ([]model.SelectionWithPresent, error) {
	return s.Selections.ListAll(ctx)
}

func (s *SelectionService) ListSelectionsByEmail(ctx context.Context, email string) ([]model.SelectionWithPresent, error) {
	if err := s.Emails.Validate(ctx, email); err != nil {
		return nil, err
	}
	return s.Selections.ListByEmail(ctx, email)
}
