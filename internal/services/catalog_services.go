package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"GiftRegistryAPI/internal/model"
	"GiftRegistryAPI/pkg/retry"
)

// PresentStore is the repository surface the services depend on.
type PresentStore interface {
	Create(ctx context.Context, p *model.Present) (string, error)
	GetByID(ctx context.Context, id string) (*model.Present, error)
	List(ctx context.Context, onlyAvailable bool) ([]model.Present, error)
	Update(ctx context.Context, p *model.Present) error
	Delete(ctx context.Context, id string) error
	MarkSold(ctx context.Context, id, buyerName, buyerEmail string) error
	SetProcessorRefs(ctx context.Context, id, productRef, priceRef string) error
	CountAll(ctx context.Context) (int64, error)
	CountSelected(ctx context.Context) (int64, error)
}

type PresentInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	Image       string `json:"image"`
}

const (
	defaultDescription = "A present for the couple"
	defaultCategory    = "Others"

	mirrorAttempts  = 3
	mirrorBaseDelay = time.Second
)

type CatalogService struct {
	Repo      PresentStore
	Processor PaymentProcessor // optional product mirror
	// BatchDelay spaces out batch item creation to stay under the
	// processor rate limit. Only applied when a mirror is configured.
	BatchDelay time.Duration
}

func NewCatalogService(repo PresentStore, processor PaymentProcessor) *CatalogService {
	return &CatalogService{
		Repo:       repo,
		Processor:  processor,
		BatchDelay: time.Second,
	}
}

func (in *PresentInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return errors.New("name is required")
	}
	if in.Price <= 0 {
		return errors.New("price must be > 0")
	}
	if in.Description == "" {
		in.Description = defaultDescription
	}
	if in.Category == "" {
		in.Category = defaultCategory
	}
	return nil
}

func (s *CatalogService) CreatePresent(ctx context.Context, in PresentInput) (*model.Present, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	p := &model.Present{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Image:       in.Image,
		Active:      true,
		CreatedAt:   time.Now(),
	}
	if _, err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.mirrorToProcessor(ctx, p)
	return p, nil
}

// BatchCreate creates presents one by one, sleeping between items when a
// processor mirror is configured. This is a throttle, not a concurrency
// primitive: the processor rate-limits bursts of product creation.
func (s *CatalogService) BatchCreate(ctx context.Context, inputs []PresentInput) ([]model.Present, error) {
	if len(inputs) == 0 {
		return nil, errors.New("the request must contain a list of products")
	}
	for i := range inputs {
		if err := inputs[i].normalize(); err != nil {
			name := inputs[i].Name
			if name == "" {
				name = "unnamed"
			}
			return nil, errors.New("invalid product " + name + ": " + err.Error())
		}
	}

	created := make([]model.Present, 0, len(inputs))
	for _, in := range inputs {
		if s.Processor != nil && s.BatchDelay > 0 {
			select {
			case <-time.After(s.BatchDelay):
			case <-ctx.Done():
				return created, ctx.Err()
			}
		}
		p, err := s.CreatePresent(ctx, in)
		if err != nil {
			return created, err
		}
		created = append(created, *p)
	}
	return created, nil
}

func (s *CatalogService) GetPresent(ctx context.Context, id string) (*model.Present, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *CatalogService) ListPresents(ctx context.Context, onlyAvailable bool) ([]model.Present, error) {
	return s.Repo.List(ctx, onlyAvailable)
}

func (s *CatalogService) UpdatePresent(ctx context.Context, id string, in PresentInput, active bool) (*model.Present, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	priceChanged := p.Price != in.Price
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Category = in.Category
	p.Image = in.Image
	p.Active = active
	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, err
	}

	// A mirrored present gets a fresh processor price when the amount
	// changes; prices are immutable on the processor side.
	if priceChanged && s.Processor != nil && p.ProductRef != nil {
		priceRef, err := retry.Do(ctx, mirrorAttempts, mirrorBaseDelay, retry.RateLimited, func() (string, error) {
			return s.Processor.CreatePrice(ctx, *p.ProductRef, p.Price)
		})
		if err != nil {
			log.Printf("catalog: creating processor price for %s: %v", p.PresentID, err)
		} else if err := s.Repo.SetProcessorRefs(ctx, p.PresentID, *p.ProductRef, priceRef); err != nil {
			log.Printf("catalog: storing processor refs for %s: %v", p.PresentID, err)
		} else {
			p.PriceRef = &priceRef
		}
	}

	return p, nil
}

func (s *CatalogService) DeletePresent(ctx context.Context, id string) error {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s.Processor != nil && p.ProductRef != nil {
		if err := s.Processor.DeactivateProduct(ctx, *p.ProductRef); err != nil {
			log.Printf("catalog: deactivating processor product for %s: %v", id, err)
		}
	}
	return s.Repo.Delete(ctx, id)
}

// mirrorToProcessor registers the present as a processor product/price pair
// so the hosted-checkout fallback has line items to reference. Failures are
// logged; the present stays purchasable through the payment-intent path.
func (s *CatalogService) mirrorToProcessor(ctx context.Context, p *model.Present) {
	if s.Processor == nil {
		return
	}

	type refs struct{ product, price string }
	r, err := retry.Do(ctx, mirrorAttempts, mirrorBaseDelay, retry.RateLimited, func() (refs, error) {
		productRef, priceRef, err := s.Processor.CreateProduct(ctx, p)
		return refs{productRef, priceRef}, err
	})
	if err != nil {
		log.Printf("catalog: mirroring present %s to processor: %v", p.PresentID, err)
		return
	}
	if err := s.Repo.SetProcessorRefs(ctx, p.PresentID, r.product, r.price); err != nil {
		log.Printf("catalog: storing processor refs for %s: %v", p.PresentID, err)
		return
	}
	p.ProductRef = &r.product
	p.PriceRef = &r.price
}
