package services

import (
	"context"
	"errors"
	"fmt"

	"GiftRegistryAPI/internal/model"
)

type fakePresentStore struct {
	presents map[string]*model.Present

	markSoldErr map[string]error
	soldCalls   []string
	createdIDs  int
	refs        map[string][2]string
}

func newFakePresentStore(presents ...*model.Present) *fakePresentStore {
	f := &fakePresentStore{
		presents:    map[string]*model.Present{},
		markSoldErr: map[string]error{},
		refs:        map[string][2]string{},
	}
	for _, p := range presents {
		cp := *p
		f.presents[p.PresentID] = &cp
	}
	return f
}

func (f *fakePresentStore) Create(_ context.Context, p *model.Present) (string, error) {
	if p.PresentID == "" {
		f.createdIDs++
		p.PresentID = fmt.Sprintf("p%d", f.createdIDs)
	}
	cp := *p
	f.presents[p.PresentID] = &cp
	return p.PresentID, nil
}

func (f *fakePresentStore) GetByID(_ context.Context, id string) (*model.Present, error) {
	p, ok := f.presents[id]
	if !ok {
		return nil, errors.New("present not found")
	}
	cp := *p
	return &cp, nil
}

func (f *fakePresentStore) List(_ context.Context, onlyAvailable bool) ([]model.Present, error) {
	var list []model.Present
	for _, p := range f.presents {
		if onlyAvailable && (p.IsSelected || !p.Active) {
			continue
		}
		list = append(list, *p)
	}
	return list, nil
}

func (f *fakePresentStore) Update(_ context.Context, p *model.Present) error {
	if _, ok := f.presents[p.PresentID]; !ok {
		return errors.New("present not found")
	}
	cp := *p
	f.presents[p.PresentID] = &cp
	return nil
}

func (f *fakePresentStore) Delete(_ context.Context, id string) error {
	if _, ok := f.presents[id]; !ok {
		return errors.New("present not found")
	}
	delete(f.presents, id)
	return nil
}

func (f *fakePresentStore) MarkSold(_ context.Context, id, buyerName, buyerEmail string) error {
	f.soldCalls = append(f.soldCalls, id)
	if err := f.markSoldErr[id]; err != nil {
		return err
	}
	p, ok := f.presents[id]
	if !ok {
		return errors.New("present not found")
	}
	p.IsSelected = true
	p.Active = false
	p.BuyerName = &buyerName
	p.BuyerEmail = &buyerEmail
	return nil
}

func (f *fakePresentStore) SetProcessorRefs(_ context.Context, id, productRef, priceRef string) error {
	f.refs[id] = [2]string{productRef, priceRef}
	if p, ok := f.presents[id]; ok {
		p.ProductRef = &productRef
		p.PriceRef = &priceRef
	}
	return nil
}

func (f *fakePresentStore) CountAll(_ context.Context) (int64, error) {
	return int64(len(f.presents)), nil
}

func (f *fakePresentStore) CountSelected(_ context.Context) (int64, error) {
	var n int64
	for _, p := range f.presents {
		if p.IsSelected {
			n++
		}
	}
	return n, nil
}

type fakeProcessor struct {
	intentCalls   int
	lastAmount    int64
	lastMetadata  map[string]string
	intentErr     error
	sessionCalls  int
	lastPriceRefs []string
	productCalls  int
	productErrs   []error
	priceCalls    int
	pingErr       error
}

func (f *fakeProcessor) CreatePaymentIntent(_ context.Context, amount int64, _ string, metadata map[string]string) (string, string, error) {
	f.intentCalls++
	f.lastAmount = amount
	f.lastMetadata = metadata
	if f.intentErr != nil {
		return "", "", f.intentErr
	}
	return "pi_123", "pi_123_secret_abc", nil
}

func (f *fakeProcessor) CreateCheckoutSession(_ context.Context, priceRefs []string, metadata map[string]string) (string, error) {
	f.sessionCalls++
	f.lastPriceRefs = priceRefs
	f.lastMetadata = metadata
	return "https://checkout.example/session", nil
}

func (f *fakeProcessor) CreateProduct(_ context.Context, p *model.Present) (string, string, error) {
	f.productCalls++
	if len(f.productErrs) > 0 {
		err := f.productErrs[0]
		f.productErrs = f.productErrs[1:]
		if err != nil {
			return "", "", err
		}
	}
	return "prod_" + p.PresentID, "price_" + p.PresentID, nil
}

func (f *fakeProcessor) CreatePrice(_ context.Context, productRef string, _ int64) (string, error) {
	f.priceCalls++
	return "price_new_" + productRef, nil
}

func (f *fakeProcessor) DeactivateProduct(_ context.Context, _ string) error { return nil }

func (f *fakeProcessor) Ping(_ context.Context) error { return f.pingErr }

type fakeVerifier struct {
	event *WebhookEvent
	err   error
}

func (f *fakeVerifier) VerifyEvent(_ []byte, _ string) (*WebhookEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}
