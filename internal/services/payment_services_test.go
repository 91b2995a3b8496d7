package services

import (
	"context"
	"errors"
	"testing"

	"GiftRegistryAPI/internal/model"

	"github.com/stretchr/testify/require"
)

func present(id, name string, price int64) *model.Present {
	return &model.Present{
		PresentID: id,
		Name:      name,
		Price:     price,
		Active:    true,
	}
}

func TestCreatePaymentIntentComputesTotalFromCatalog(t *testing.T) {
	store := newFakePresentStore(
		present("p1", "Toaster", 500),
		present("p2", "Honeymoon fund", 1500),
	)
	proc := &fakeProcessor{}
	svc := NewPaymentService(store, proc, nil, "eur")

	res, err := svc.CreatePaymentIntent(context.Background(), []string{"p1", "p2"}, "Ana", "ana@example.com")
	require.NoError(t, err)
	require.Equal(t, int64(2000), res.Amount)
	require.Equal(t, "eur", res.Currency)
	require.Equal(t, "pi_123", res.PaymentIntentID)
	require.Equal(t, "pi_123_secret_abc", res.ClientSecret)
	require.Equal(t, int64(2000), proc.lastAmount)
	require.Equal(t, "p1,p2", proc.lastMetadata["productIds"])
	require.Equal(t, "Ana", proc.lastMetadata["customerName"])
	require.Equal(t, "ana@example.com", proc.lastMetadata["customerEmail"])
}

func TestCreatePaymentIntentSkipsUnresolvedIDs(t *testing.T) {
	store := newFakePresentStore(present("p1", "Toaster", 500))
	proc := &fakeProcessor{}
	svc := NewPaymentService(store, proc, nil, "eur")

	res, err := svc.CreatePaymentIntent(context.Background(), []string{"p1", "p2"}, "Ana", "ana@example.com")
	require.NoError(t, err)
	require.Equal(t, int64(500), res.Amount)
	require.Equal(t, "p1", proc.lastMetadata["productIds"])
}

func TestCreatePaymentIntentRejectsEmptyProductList(t *testing.T) {
	proc := &fakeProcessor{}
	svc := NewPaymentService(newFakePresentStore(), proc, nil, "eur")

	_, err := svc.CreatePaymentIntent(context.Background(), nil, "Ana", "ana@example.com")
	var pe *PaymentError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrTypeValidation, pe.Type)
	require.Zero(t, proc.intentCalls, "processor must not be called")
}

func TestCreatePaymentIntentRejectsMissingBuyerInfo(t *testing.T) {
	proc := &fakeProcessor{}
	svc := NewPaymentService(newFakePresentStore(present("p1", "Toaster", 500)), proc, nil, "eur")

	_, err := svc.CreatePaymentIntent(context.Background(), []string{"p1"}, "Ana", "  ")
	var pe *PaymentError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrTypeValidation, pe.Type)
	require.Zero(t, proc.intentCalls)
}

func TestCreatePaymentIntentFailsWhenNothingResolves(t *testing.T) {
	proc := &fakeProcessor{}
	svc := NewPaymentService(newFakePresentStore(), proc, nil, "eur")

	_, err := svc.CreatePaymentIntent(context.Background(), []string{"ghost"}, "Ana", "ana@example.com")
	var pe *PaymentError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrTypeValidation, pe.Type)
	require.Zero(t, proc.intentCalls)
}

func TestCreatePaymentIntentWithoutProcessorConfigured(t *testing.T) {
	svc := NewPaymentService(newFakePresentStore(present("p1", "Toaster", 500)), nil, nil, "eur")

	_, err := svc.CreatePaymentIntent(context.Background(), []string{"p1"}, "Ana", "ana@example.com")
	var pe *PaymentError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrTypeServerConfiguration, pe.Type)
}

func TestHandleWebhookRejectsInvalidSignature(t *testing.T) {
	store := newFakePresentStore(present("p1", "Toaster", 500))
	svc := NewPaymentService(store, nil, &fakeVerifier{err: errors.New("signature mismatch")}, "eur")

	err := svc.HandleWebhook(context.Background(), []byte(`{}`), "bad-sig")
	require.Error(t, err)
	require.Empty(t, store.soldCalls, "no item may be marked sold")
}

func TestHandleWebhookMarksItemsSoldAndSurvivesItemFailure(t *testing.T) {
	store := newFakePresentStore(
		present("p1", "Toaster", 500),
		present("p2", "Honeymoon fund", 1500),
	)
	store.markSoldErr["p2"] = errors.New("update failed")

	verifier := &fakeVerifier{event: &WebhookEvent{
		Type:     EventPaymentIntentSucceeded,
		ObjectID: "pi_123",
		Metadata: map[string]string{
			"productIds":    "p1,p2",
			"customerName":  "Ana",
			"customerEmail": "ana@example.com",
		},
	}}
	svc := NewPaymentService(store, nil, verifier, "eur")

	require.NoError(t, svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"))
	require.Equal(t, []string{"p1", "p2"}, store.soldCalls)

	p1, err := store.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	require.True(t, p1.IsSelected)
	require.NotNil(t, p1.BuyerName)
	require.Equal(t, "Ana", *p1.BuyerName)
	require.Equal(t, "ana@example.com", *p1.BuyerEmail)

	p2, err := store.GetByID(context.Background(), "p2")
	require.NoError(t, err)
	require.False(t, p2.IsSelected, "failed update must not flip the item")
}

func TestHandleWebhookIgnoresCheckoutCompleted(t *testing.T) {
	store := newFakePresentStore(present("p1", "Toaster", 500))
	verifier := &fakeVerifier{event: &WebhookEvent{
		Type:     EventCheckoutCompleted,
		ObjectID: "cs_1",
		Metadata: map[string]string{"productIds": "p1"},
	}}
	svc := NewPaymentService(store, nil, verifier, "eur")

	require.NoError(t, svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"))
	require.Empty(t, store.soldCalls)
}

func TestCreateCheckoutSessionUsesMirroredPrices(t *testing.T) {
	p1 := present("p1", "Toaster", 500)
	ref := "price_p1"
	p1.PriceRef = &ref
	store := newFakePresentStore(p1, present("p2", "No mirror", 900))
	proc := &fakeProcessor{}
	svc := NewPaymentService(store, proc, nil, "eur")

	url, err := svc.CreateCheckoutSession(context.Background(), []string{"p1", "p2"})
	require.NoError(t, err)
	require.Equal(t, "https://checkout.example/session", url)
	require.Equal(t, []string{"price_p1"}, proc.lastPriceRefs)
	require.Equal(t, "p1", proc.lastMetadata["productIds"])
}
