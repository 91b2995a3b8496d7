package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"GiftRegistryAPI/internal/model"
	"GiftRegistryAPI/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type stubPresents struct {
	byID map[string]*model.Present
}

func (s *stubPresents) Create(_ context.Context, p *model.Present) (string, error) {
	return p.PresentID, nil
}

func (s *stubPresents) GetByID(_ context.Context, id string) (*model.Present, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, errors.New("present not found")
	}
	return p, nil
}

func (s *stubPresents) List(_ context.Context, _ bool) ([]model.Present, error) { return nil, nil }
func (s *stubPresents) Update(_ context.Context, _ *model.Present) error        { return nil }
func (s *stubPresents) Delete(_ context.Context, _ string) error                { return nil }

func (s *stubPresents) MarkSold(_ context.Context, id, buyerName, buyerEmail string) error {
	p, ok := s.byID[id]
	if !ok {
		return errors.New("present not found")
	}
	p.IsSelected = true
	p.BuyerName = &buyerName
	p.BuyerEmail = &buyerEmail
	return nil
}

func (s *stubPresents) SetProcessorRefs(_ context.Context, _, _, _ string) error { return nil }
func (s *stubPresents) CountAll(_ context.Context) (int64, error)                { return 0, nil }
func (s *stubPresents) CountSelected(_ context.Context) (int64, error)           { return 0, nil }

type stubProcessor struct{}

func (stubProcessor) CreatePaymentIntent(_ context.Context, _ int64, _ string, _ map[string]string) (string, string, error) {
	return "pi_123", "pi_123_secret_abc", nil
}

func (stubProcessor) CreateCheckoutSession(_ context.Context, _ []string, _ map[string]string) (string, error) {
	return "https://checkout.example/session", nil
}

func (stubProcessor) CreateProduct(_ context.Context, _ *model.Present) (string, string, error) {
	return "", "", nil
}

func (stubProcessor) CreatePrice(_ context.Context, _ string, _ int64) (string, error) {
	return "", nil
}

func (stubProcessor) DeactivateProduct(_ context.Context, _ string) error { return nil }
func (stubProcessor) Ping(_ context.Context) error                        { return nil }

type stubVerifier struct {
	event *services.WebhookEvent
	err   error
}

func (v *stubVerifier) VerifyEvent(_ []byte, _ string) (*services.WebhookEvent, error) {
	return v.event, v.err
}

func paymentTestServer(verifier services.WebhookVerifier) (*echo.Echo, *stubPresents) {
	presents := &stubPresents{byID: map[string]*model.Present{
		"p1": {PresentID: "p1", Name: "Toaster", Price: 500, Active: true},
	}}
	ps := services.NewPaymentService(presents, stubProcessor{}, verifier, "eur")

	e := echo.New()
	registerPaymentRoutes(e.Group("/api"), ps)
	return e, presents
}

func TestPaymentIntentEndpoint(t *testing.T) {
	e, _ := paymentTestServer(nil)

	body := `{"productIds":["p1"],"customerInfo":{"name":"Ana","email":"ana@example.com"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/payments/intent", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"clientSecret":"pi_123_secret_abc"`)
	require.Contains(t, rec.Body.String(), `"amount":500`)
}

func TestPaymentIntentEndpointValidation(t *testing.T) {
	e, _ := paymentTestServer(nil)

	body := `{"productIds":[],"customerInfo":{"name":"Ana","email":"ana@example.com"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/payments/intent", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), services.ErrTypeValidation)
}

func TestWebhookEndpointRejectsBadSignature(t *testing.T) {
	e, presents := paymentTestServer(&stubVerifier{err: errors.New("signature verification failed")})

	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=bogus")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, presents.byID["p1"].IsSelected)
}

func TestWebhookEndpointMarksPresentSold(t *testing.T) {
	e, presents := paymentTestServer(&stubVerifier{event: &services.WebhookEvent{
		Type:     services.EventPaymentIntentSucceeded,
		ObjectID: "pi_123",
		Metadata: map[string]string{
			"productIds":    "p1",
			"customerName":  "Ana",
			"customerEmail": "ana@example.com",
		},
	}})

	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=valid")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"received":true`)
	require.True(t, presents.byID["p1"].IsSelected)
	require.Equal(t, "Ana", *presents.byID["p1"].BuyerName)
}
