package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"GiftRegistryAPI/internal/model"
	"GiftRegistryAPI/internal/services"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// Client wraps the processor SDK behind the service-layer interfaces.
type Client struct {
	api           *client.API
	webhookSecret string
	successURL    string
	cancelURL     string
}

func NewClient() (*Client, error) {
	key := os.Getenv("STRIPE_SECRET_KEY")
	if key == "" {
		return nil, errors.New("STRIPE_SECRET_KEY not set")
	}

	api := &client.API{}
	api.Init(key, nil)

	base := os.Getenv("FRONT_BASE_URL")
	if base == "" {
		base = "http://localhost:5173"
	}

	return &Client{
		api:           api,
		webhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET_KEY"),
		successURL:    base + "/success",
		cancelURL:     base + "/checkout",
	}, nil
}

func (c *Client) CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("always"),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return "", "", err
	}
	return pi.ID, pi.ClientSecret, nil
}

func (c *Client) CreateCheckoutSession(ctx context.Context, priceRefs []string, metadata map[string]string) (string, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(priceRefs))
	for _, ref := range priceRefs {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(ref),
			Quantity: stripe.Int64(1),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(c.successURL),
		CancelURL:  stripe.String(c.cancelURL),
		// Propagated to the session's payment intent so completion
		// reaches the webhook as payment_intent.succeeded.
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: metadata,
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

func (c *Client) CreateProduct(ctx context.Context, p *model.Present) (string, string, error) {
	params := &stripe.ProductParams{
		Name:        stripe.String(p.Name),
		Description: stripe.String(p.Description),
		DefaultPriceData: &stripe.ProductDefaultPriceDataParams{
			UnitAmount: stripe.Int64(p.Price),
			Currency:   stripe.String("eur"),
		},
	}
	params.Context = ctx
	if p.Image != "" {
		params.Images = []*string{stripe.String(p.Image)}
	}
	params.AddMetadata("category", p.Category)
	params.AddMetadata("registry_present_id", p.PresentID)

	prod, err := c.api.Products.New(params)
	if err != nil {
		return "", "", err
	}

	priceRef := ""
	if prod.DefaultPrice != nil {
		priceRef = prod.DefaultPrice.ID
	}
	return prod.ID, priceRef, nil
}

func (c *Client) CreatePrice(ctx context.Context, productRef string, amount int64) (string, error) {
	params := &stripe.PriceParams{
		Product:    stripe.String(productRef),
		UnitAmount: stripe.Int64(amount),
		Currency:   stripe.String("eur"),
	}
	params.Context = ctx

	price, err := c.api.Prices.New(params)
	if err != nil {
		return "", err
	}
	return price.ID, nil
}

func (c *Client) DeactivateProduct(ctx context.Context, productRef string) error {
	params := &stripe.ProductParams{Active: stripe.Bool(false)}
	params.Context = ctx
	_, err := c.api.Products.Update(productRef, params)
	return err
}

func (c *Client) Ping(ctx context.Context) error {
	params := &stripe.ProductListParams{}
	params.Context = ctx
	params.Limit = stripe.Int64(1)

	iter := c.api.Products.List(params)
	iter.Next()
	return iter.Err()
}

// VerifyEvent checks the signature over the raw payload bytes and decodes
// the event into the service-level form.
func (c *Client) VerifyEvent(payload []byte, signature string) (*services.WebhookEvent, error) {
	if c.webhookSecret == "" {
		return nil, errors.New("STRIPE_WEBHOOK_SECRET_KEY not set")
	}

	event, err := webhook.ConstructEvent(payload, signature, c.webhookSecret)
	if err != nil {
		return nil, err
	}

	var object struct {
		ID       string            `json:"id"`
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(event.Data.Raw, &object); err != nil {
		return nil, err
	}

	return &services.WebhookEvent{
		Type:     string(event.Type),
		ObjectID: object.ID,
		Metadata: object.Metadata,
	}, nil
}
