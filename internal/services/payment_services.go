package services

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"GiftRegistryAPI/internal/model"

	stripe "github.com/stripe/stripe-go/v79"
)

// Error types surfaced to API callers.
const (
	ErrTypeServerConfiguration = "server_configuration_error"
	ErrTypeValidation          = "validation_error"
	ErrTypeAuthentication      = "authentication_error"
	ErrTypeServer              = "server_error"
)

type PaymentError struct {
	Type    string
	Message string
}

func (e *PaymentError) Error() string { return e.Message }

func paymentErrf(errType, msg string) *PaymentError {
	return &PaymentError{Type: errType, Message: msg}
}

// PaymentProcessor is the slice of the processor SDK the services use.
// *stripeext.Client implements it; tests use fakes.
type PaymentProcessor interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (id, clientSecret string, err error)
	CreateCheckoutSession(ctx context.Context, priceRefs []string, metadata map[string]string) (url string, err error)
	CreateProduct(ctx context.Context, p *model.Present) (productRef, priceRef string, err error)
	CreatePrice(ctx context.Context, productRef string, amount int64) (priceRef string, err error)
	DeactivateProduct(ctx context.Context, productRef string) error
	Ping(ctx context.Context) error
}

// WebhookEvent is the verified, decoded form of a processor callback.
type WebhookEvent struct {
	Type     string
	ObjectID string
	Metadata map[string]string
}

// WebhookVerifier checks the processor signature over the raw payload bytes.
type WebhookVerifier interface {
	VerifyEvent(payload []byte, signature string) (*WebhookEvent, error)
}

// Canonical webhook event types. Only the payment-intent event mutates the
// catalog; see DESIGN.md for the choice.
const (
	EventPaymentIntentSucceeded = "payment_intent.succeeded"
	EventCheckoutCompleted      = "checkout.session.completed"
)

const metadataIDSeparator = ","

type PaymentIntentResult struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
}

type PaymentService struct {
	Presents  PresentStore
	Processor PaymentProcessor
	Verifier  WebhookVerifier
	Currency  string
}

func NewPaymentService(presents PresentStore, processor PaymentProcessor, verifier WebhookVerifier, currency string) *PaymentService {
	if currency == "" {
		currency = "eur"
	}
	return &PaymentService{
		Presents:  presents,
		Processor: processor,
		Verifier:  verifier,
		Currency:  currency,
	}
}

// CreatePaymentIntent recomputes the order total from current catalog prices
// and creates a payment handle with the processor. Ids that fail to resolve
// are skipped and omitted from the metadata; the client-sent prices are never
// trusted.
func (s *PaymentService) CreatePaymentIntent(
	ctx context.Context,
	productIDs []string,
	buyerName, buyerEmail string,
) (*PaymentIntentResult, error) {

	if s.Processor == nil {
		return nil, paymentErrf(ErrTypeServerConfiguration, "payment processor credentials are not configured")
	}

	if len(productIDs) == 0 {
		return nil, paymentErrf(ErrTypeValidation, "provide a valid list of product ids")
	}
	if strings.TrimSpace(buyerName) == "" || strings.TrimSpace(buyerEmail) == "" {
		return nil, paymentErrf(ErrTypeValidation, "customer name and email are required")
	}

	var (
		total       int64
		resolvedIDs []string
		names       []string
	)
	for _, id := range productIDs {
		p, err := s.Presents.GetByID(ctx, id)
		if err != nil {
			log.Printf("payment: skipping unresolved present %s: %v", id, err)
			continue
		}
		total += p.Price
		resolvedIDs = append(resolvedIDs, id)
		names = append(names, p.Name)
	}

	if total == 0 {
		return nil, paymentErrf(ErrTypeValidation, "no valid products found")
	}

	metadata := map[string]string{
		"productIds":    strings.Join(resolvedIDs, metadataIDSeparator),
		"customerName":  buyerName,
		"customerEmail": buyerEmail,
		"productNames":  strings.Join(names, ", "),
	}

	id, secret, err := s.Processor.CreatePaymentIntent(ctx, total, s.Currency, metadata)
	if err != nil {
		return nil, classifyProcessorError(err)
	}

	return &PaymentIntentResult{
		ClientSecret:    secret,
		PaymentIntentID: id,
		Amount:          total,
		Currency:        s.Currency,
	}, nil
}

// CreateCheckoutSession is the hosted-checkout fallback. The session embeds
// the same metadata into its payment intent, so completion still arrives as
// the canonical payment_intent.succeeded event.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, productIDs []string) (string, error) {
	if s.Processor == nil {
		return "", paymentErrf(ErrTypeServerConfiguration, "payment processor credentials are not configured")
	}
	if len(productIDs) == 0 {
		return "", paymentErrf(ErrTypeValidation, "provide a valid list of product ids")
	}

	var (
		priceRefs   []string
		resolvedIDs []string
	)
	for _, id := range productIDs {
		p, err := s.Presents.GetByID(ctx, id)
		if err != nil || p.PriceRef == nil || *p.PriceRef == "" {
			log.Printf("payment: skipping present %s without processor price", id)
			continue
		}
		priceRefs = append(priceRefs, *p.PriceRef)
		resolvedIDs = append(resolvedIDs, id)
	}
	if len(priceRefs) == 0 {
		return "", paymentErrf(ErrTypeValidation, "no valid products found")
	}

	url, err := s.Processor.CreateCheckoutSession(ctx, priceRefs, map[string]string{
		"productIds": strings.Join(resolvedIDs, metadataIDSeparator),
	})
	if err != nil {
		return "", classifyProcessorError(err)
	}
	return url, nil
}

// HandleWebhook verifies and consumes a processor callback. A bad signature
// aborts before any catalog mutation; item-level update failures are logged
// and the remaining ids are still processed.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.Verifier == nil {
		return paymentErrf(ErrTypeServerConfiguration, "webhook secret is not configured")
	}

	event, err := s.Verifier.VerifyEvent(payload, signature)
	if err != nil {
		return err
	}

	switch event.Type {
	case EventPaymentIntentSucceeded:
		ids := splitMetadataIDs(event.Metadata["productIds"])
		if len(ids) == 0 {
			log.Printf("webhook: %s %s carries no product ids", event.Type, event.ObjectID)
			return nil
		}
		buyerName := event.Metadata["customerName"]
		buyerEmail := event.Metadata["customerEmail"]
		for _, id := range ids {
			if err := s.Presents.MarkSold(ctx, id, buyerName, buyerEmail); err != nil {
				log.Printf("webhook: marking present %s sold: %v", id, err)
			}
		}

	case EventCheckoutCompleted:
		// Session completion is covered by the payment_intent.succeeded
		// event carrying the same metadata; acknowledged only.
		log.Printf("webhook: checkout session %s completed", event.ObjectID)

	default:
		log.Printf("webhook: ignoring event type %s", event.Type)
	}

	return nil
}

// ProcessorStatus reports whether the processor is reachable with the
// configured credentials.
func (s *PaymentService) ProcessorStatus(ctx context.Context) error {
	if s.Processor == nil {
		return paymentErrf(ErrTypeServerConfiguration, "payment processor credentials are not configured")
	}
	if err := s.Processor.Ping(ctx); err != nil {
		return classifyProcessorError(err)
	}
	return nil
}

func splitMetadataIDs(joined string) []string {
	var ids []string
	for _, id := range strings.Split(joined, metadataIDSeparator) {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func classifyProcessorError(err error) *PaymentError {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		switch {
		case stripeErr.HTTPStatusCode == http.StatusUnauthorized:
			return paymentErrf(ErrTypeAuthentication, "payment processor rejected the API credentials")
		case stripeErr.Type == stripe.ErrorTypeInvalidRequest:
			return paymentErrf(ErrTypeValidation, stripeErr.Msg)
		}
	}
	return paymentErrf(ErrTypeServer, "payment processor request failed")
}
