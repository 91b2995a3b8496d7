// Package checkout drives the payment flow as a state machine: buyer info is
// collected, a payment handle is prefetched once the info validates, the
// payment form confirms against the handle's client secret.
package checkout

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"GiftRegistryAPI/client/cart"
	"GiftRegistryAPI/client/catalog"
)

type State string

const (
	StateCollectingInfo        State = "collecting-info"
	StateAwaitingPaymentHandle State = "awaiting-payment-handle"
	StatePaymentFormActive     State = "payment-form-active"
	StateSucceeded             State = "succeeded"
	StateFailed                State = "failed"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrNoPaymentForm = errors.New("no active payment form")
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// IntentCreator requests a payment handle from the backend.
// *catalog.Client implements it.
type IntentCreator interface {
	CreatePaymentIntent(ctx context.Context, productIDs []string, name, email string) (*catalog.IntentResult, error)
}

// PaymentForm confirms a payment against the handle's client secret.
type PaymentForm interface {
	Confirm(ctx context.Context, clientSecret string) error
}

const DefaultDebounce = time.Second

type Orchestrator struct {
	cart    *cart.Store
	intents IntentCreator
	form    PaymentForm

	// Debounce spacing between the last buyer-info keystroke and the
	// payment-handle prefetch.
	Debounce time.Duration

	mu       sync.Mutex
	state    State
	name     string
	email    string
	secret   string
	intentID string
	amount   int64
	currency string
	lastErr  string
	inFlight bool
	timer    *time.Timer
}

func New(cartStore *cart.Store, intents IntentCreator, form PaymentForm) *Orchestrator {
	return &Orchestrator{
		cart:     cartStore,
		intents:  intents,
		form:     form,
		Debounce: DefaultDebounce,
		state:    StateCollectingInfo,
	}
}

// Begin checks the empty-cart guard; callers redirect to the catalog when it
// fails.
func (o *Orchestrator) Begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cart.Count() == 0 && o.state != StateSucceeded {
		return ErrEmptyCart
	}
	return nil
}

// SetBuyerInfo records a keystroke-level update. Once both fields validate,
// the payment handle is prefetched after the debounce window instead of
// waiting for an explicit submit.
func (o *Orchestrator) SetBuyerInfo(name, email string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.name = strings.TrimSpace(name)
	o.email = strings.TrimSpace(email)

	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}

	if o.state != StateCollectingInfo || !buyerInfoValid(o.name, o.email) {
		return
	}

	o.timer = time.AfterFunc(o.Debounce, func() {
		_ = o.RequestPaymentHandle(context.Background())
	})
}

// RequestPaymentHandle asks the backend for a client secret for the current
// cart. A handle that already exists, or a request already in flight, makes
// this a no-op so duplicate handles are never created.
func (o *Orchestrator) RequestPaymentHandle(ctx context.Context) error {
	o.mu.Lock()
	if o.secret != "" || o.inFlight {
		o.mu.Unlock()
		return nil
	}
	if o.state != StateCollectingInfo {
		o.mu.Unlock()
		return nil
	}
	if !buyerInfoValid(o.name, o.email) {
		o.mu.Unlock()
		return errors.New("buyer name and email are required")
	}

	ids := o.cart.PresentIDs()
	if len(ids) == 0 {
		o.mu.Unlock()
		return ErrEmptyCart
	}

	name, email := o.name, o.email
	o.state = StateAwaitingPaymentHandle
	o.inFlight = true
	o.mu.Unlock()

	res, err := o.intents.CreatePaymentIntent(ctx, ids, name, email)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.inFlight = false

	if err != nil {
		// Back to collecting so the guest can correct and retry.
		o.lastErr = err.Error()
		o.state = StateCollectingInfo
		return err
	}

	o.secret = res.ClientSecret
	o.intentID = res.PaymentIntentID
	o.amount = res.Amount
	o.currency = res.Currency
	o.lastErr = ""
	o.state = StatePaymentFormActive
	return nil
}

// ConfirmPayment runs the payment form against the stored client secret.
// Success clears the cart; failure keeps the form active for a retry with
// the buyer info and cart intact.
func (o *Orchestrator) ConfirmPayment(ctx context.Context) error {
	o.mu.Lock()
	if o.state != StatePaymentFormActive {
		o.mu.Unlock()
		return ErrNoPaymentForm
	}
	secret := o.secret
	o.mu.Unlock()

	err := o.form.Confirm(ctx, secret)

	o.mu.Lock()
	defer o.mu.Unlock()

	if err != nil {
		o.lastErr = friendlyMessage(err)
		return err
	}

	o.cart.Clear()
	o.lastErr = ""
	o.state = StateSucceeded
	return nil
}

// Fail moves the session to its terminal failed state.
func (o *Orchestrator) Fail(reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lastErr = reason
	o.state = StateFailed
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) ClientSecret() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.secret
}

func (o *Orchestrator) Amount() (int64, string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.amount, o.currency
}

func (o *Orchestrator) LastError() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// Stop cancels a pending debounce prefetch.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
}

func buyerInfoValid(name, email string) bool {
	return len(name) >= 2 && emailPattern.MatchString(email)
}

// friendlyMessage rewrites known processor error codes into text a guest can
// act on; everything else passes through untouched.
func friendlyMessage(err error) string {
	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "email_invalid") || strings.Contains(lower, "invalid email"):
		return "The email address looks invalid. Please check it and try again."
	case strings.Contains(lower, "card_declined"):
		return "The card was declined. Try another payment method."
	case strings.Contains(lower, "expired_card"):
		return "The card has expired. Try another card."
	}
	return msg
}
