// Package catalog is the client for the registry backend: the present list
// with a short-lived cache, the direct purchase path, and payment-intent
// creation.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"GiftRegistryAPI/pkg/retry"
)

type Present struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       int64   `json:"price"`
	PriceID     string  `json:"priceId,omitempty"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	IsSelected  bool    `json:"isSelected"`
	BuyerName   *string `json:"buyerName"`
	BuyerEmail  *string `json:"buyerEmail"`
	Active      bool    `json:"active"`
}

type IntentResult struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
}

// APIError carries the backend's typed error body.
type APIError struct {
	Type    string `json:"type"`
	Message string `json:"error"`
}

func (e *APIError) Error() string { return e.Message }

// Storage mirrors localstore.Store; the cache survives restarts through it.
type Storage interface {
	Get(key string, v any) (bool, error)
	Set(key string, v any) error
	Remove(key string) error
}

const (
	cacheKey        = "registry_products_cache"
	DefaultCacheTTL = 5 * time.Minute

	maxRetries     = 3
	baseRetryDelay = 500 * time.Millisecond
)

type cachedList struct {
	Data      []Present `json:"data"`
	Timestamp int64     `json:"timestamp"` // unix milliseconds
}

type Client struct {
	baseURL string
	http    *http.Client
	storage Storage // optional
	ttl     time.Duration

	mu  sync.Mutex
	mem *cachedList

	now func() time.Time
}

func New(baseURL string, storage Storage) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		storage: storage,
		ttl:     DefaultCacheTTL,
		now:     time.Now,
	}
}

// List returns the purchasable presents, serving from the time-boxed cache
// when it is still fresh. Rate-limited fetches are retried with exponential
// backoff before the error is surfaced.
func (c *Client) List(ctx context.Context) ([]Present, error) {
	if cached, ok := c.fromCache(); ok {
		return cached, nil
	}

	list, err := retry.Do(ctx, maxRetries, baseRetryDelay, retry.RateLimited, func() ([]Present, error) {
		return c.fetchPresents(ctx)
	})
	if err != nil {
		log.Printf("catalog: loading presents: %v", err)
		return nil, err
	}

	c.saveCache(list)
	return list, nil
}

// ForceReload drops both cache layers and fetches fresh data.
func (c *Client) ForceReload(ctx context.Context) ([]Present, error) {
	c.invalidate()
	return c.List(ctx)
}

func (c *Client) Get(ctx context.Context, id string) (*Present, error) {
	var p Present
	if err := c.doJSON(ctx, http.MethodGet, "/api/presents/"+id, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Purchase registers a direct purchase and returns the updated present.
// The cache is invalidated because availability just changed.
func (c *Client) Purchase(ctx context.Context, presentID, buyerName, buyerEmail string) (*Present, error) {
	body := map[string]string{
		"buyerName":  buyerName,
		"buyerEmail": buyerEmail,
	}
	var p Present
	if err := c.doJSON(ctx, http.MethodPost, "/api/presents/"+presentID+"/purchase", body, &p); err != nil {
		return nil, err
	}
	c.invalidate()
	return &p, nil
}

func (c *Client) CreatePaymentIntent(ctx context.Context, productIDs []string, name, email string) (*IntentResult, error) {
	body := map[string]any{
		"productIds": productIDs,
		"customerInfo": map[string]string{
			"name":  name,
			"email": email,
		},
	}
	var res IntentResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/payments/intent", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) fetchPresents(ctx context.Context) ([]Present, error) {
	var list []Present
	if err := c.doJSON(ctx, http.MethodGet, "/api/presents?available=true", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr APIError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Message != "" {
			return &apiErr
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.New("invalid response body")
	}
	return nil
}

func (c *Client) fromCache() ([]Present, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mem != nil && c.cacheFresh(c.mem.Timestamp) {
		return c.mem.Data, true
	}

	if c.storage != nil {
		var stored cachedList
		if ok, err := c.storage.Get(cacheKey, &stored); err == nil && ok {
			if c.cacheFresh(stored.Timestamp) {
				c.mem = &stored
				return stored.Data, true
			}
			_ = c.storage.Remove(cacheKey)
		}
	}
	return nil, false
}

func (c *Client) cacheFresh(tsMillis int64) bool {
	age := c.now().UnixMilli() - tsMillis
	return age >= 0 && time.Duration(age)*time.Millisecond < c.ttl
}

func (c *Client) saveCache(list []Present) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &cachedList{Data: list, Timestamp: c.now().UnixMilli()}
	c.mem = entry
	if c.storage != nil {
		if err := c.storage.Set(cacheKey, entry); err != nil {
			log.Printf("catalog: persisting cache: %v", err)
		}
	}
}

func (c *Client) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mem = nil
	if c.storage != nil {
		_ = c.storage.Remove(cacheKey)
	}
}
