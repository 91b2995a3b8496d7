// Package cart holds the guest's selected presents. State changes go through
// a pure reducer; every mutation is persisted in full, and startup replays
// the stored entries back through the add path.
package cart

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"GiftRegistryAPI/client/catalog"
)

type Item struct {
	ID          string `json:"id"` // cart-entry id
	PresentID   string `json:"presentId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Quantity    int    `json:"quantity"` // always 1, presents are unique
}

type State struct {
	Items     []Item `json:"items"`
	Total     int64  `json:"total"`
	ItemCount int    `json:"itemCount"`
}

type command interface{ isCommand() }

type addItem struct{ item Item }
type removeItem struct{ id string }
type clearCart struct{}

func (addItem) isCommand()    {}
func (removeItem) isCommand() {}
func (clearCart) isCommand()  {}

// reduce computes the next cart state from the current one plus a command.
func reduce(state State, cmd command) State {
	switch c := cmd.(type) {
	case addItem:
		for _, it := range state.Items {
			if it.PresentID == c.item.PresentID {
				return state
			}
		}
		items := append(append([]Item(nil), state.Items...), c.item)
		return recompute(items)

	case removeItem:
		items := make([]Item, 0, len(state.Items))
		for _, it := range state.Items {
			if it.ID != c.id {
				items = append(items, it)
			}
		}
		return recompute(items)

	case clearCart:
		return State{}
	}
	return state
}

func recompute(items []Item) State {
	var total int64
	count := 0
	for _, it := range items {
		total += it.Price * int64(it.Quantity)
		count += it.Quantity
	}
	return State{Items: items, Total: total, ItemCount: count}
}

// Storage mirrors localstore.Store.
type Storage interface {
	Get(key string, v any) (bool, error)
	Set(key string, v any) error
	Remove(key string) error
}

const storageKey = "registry_cart"

type Store struct {
	mu      sync.Mutex
	state   State
	storage Storage // optional
}

// NewStore restores the persisted cart. Structurally invalid entries are
// dropped, quantities are forced back to 1 and the survivors are replayed
// through the add path (which also re-applies the uniqueness rule). A corrupt
// stored value yields an empty cart.
func NewStore(storage Storage) *Store {
	s := &Store{storage: storage}
	if storage == nil {
		return s
	}

	var raw []json.RawMessage
	ok, err := storage.Get(storageKey, &raw)
	if err != nil || !ok {
		return s
	}

	for _, entry := range raw {
		var it Item
		if json.Unmarshal(entry, &it) != nil {
			continue
		}
		if it.PresentID == "" || it.Name == "" || it.Price <= 0 {
			continue
		}
		if it.ID == "" {
			it.ID = entryID(it.PresentID)
		}
		it.Quantity = 1
		s.state = reduce(s.state, addItem{item: it})
	}
	return s
}

// Add puts a present in the cart. A present that is already there is left
// untouched and false is returned, so callers can suppress their "added"
// notification on a double click.
func (s *Store) Add(p catalog.Present) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := Item{
		ID:          entryID(p.ID),
		PresentID:   p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Image:       p.Image,
		Quantity:    1,
	}

	next := reduce(s.state, addItem{item: item})
	if len(next.Items) == len(s.state.Items) {
		return false
	}
	s.state = next
	s.persist()
	return true
}

// Remove deletes a cart entry by its entry id. Unknown ids are a no-op.
func (s *Store) Remove(entryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = reduce(s.state, removeItem{id: entryID})
	s.persist()
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = reduce(s.state, clearCart{})
	s.persist()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := s.state
	cp.Items = append([]Item(nil), s.state.Items...)
	return cp
}

func (s *Store) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Total
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ItemCount
}

// PresentIDs lists the referenced present ids in cart order.
func (s *Store) PresentIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.state.Items))
	for _, it := range s.state.Items {
		ids = append(ids, it.PresentID)
	}
	return ids
}

func (s *Store) persist() {
	if s.storage == nil {
		return
	}
	items := s.state.Items
	if items == nil {
		items = []Item{}
	}
	_ = s.storage.Set(storageKey, items)
}

func entryID(presentID string) string {
	return fmt.Sprintf("%s-%d", presentID, time.Now().UnixMilli())
}
