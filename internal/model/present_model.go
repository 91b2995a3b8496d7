package model

import "time"

type Present struct {
	PresentID   string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       int64      `json:"price"` // minor currency units
	Category    string     `json:"category"`
	Image       string     `json:"image"`
	IsSelected  bool       `json:"isSelected"`
	BuyerName   *string    `json:"buyerName"`
	BuyerEmail  *string    `json:"buyerEmail"`
	Active      bool       `json:"active"`
	ProductRef  *string    `json:"-"` // processor product id, set when mirrored
	PriceRef    *string    `json:"priceId,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}
