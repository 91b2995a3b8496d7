package model

import "time"

type GiftSelection struct {
	SelectionID   string    `json:"selection_id"`
	PresentID     string    `json:"present_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	SelectionDate time.Time `json:"selection_date"`
}

// SelectionWithPresent is the joined row returned by admin listings.
type SelectionWithPresent struct {
	GiftSelection
	PresentName        string `json:"present_name"`
	PresentDescription string `json:"present_description"`
	PresentPrice       int64  `json:"present_price"`
	PresentCategory    string `json:"present_category"`
	PresentImage       string `json:"present_image"`
}
