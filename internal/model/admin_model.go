package model

import "time"

type Admin struct {
	AdminID   int64     `json:"admin_id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"` // bcrypt hash
	CreatedAt time.Time `json:"created_at"`
}
