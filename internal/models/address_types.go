package models

import "time"

// Address is the model for the 'addresses' table. At most one row per user
// carries IsDefault=true; the address book enforces that inside a
// transaction when the default is swapped.
type Address struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Line1     string    `json:"line1" db:"line1"`
	Line2     string    `json:"line2,omitempty" db:"line2"`
	Town      string    `json:"town" db:"town"`
	City      string    `json:"city" db:"city"`
	Postcode  string    `json:"postcode" db:"postcode"`
	IsDefault bool      `json:"isDefault" db:"is_default"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
