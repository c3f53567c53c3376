package models

import "time"

type Wallet struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Name           string    `json:"name"`
	InitialBalance int64     `json:"initial_balance"`
	CurrentBalance int64     `json:"current_balance"`
	Color          *string   `json:"color,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type WalletPatch struct {
	Name           *string
	CurrentBalance *int64
	Color          *string
}

func (p WalletPatch) IsEmpty() bool {
	return p.Name == nil && p.CurrentBalance == nil && p.Color == nil
}
