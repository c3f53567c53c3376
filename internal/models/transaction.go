package models

import "time"

type Transaction struct {
	ID          int64     `json:"id"`
	WalletID    int64     `json:"wallet_id"`
	CategoryID  int64     `json:"category_id"`
	Amount      int64     `json:"amount"`
	Description *string   `json:"description,omitempty"`
	Ts          time.Time `json:"ts"`
}

type TransactionPatch struct {
	CategoryID  *int64
	Amount      *int64
	Description *string
	Ts          *time.Time
}

func (p TransactionPatch) IsEmpty() bool {
	return p.CategoryID == nil && p.Amount == nil && p.Description == nil && p.Ts == nil
}

// TimeRange bounds a transaction listing. Zero values mean unbounded.
type TimeRange struct {
	From time.Time
	To   time.Time
}
