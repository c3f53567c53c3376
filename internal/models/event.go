package models

import "time"

const (
	TopicUsers        = "users"
	TopicTransactions = "transactions"

	EventUserRegistered     = "user_registered"
	EventTransactionCreated = "transaction_created"
)

// Event is the envelope written to Kafka. Payload depends on Type.
type Event struct {
	ID        string    `json:"event_id"`
	Type      string    `json:"event_type"`
	CreatedAt time.Time `json:"created_at"`
	UserID    int64     `json:"user_id"`

	Username      string `json:"username,omitempty"`
	TransactionID int64  `json:"transaction_id,omitempty"`
	WalletID      int64  `json:"wallet_id,omitempty"`
	Amount        int64  `json:"amount,omitempty"`
}
