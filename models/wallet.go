package models

import "time"

// Wallet holds a user's stored-value balance. One wallet per user, created
// lazily on first access. Balance never goes negative and is mutated only
// through debit/credit operations that append a Transaction.
type Wallet struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"` // unique
	Balance   Money     `bson:"balance" json:"balance"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Transaction types.
const (
	TransactionCredit = "credit"
	TransactionDebit  = "debit"
)

// Transaction is one append-only wallet ledger entry. At every point the
// wallet balance equals sum(credits) - sum(debits) since creation.
type Transaction struct {
	ID          string    `bson:"id" json:"id"`
	WalletID    string    `bson:"wallet_id" json:"wallet_id"`
	Type        string    `bson:"type" json:"type"`
	Amount      Money     `bson:"amount" json:"amount"` // always positive
	Description string    `bson:"description" json:"description"`
	ReferenceID string    `bson:"reference_id,omitempty" json:"reference_id,omitempty"` // booking id if related
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
