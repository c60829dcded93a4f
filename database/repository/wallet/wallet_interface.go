package walletRepo

import (
	"context"

	"busbook/models"
)

// WalletRepository is the per-user balance store plus its append-only
// transaction log. Debit is a guarded write (balance must cover the amount);
// GetOrCreate is an upsert backed by a unique index on user_id so concurrent
// first-use cannot create two wallets.
type WalletRepository interface {
	GetOrCreate(ctx context.Context, userID string) (*models.Wallet, error)
	GetByUserID(ctx context.Context, userID string) (*models.Wallet, error)
	// ApplyDebit decreases the balance; returns a BusinessError with code
	// insufficient_balance when the balance does not cover the amount.
	ApplyDebit(ctx context.Context, walletID string, amount models.Money) error
	ApplyCredit(ctx context.Context, walletID string, amount models.Money) error
	InsertTransaction(ctx context.Context, txn *models.Transaction) error
	ListTransactions(ctx context.Context, walletID string, limit, offset int) ([]models.Transaction, error)
	CountTransactions(ctx context.Context, walletID string) (int64, error)
}
