package wallet

import (
	"context"
	"time"

	"busbook/database"
	walletRepo "busbook/database/repository/wallet"
	"busbook/domain"
	"busbook/models"
	"busbook/services/payment"
	"busbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddMoneyResult is the top-up outcome; Intent is set only for card top-ups.
type AddMoneyResult struct {
	Wallet *models.Wallet  `json:"wallet"`
	Intent *payment.Intent `json:"payment_intent,omitempty"`
}

// WalletService manages per-user balances and their transaction history.
type WalletService interface {
	// GetWallet returns the user's wallet, creating an empty one on first use.
	GetWallet(ctx context.Context, userID string) (*models.Wallet, error)
	AddMoney(ctx context.Context, userID string, input models.AddMoneyInput) (*AddMoneyResult, error)
	ListTransactions(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, int64, error)
}

// DefaultWalletService implements WalletService.
type DefaultWalletService struct {
	WalletRepo walletRepo.WalletRepository
	Tx         database.TxRunner
	PaymentSvc payment.PaymentService
}

// NewDefaultWalletService wires a wallet service over the given store.
func NewDefaultWalletService(wallets walletRepo.WalletRepository, tx database.TxRunner, paymentSvc payment.PaymentService) *DefaultWalletService {
	return &DefaultWalletService{WalletRepo: wallets, Tx: tx, PaymentSvc: paymentSvc}
}

func (s *DefaultWalletService) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	return s.WalletRepo.GetOrCreate(ctx, userID)
}

// AddMoney credits the wallet and appends the matching ledger entry in one
// transaction. Card top-ups create a payment intent first.
func (s *DefaultWalletService) AddMoney(ctx context.Context, userID string, input models.AddMoneyInput) (*AddMoneyResult, error) {
	if input.Amount <= 0 {
		return nil, domain.ValidationError{Field: "amount", Msg: "must be positive"}
	}
	amount := models.RupeesToMoney(input.Amount)

	wallet, err := s.WalletRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	var intent *payment.Intent
	if input.Method == models.PaymentMethodCard && s.PaymentSvc != nil {
		intent, err = s.PaymentSvc.CreateIntent(ctx, userID, amount, "wallet top-up")
		if err != nil {
			return nil, err
		}
	}

	err = s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if cerr := s.WalletRepo.ApplyCredit(txCtx, wallet.ID, amount); cerr != nil {
			return cerr
		}
		txn := &models.Transaction{
			ID:          uuid.New().String(),
			WalletID:    wallet.ID,
			Type:        models.TransactionCredit,
			Amount:      amount,
			Description: "Wallet top-up",
			CreatedAt:   time.Now().UTC(),
		}
		return s.WalletRepo.InsertTransaction(txCtx, txn)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.WalletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	utils.GetLogger().Info("wallet credited",
		zap.String("userID", userID),
		zap.Float64("amount", amount.Rupees()),
		zap.Float64("balance", updated.Balance.Rupees()),
	)
	return &AddMoneyResult{Wallet: updated, Intent: intent}, nil
}

func (s *DefaultWalletService) ListTransactions(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, int64, error) {
	wallet, err := s.WalletRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	txns, err := s.WalletRepo.ListTransactions(ctx, wallet.ID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.WalletRepo.CountTransactions(ctx, wallet.ID)
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}
