package walletRepo

import (
	"context"
	"fmt"
	"time"

	"busbook/database"
	"busbook/domain"
	"busbook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoWalletRepo implements WalletRepository using MongoDB.
type MongoWalletRepo struct {
	wallets      *mongo.Collection
	transactions *mongo.Collection
}

// NewMongoWalletRepo constructs a wallet repository.
func NewMongoWalletRepo() WalletRepository {
	db := database.DB()
	return &MongoWalletRepo{
		wallets:      db.Collection("wallets"),
		transactions: db.Collection("transactions"),
	}
}

func (r *MongoWalletRepo) GetOrCreate(ctx context.Context, userID string) (*models.Wallet, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$setOnInsert": bson.M{
			"id":         uuid.New().String(),
			"user_id":    userID,
			"balance":    int64(0),
			"created_at": now,
			"updated_at": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var wallet models.Wallet
	err := r.wallets.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update, opts).Decode(&wallet)
	if err != nil {
		return nil, fmt.Errorf("error getting or creating wallet for user %s: %w", userID, err)
	}
	return &wallet, nil
}

func (r *MongoWalletRepo) GetByUserID(ctx context.Context, userID string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.wallets.FindOne(ctx, bson.M{"user_id": userID}).Decode(&wallet); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.NotFoundError{Resource: "wallet"}
		}
		return nil, fmt.Errorf("error fetching wallet for user %s: %w", userID, err)
	}
	return &wallet, nil
}

func (r *MongoWalletRepo) ApplyDebit(ctx context.Context, walletID string, amount models.Money) error {
	res, err := r.wallets.UpdateOne(ctx, bson.M{
		"id":      walletID,
		"balance": bson.M{"$gte": int64(amount)},
	}, bson.M{
		"$inc": bson.M{"balance": -int64(amount)},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("error debiting wallet %s: %w", walletID, err)
	}
	if res.MatchedCount == 0 {
		return domain.BusinessError{
			Code: domain.CodeInsufficientBalance,
			Msg:  "insufficient wallet balance",
		}
	}
	return nil
}

func (r *MongoWalletRepo) ApplyCredit(ctx context.Context, walletID string, amount models.Money) error {
	res, err := r.wallets.UpdateOne(ctx, bson.M{"id": walletID}, bson.M{
		"$inc": bson.M{"balance": int64(amount)},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("error crediting wallet %s: %w", walletID, err)
	}
	if res.MatchedCount == 0 {
		return domain.NotFoundError{Resource: "wallet"}
	}
	return nil
}

func (r *MongoWalletRepo) InsertTransaction(ctx context.Context, txn *models.Transaction) error {
	if _, err := r.transactions.InsertOne(ctx, txn); err != nil {
		return fmt.Errorf("error inserting transaction: %w", err)
	}
	return nil
}

func (r *MongoWalletRepo) ListTransactions(ctx context.Context, walletID string, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	cursor, err := r.transactions.Find(ctx, bson.M{"wallet_id": walletID},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetSkip(int64(offset)).
			SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("error fetching transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var txns []models.Transaction
	if err := cursor.All(ctx, &txns); err != nil {
		return nil, fmt.Errorf("error decoding transactions: %w", err)
	}
	return txns, nil
}

func (r *MongoWalletRepo) CountTransactions(ctx context.Context, walletID string) (int64, error) {
	count, err := r.transactions.CountDocuments(ctx, bson.M{"wallet_id": walletID})
	if err != nil {
		return 0, fmt.Errorf("error counting transactions: %w", err)
	}
	return count, nil
}
