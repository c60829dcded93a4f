package chatRepo

import (
	"context"
	"fmt"
	"time"

	"busbook/database"
	"busbook/domain"
	"busbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChatRepository persists agent conversations.
type ChatRepository interface {
	CreateSession(ctx context.Context, session *models.ChatSession) error
	// GetActiveSession loads an active session by its public session id,
	// scoped to the owning user.
	GetActiveSession(ctx context.Context, sessionID, userID string) (*models.ChatSession, error)
	GetSession(ctx context.Context, sessionID, userID string) (*models.ChatSession, error)
	ListSessions(ctx context.Context, userID string, limit int) ([]models.ChatSession, error)
	EndSession(ctx context.Context, sessionID, userID string) error
	InsertMessage(ctx context.Context, msg *models.ChatMessage) error
	ListMessages(ctx context.Context, sessionDocID string) ([]models.ChatMessage, error)
}

// MongoChatRepo implements ChatRepository using MongoDB.
type MongoChatRepo struct {
	sessions *mongo.Collection
	messages *mongo.Collection
}

// NewMongoChatRepo constructs a chat repository.
func NewMongoChatRepo() ChatRepository {
	db := database.DB()
	return &MongoChatRepo{
		sessions: db.Collection("chat_sessions"),
		messages: db.Collection("chat_messages"),
	}
}

func (r *MongoChatRepo) CreateSession(ctx context.Context, session *models.ChatSession) error {
	if _, err := r.sessions.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("error creating chat session: %w", err)
	}
	return nil
}

func (r *MongoChatRepo) GetActiveSession(ctx context.Context, sessionID, userID string) (*models.ChatSession, error) {
	var session models.ChatSession
	err := r.sessions.FindOne(ctx, bson.M{
		"session_id": sessionID,
		"user_id":    userID,
		"is_active":  true,
	}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.NotFoundError{Resource: "chat session"}
		}
		return nil, fmt.Errorf("error fetching chat session: %w", err)
	}
	return &session, nil
}

func (r *MongoChatRepo) GetSession(ctx context.Context, sessionID, userID string) (*models.ChatSession, error) {
	var session models.ChatSession
	err := r.sessions.FindOne(ctx, bson.M{
		"session_id": sessionID,
		"user_id":    userID,
	}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.NotFoundError{Resource: "chat session"}
		}
		return nil, fmt.Errorf("error fetching chat session: %w", err)
	}
	return &session, nil
}

func (r *MongoChatRepo) ListSessions(ctx context.Context, userID string, limit int) ([]models.ChatSession, error) {
	if limit <= 0 {
		limit = 10
	}
	cursor, err := r.sessions.Find(ctx, bson.M{"user_id": userID},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("error fetching chat sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []models.ChatSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("error decoding chat sessions: %w", err)
	}
	return sessions, nil
}

func (r *MongoChatRepo) EndSession(ctx context.Context, sessionID, userID string) error {
	now := time.Now().UTC()
	res, err := r.sessions.UpdateOne(ctx,
		bson.M{"session_id": sessionID, "user_id": userID},
		bson.M{"$set": bson.M{"is_active": false, "ended_at": now}})
	if err != nil {
		return fmt.Errorf("error ending chat session: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.NotFoundError{Resource: "chat session"}
	}
	return nil
}

func (r *MongoChatRepo) InsertMessage(ctx context.Context, msg *models.ChatMessage) error {
	if _, err := r.messages.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("error inserting chat message: %w", err)
	}
	return nil
}

func (r *MongoChatRepo) ListMessages(ctx context.Context, sessionDocID string) ([]models.ChatMessage, error) {
	cursor, err := r.messages.Find(ctx, bson.M{"session_id": sessionDocID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error fetching chat messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []models.ChatMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("error decoding chat messages: %w", err)
	}
	return messages, nil
}
