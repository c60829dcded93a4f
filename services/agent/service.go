package agent

import (
	"context"
	"time"

	chatRepo "busbook/database/repository/chat"
	"busbook/domain"
	"busbook/models"
	"busbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatResult is one completed conversation turn.
type ChatResult struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

// AgentService runs the conversational booking assistant: sessions, turns and
// history.
type AgentService interface {
	// Chat handles one turn. An empty sessionID starts a new session.
	Chat(ctx context.Context, userID, sessionID, message string) (*ChatResult, error)
	ListSessions(ctx context.Context, userID string, limit int) ([]models.ChatSession, error)
	GetHistory(ctx context.Context, userID, sessionID string) ([]models.ChatMessage, error)
	EndSession(ctx context.Context, userID, sessionID string) error
}

// DefaultAgentService implements AgentService.
type DefaultAgentService struct {
	ChatRepo chatRepo.ChatRepository
	CtxStore *RedisContextStore
	Conv     Conversation
}

// NewDefaultAgentService wires the agent service.
func NewDefaultAgentService(chats chatRepo.ChatRepository, ctxStore *RedisContextStore, conv Conversation) *DefaultAgentService {
	return &DefaultAgentService{ChatRepo: chats, CtxStore: ctxStore, Conv: conv}
}

func (s *DefaultAgentService) Chat(ctx context.Context, userID, sessionID, message string) (*ChatResult, error) {
	logger := utils.GetLogger()

	if message == "" {
		return nil, domain.ValidationError{Field: "message", Msg: "message is required"}
	}

	var session *models.ChatSession
	if sessionID == "" {
		session = &models.ChatSession{
			ID:        uuid.New().String(),
			SessionID: uuid.New().String(),
			UserID:    userID,
			IsActive:  true,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.ChatRepo.CreateSession(ctx, session); err != nil {
			return nil, err
		}
	} else {
		var err error
		session, err = s.ChatRepo.GetActiveSession(ctx, sessionID, userID)
		if err != nil {
			return nil, err
		}
	}

	history := s.loadHistory(ctx, session)

	now := time.Now().UTC()
	userMsg := models.ChatMessage{
		ID:        uuid.New().String(),
		SessionID: session.ID,
		Role:      models.ChatRoleUser,
		Content:   message,
		CreatedAt: now,
	}
	if err := s.ChatRepo.InsertMessage(ctx, &userMsg); err != nil {
		return nil, err
	}

	reply, err := s.Conv.Send(ctx, userID, history, message)
	if err != nil {
		logger.Error("agent turn failed",
			zap.String("sessionID", session.SessionID), zap.Error(err))
		return nil, domain.InternalError{Msg: "assistant is unavailable right now", Err: err}
	}

	assistantMsg := models.ChatMessage{
		ID:        uuid.New().String(),
		SessionID: session.ID,
		Role:      models.ChatRoleAssistant,
		Content:   reply,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.ChatRepo.InsertMessage(ctx, &assistantMsg); err != nil {
		return nil, err
	}

	if s.CtxStore != nil {
		cached := append(history, userMsg, assistantMsg)
		if cerr := s.CtxStore.Set(ctx, session.SessionID, cached); cerr != nil {
			logger.Warn("agent context cache write failed",
				zap.String("sessionID", session.SessionID), zap.Error(cerr))
		}
	}

	return &ChatResult{SessionID: session.SessionID, Reply: reply}, nil
}

// loadHistory prefers the Redis window and falls back to Mongo.
func (s *DefaultAgentService) loadHistory(ctx context.Context, session *models.ChatSession) []models.ChatMessage {
	if s.CtxStore != nil {
		if history, err := s.CtxStore.Get(ctx, session.SessionID); err == nil && history != nil {
			return history
		}
	}
	history, err := s.ChatRepo.ListMessages(ctx, session.ID)
	if err != nil {
		utils.GetLogger().Warn("could not load chat history",
			zap.String("sessionID", session.SessionID), zap.Error(err))
		return nil
	}
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	return history
}

func (s *DefaultAgentService) ListSessions(ctx context.Context, userID string, limit int) ([]models.ChatSession, error) {
	return s.ChatRepo.ListSessions(ctx, userID, limit)
}

func (s *DefaultAgentService) GetHistory(ctx context.Context, userID, sessionID string) ([]models.ChatMessage, error) {
	session, err := s.ChatRepo.GetSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	return s.ChatRepo.ListMessages(ctx, session.ID)
}

func (s *DefaultAgentService) EndSession(ctx context.Context, userID, sessionID string) error {
	if err := s.ChatRepo.EndSession(ctx, sessionID, userID); err != nil {
		return err
	}
	if s.CtxStore != nil {
		if err := s.CtxStore.Clear(ctx, sessionID); err != nil {
			utils.GetLogger().Warn("agent context cache clear failed",
				zap.String("sessionID", sessionID), zap.Error(err))
		}
	}
	return nil
}
