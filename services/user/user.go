package user

import (
	"context"
	"strings"
	"time"

	userRepo "busbook/database/repository/user"
	walletRepo "busbook/database/repository/wallet"
	"busbook/domain"
	"busbook/models"
	"busbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// UserService handles registration and authentication.
type UserService interface {
	Register(ctx context.Context, input models.RegisterInput) (*models.AuthResponse, error)
	Login(ctx context.Context, input models.LoginInput) (*models.AuthResponse, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// DefaultUserService implements UserService.
type DefaultUserService struct {
	UserRepo   userRepo.UserRepository
	WalletRepo walletRepo.WalletRepository
}

// NewDefaultUserService wires a user service over the given stores.
func NewDefaultUserService(users userRepo.UserRepository, wallets walletRepo.WalletRepository) *DefaultUserService {
	return &DefaultUserService{UserRepo: users, WalletRepo: wallets}
}

// Register creates the user and their empty wallet, then issues a token.
func (s *DefaultUserService) Register(ctx context.Context, input models.RegisterInput) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}

	u := &models.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: string(hash),
		PhoneNumber:  input.PhoneNumber,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.UserRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	if _, err := s.WalletRepo.GetOrCreate(ctx, u.ID); err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(u.ID, u.Email, tokenTTL)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}

	utils.GetLogger().Info("user registered", zap.String("userID", u.ID))
	return &models.AuthResponse{Token: token, User: u}, nil
}

func (s *DefaultUserService) Login(ctx context.Context, input models.LoginInput) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	u, err := s.UserRepo.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.ValidationError{Field: "email", Msg: "invalid email or password"}
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ValidationError{Field: "password", Msg: "invalid email or password"}
	}

	token, err := utils.GenerateToken(u.ID, u.Email, tokenTTL)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return &models.AuthResponse{Token: token, User: u}, nil
}

func (s *DefaultUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.UserRepo.GetByID(ctx, id)
}
