package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/joefazee/foresight/internal/security"
	"github.com/joefazee/foresight/models"
	"gorm.io/gorm"
)

type service struct {
	repo       Repository
	tokenMaker security.Maker
}

// NewService creates a new user service.
func NewService(repo Repository, tokenMaker security.Maker) Service {
	return &service{
		repo:       repo,
		tokenMaker: tokenMaker,
	}
}

func (s *service) Register(ctx context.Context, req *RegisterUserRequest) (*Response, error) {
	hashedPassword, err := models.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hashedPassword,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return &Response{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Identity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, models.ErrRecordNotFound) {
			return nil, errors.New("invalid credentials")
		}
		return nil, err
	}

	if user.IsLocked() {
		return nil, models.ErrAccountLocked
	}

	if !models.CheckPasswordHash(req.Password, user.PasswordHash) {
		user.IncrementFailedLogins()
		_ = s.repo.Update(ctx, user)
		return nil, errors.New("invalid credentials")
	}

	user.UpdateLastLogin(nil)
	_ = s.repo.Update(ctx, user)

	version := user.UpdatedAt.UnixNano()
	if user.UpdatedAt.IsZero() {
		version = 0
	}

	accessToken, _, err := s.tokenMaker.CreateToken(user.ID, 24*time.Hour, version, security.TokenScopeAccess)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken: accessToken,
		User: Response{
			ID:        user.ID,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		},
	}, nil
}

func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	_, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Don't reveal if the user exists or not
		return nil
	}
	// TODO: generate a short-lived reset token and email it
	return nil
}

func (s *service) ResetPassword(_ context.Context, _, _ string) error {
	// TODO: validate the reset token, look up its owner and update the password hash
	return nil
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*Response, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Response{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}
