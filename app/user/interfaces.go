package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/joefazee/foresight/models"
)

// Repository persists and retrieves user accounts.
type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	GetUsers(ctx context.Context, filters *AdminUserFilters) ([]models.User, int64, error)
	UpdateUserStatus(ctx context.Context, userID uuid.UUID, isActive bool) error
}

// Service implements the user-facing registration/authentication flows.
type Service interface {
	Register(ctx context.Context, req *RegisterUserRequest) (*Response, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*Response, error)
}

// AdminUserFilters narrows the paginated admin user listing.
type AdminUserFilters struct {
	Page      int
	PerPage   int
	Status    string
	Search    string
	SortBy    string
	SortOrder string
}
