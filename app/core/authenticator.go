package core

import (
	"context"

	"github.com/google/uuid"

	"github.com/joefazee/foresight/app/user"
	"github.com/joefazee/foresight/models"
)

// userAuthenticator is the production Authenticator: a defense-in-depth
// re-check behind the HTTP layer's bearer-token verification
// (user.AuthMiddleware), confirming the caller still resolves to an active,
// unlocked account at the moment the controller opens its transaction.
type userAuthenticator struct {
	users user.Repository
}

// NewAuthenticator builds an Authenticator backed by the user repository.
func NewAuthenticator(users user.Repository) Authenticator {
	return &userAuthenticator{users: users}
}

func (a *userAuthenticator) Authenticate(ctx context.Context, identity uuid.UUID) error {
	u, err := a.users.GetByID(ctx, identity)
	if err != nil {
		return models.ErrUnauthorized
	}
	if !u.CanBet() {
		return models.ErrUnauthorized
	}
	return nil
}
