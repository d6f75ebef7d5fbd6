package user

import (
	"github.com/gin-gonic/gin"
	"github.com/joefazee/foresight/app/api"
	"github.com/joefazee/foresight/internal/security"
	"github.com/joefazee/foresight/models"
)

const (
	AuthorizationHeaderKey  = "Authorization"
	AuthorizationTypeBearer = "Bearer"
)

const (
	ContextUser  = "context_user"
	ContextToken = "context_token"
)

// ContextSetUser sets the authenticated user in the context.
func ContextSetUser(c *gin.Context, user *models.User) *gin.Context {
	c.Set(ContextUser, user)
	return c
}

// ContextSetToken sets the verified token payload in the context.
func ContextSetToken(c *gin.Context, payload *security.Payload) *gin.Context {
	c.Set(ContextToken, payload)
	return c
}

// ContextGetUser gets the authenticated user from the context.
func ContextGetUser(c *gin.Context) *models.User {
	user, ok := c.Get(ContextUser)
	if !ok {
		panic("missing user value in context")
	}
	return user.(*models.User)
}

// ContextGetToken gets the verified token payload from the context.
func ContextGetToken(c *gin.Context) *security.Payload {
	token, ok := c.Get(ContextToken)
	if !ok {
		panic("missing token value in context")
	}
	return token.(*security.Payload)
}

// ActivatedUserRequired rejects requests from deactivated accounts.
func ActivatedUserRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := ContextGetUser(c)
		if !*user.IsActive {
			api.UnauthorizedResponse(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
