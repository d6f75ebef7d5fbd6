package user

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joefazee/foresight/app/api"
	"github.com/joefazee/foresight/internal/security"
)

// AuthMiddleware verifies the bearer token and loads the authenticated user into context.
func AuthMiddleware(tokenMaker security.Maker, repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Vary", AuthorizationHeaderKey)

		authHeader := c.GetHeader(AuthorizationHeaderKey)
		if authHeader == "" {
			api.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		fields := strings.Fields(authHeader)
		if len(fields) != 2 || fields[0] != AuthorizationTypeBearer {
			api.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		payload, err := tokenMaker.VerifyToken(fields[1])
		if err != nil {
			api.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		user, err := repo.GetByID(c.Request.Context(), payload.UserID)
		if err != nil {
			api.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		ContextSetUser(c, user)
		ContextSetToken(c, payload)
		c.Next()
	}
}
