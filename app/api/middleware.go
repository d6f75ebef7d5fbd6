package api

import "github.com/gin-gonic/gin"

// RequireAdminRole gates a route to callers whose admin role (set in context
// by the governance package's middleware) is one of roles.
func RequireAdminRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		roleValue, exists := c.Get("admin_role")
		if !exists {
			ForbiddenResponse(c, "Access Denied: admin role not found in context")
			c.Abort()
			return
		}

		role, ok := roleValue.(string)
		if !ok {
			ForbiddenResponse(c, "Access Denied: invalid admin role in context")
			c.Abort()
			return
		}

		if _, ok := allowed[role]; ok {
			c.Next()
			return
		}

		ForbiddenResponse(c, "Access Denied: insufficient admin role")
		c.Abort()
	}
}
