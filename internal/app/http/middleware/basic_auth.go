package middleware

import (
	"context"

	"hogwarts-artifacts/internal/apperr"
	"hogwarts-artifacts/internal/domain/users"

	"github.com/gin-gonic/gin"
)

const userKey = "user"

type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*users.User, error)
}

// BasicAuth checks HTTP Basic credentials and stores the user for the login
// handler.
func BasicAuth(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			abort(c, apperr.MissingCredentials("Full authentication is required to access this resource"))
			return
		}

		u, err := authn.Authenticate(c.Request.Context(), username, password)
		if err != nil {
			abort(c, err)
			return
		}

		c.Set(userKey, u)
		c.Next()
	}
}

// UserFrom returns the user stored by BasicAuth.
func UserFrom(c *gin.Context) (*users.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*users.User)
	return u, ok
}
