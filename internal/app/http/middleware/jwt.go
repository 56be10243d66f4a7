package middleware

import (
	"context"
	"strconv"
	"strings"

	"hogwarts-artifacts/internal/apperr"
	"hogwarts-artifacts/internal/services/auth"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Principal, error)
}

// AuthMiddleware requires a whitelisted bearer token and stores the caller
// in the context.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, apperr.MissingCredentials("Full authentication is required to access this resource"))
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || strings.TrimSpace(tokenString) == "" {
			abort(c, apperr.InvalidToken("Bearer token malformed"))
			return
		}

		principal, err := verifier.Verify(c.Request.Context(), strings.TrimSpace(tokenString))
		if err != nil {
			abort(c, err)
			return
		}

		c.Set(principalKey, *principal)
		c.Next()
	}
}

// PrincipalFrom returns the caller stored by AuthMiddleware.
func PrincipalFrom(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

// RequireRole lets through callers holding ROLE_<role>.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			abort(c, apperr.MissingCredentials("Full authentication is required to access this resource"))
			return
		}
		if !p.HasAuthority("ROLE_" + role) {
			abort(c, apperr.Forbidden())
			return
		}
		c.Next()
	}
}

// RequireSelfOrRole lets through callers holding ROLE_<role> or whose user
// id equals the path parameter param.
func RequireSelfOrRole(param, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			abort(c, apperr.MissingCredentials("Full authentication is required to access this resource"))
			return
		}
		if p.HasAuthority("ROLE_" + role) {
			c.Next()
			return
		}
		id, err := strconv.ParseUint(c.Param(param), 10, 64)
		if err != nil || uint(id) != p.UserID {
			abort(c, apperr.Forbidden())
			return
		}
		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
