package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hogwarts-artifacts/internal/api/result"
	"hogwarts-artifacts/internal/apperr"
	"hogwarts-artifacts/internal/services/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func serve(t *testing.T, r *gin.Engine, req *http.Request) (int, result.Result) {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var res result.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res), rec.Body.String())
	return rec.Code, res
}

func failing(err error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(zap.NewNop()))
	r.GET("/", func(c *gin.Context) { _ = c.Error(err) })
	return r
}

func TestErrorHandlerTranslation(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", apperr.NotFound("artifact", "1"), http.StatusNotFound, "Could not find artifact with Id 1 :("},
		{"validation", apperr.Validation(map[string]string{"name": "name is required."}), http.StatusBadRequest, apperr.MsgInvalidArguments},
		{"unauthorized", apperr.InvalidToken("x"), http.StatusUnauthorized, apperr.MsgInvalidToken},
		{"forbidden", apperr.Forbidden(), http.StatusForbidden, apperr.MsgNoPermission},
		{"upstream status kept", apperr.Upstream(http.StatusTooManyRequests, "slow down", nil), http.StatusTooManyRequests, apperr.MsgUpstream},
		{"upstream without status", apperr.Upstream(0, "gone", nil), http.StatusBadGateway, apperr.MsgUpstream},
		{"internal", apperr.Internal("save artifact", errors.New("disk full")), http.StatusInternalServerError, apperr.MsgInternal},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, apperr.MsgInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, res := serve(t, failing(tc.err), httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.status, res.Code)
			assert.False(t, res.Flag)
			assert.Equal(t, tc.message, res.Message)
		})
	}
}

func TestSanitize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(zap.NewNop()))
	r.POST("/", Sanitize(), func(c *gin.Context) {
		var body map[string]any
		require.NoError(t, c.ShouldBindJSON(&body))
		result.OK(c, "ok", body)
	})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(
		`{"name":"<script>alert(1)</script>The Marauder's Map","description":"Fish & Chips","size":3}`))
	req.Header.Set("Content-Type", "application/json")
	status, res := serve(t, r, req)
	require.Equal(t, http.StatusOK, status)

	data := res.Data.(map[string]any)
	assert.Equal(t, "The Marauder's Map", data["name"])
	assert.Equal(t, "Fish & Chips", data["description"])
	assert.EqualValues(t, 3, data["size"])

	bad := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":`))
	status, res = serve(t, r, bad)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperr.MsgInvalidArguments, res.Message)
}

func withPrincipal(p *auth.Principal, guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(zap.NewNop()))
	r.GET("/users/:id", func(c *gin.Context) {
		if p != nil {
			c.Set(principalKey, *p)
		}
		c.Next()
	}, guard, func(c *gin.Context) { result.OK(c, "ok", nil) })
	return r
}

func TestRequireRole(t *testing.T) {
	admin := &auth.Principal{UserID: 1, Authorities: []string{"ROLE_admin", "ROLE_user"}}
	user := &auth.Principal{UserID: 2, Authorities: []string{"ROLE_user"}}

	status, _ := serve(t, withPrincipal(admin, RequireRole("admin")), httptest.NewRequest(http.MethodGet, "/users/9", nil))
	assert.Equal(t, http.StatusOK, status)

	status, res := serve(t, withPrincipal(user, RequireRole("admin")), httptest.NewRequest(http.MethodGet, "/users/9", nil))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Access Denied", res.Data)

	status, _ = serve(t, withPrincipal(nil, RequireRole("admin")), httptest.NewRequest(http.MethodGet, "/users/9", nil))
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRequireSelfOrRole(t *testing.T) {
	user := &auth.Principal{UserID: 2, Authorities: []string{"ROLE_user"}}
	guard := RequireSelfOrRole("id", "admin")

	status, _ := serve(t, withPrincipal(user, guard), httptest.NewRequest(http.MethodGet, "/users/2", nil))
	assert.Equal(t, http.StatusOK, status)

	status, _ = serve(t, withPrincipal(user, guard), httptest.NewRequest(http.MethodGet, "/users/3", nil))
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = serve(t, withPrincipal(user, guard), httptest.NewRequest(http.MethodGet, "/users/abc", nil))
	assert.Equal(t, http.StatusForbidden, status)
}

func TestNoRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.NoRoute(NoRoute)

	status, res := serve(t, r, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, apperr.MsgNoEndpoint, res.Message)
}
