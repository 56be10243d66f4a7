package result

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hogwarts-artifacts/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userBody struct {
	Username string `json:"username" binding:"required"`
	Roles    string `json:"roles" binding:"required"`
	Enabled  bool   `json:"enabled"`
}

func bindContext(t *testing.T, body string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestBindJSONFieldMessages(t *testing.T) {
	var body userBody
	err := BindJSON(bindContext(t, `{"enabled":true}`), &body)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.MsgInvalidArguments, appErr.Message)
	assert.Equal(t, map[string]string{
		"username": "username is required.",
		"roles":    "roles are required.",
	}, appErr.Data)
}

func TestBindJSONMalformed(t *testing.T) {
	var body userBody
	err := BindJSON(bindContext(t, `{"username":`), &body)
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
}

func TestBindJSONOK(t *testing.T) {
	var body userBody
	require.NoError(t, BindJSON(bindContext(t, `{"username":"ron","roles":"user"}`), &body))
	assert.Equal(t, "ron", body.Username)
}

func TestOKEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	OK(c, "Find One Success", map[string]string{"id": "1"})

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, true, got["flag"])
	assert.EqualValues(t, 200, got["code"])
	assert.Equal(t, "Find One Success", got["message"])
}
