// Package result holds the JSON envelope every endpoint answers with.
package result

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Result struct {
	Flag    bool   `json:"flag"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// OK writes a 200 envelope.
func OK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Result{Flag: true, Code: http.StatusOK, Message: message, Data: data})
}

// Fail writes a failed envelope with status as both HTTP and body code and
// aborts the chain.
func Fail(c *gin.Context, status int, message string, data any) {
	c.AbortWithStatusJSON(status, Result{Flag: false, Code: status, Message: message, Data: data})
}
