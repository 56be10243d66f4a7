package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"hogwarts-artifacts/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

// Sanitize strips markup from the top level string fields of JSON bodies.
func Sanitize() gin.HandlerFunc {
	policy := bluemonday.StrictPolicy()
	// StrictPolicy escapes quotes and ampersands; names like "The Marauder's
	// Map" must survive unchanged.
	unescape := strings.NewReplacer("&#39;", "'", "&#34;", `"`, "&amp;", "&")

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		buf, err := io.ReadAll(c.Request.Body)
		if err != nil {
			abort(c, apperr.InvalidArgument(apperr.MsgInvalidArguments, "Invalid body"))
			return
		}

		var body map[string]interface{}
		if err := json.Unmarshal(buf, &body); err != nil {
			abort(c, apperr.InvalidArgument(apperr.MsgInvalidArguments, "Malformed JSON"))
			return
		}

		for k, v := range body {
			if str, ok := v.(string); ok {
				body[k] = unescape.Replace(policy.Sanitize(str))
			}
		}

		newBody, _ := json.Marshal(body)
		c.Request.Body = io.NopCloser(bytes.NewBuffer(newBody))
		c.Request.ContentLength = int64(len(newBody))

		c.Next()
	}
}
