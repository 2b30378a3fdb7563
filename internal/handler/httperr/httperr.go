// Package httperr defines the error envelope every endpoint returns.
package httperr

import (
	"github.com/gin-gonic/gin"
)

// Response is the wire shape for failures: {"error": {"message": ...}} plus an
// optional detail payload. Status travels with it for middleware but is never
// serialized.
type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// AbortWithError writes the public envelope and records the underlying err on
// the gin context so the logging middleware sees the cause while the client
// sees only msg.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
