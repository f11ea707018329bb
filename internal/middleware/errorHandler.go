package middleware

import (
	"fmt"
	"net/http"

	"github.com/dhis2-sre/campus-events/internal/errdef"
	"github.com/gin-gonic/gin"
)

// ErrorHandler writes the last error of the request as plain text. Clients show the text as is so
// internal errors are replaced by a message carrying the correlation id.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		err := c.Errors.Last()
		if err == nil {
			return
		}

		// the status was set by the handler, e.g. with AbortWithError
		if c.Writer.Status() != http.StatusOK {
			_, _ = c.Writer.WriteString(err.Error())
			return
		}

		status := statusOf(err)
		if status != http.StatusInternalServerError {
			c.String(status, err.Error())
			return
		}

		id, _ := GetCorrelationID(c.Request.Context())
		c.String(status, fmt.Sprintf("something went wrong. We'll look into it if you send us the id %q :)", id))
	}
}

func statusOf(err error) int {
	switch {
	case errdef.IsBadRequest(err):
		return http.StatusBadRequest
	case errdef.IsUnauthorized(err):
		return http.StatusUnauthorized
	case errdef.IsForbidden(err):
		return http.StatusForbidden
	case errdef.IsNotFound(err):
		return http.StatusNotFound
	case errdef.IsDuplicated(err), errdef.IsConflict(err):
		return http.StatusConflict
	case errdef.IsUnsupportedMediaType(err):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}
