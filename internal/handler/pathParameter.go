package handler

import (
	"net/http"
	"strconv"

	"github.com/dhis2-sre/campus-events/internal/errdef"
	"github.com/gin-gonic/gin"
)

// GetPathParameter parses the path parameter as a database id. Ids start at 1. The request is
// aborted with 400 if the parameter isn't a valid id.
func GetPathParameter(c *gin.Context, parameter string) (uint, bool) {
	value := c.Param(parameter)
	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil || id == 0 {
		_ = c.AbortWithError(http.StatusBadRequest, errdef.NewBadRequest("invalid %s %q, expected a positive number", parameter, value))
		return 0, false
	}
	return uint(id), true
}
