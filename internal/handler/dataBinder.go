package handler

import (
	"github.com/dhis2-sre/campus-events/internal/errdef"

	"github.com/gin-gonic/gin"
)

func DataBinder(c *gin.Context, req interface{}) error {
	if c.ContentType() != "application/json" && c.ContentType() != "multipart/form-data" {
		return errdef.NewUnsupportedMediaType("%s only accepts content of type application/json or multipart/form-data", c.FullPath())
	}

	if err := c.ShouldBind(req); err != nil {
		return errdef.NewBadRequest("Error binding data: %+v", err)
	}

	return nil
}

// QueryBinder binds the query string to req using its "form" tags.
func QueryBinder(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindQuery(req); err != nil {
		return errdef.NewBadRequest("Error binding query: %+v", err)
	}

	return nil
}
