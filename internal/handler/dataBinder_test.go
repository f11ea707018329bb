package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dhis2-sre/campus-events/internal/errdef"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bindRequest struct {
	Name string `json:"name" binding:"required"`
}

func TestDataBinder(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name": "campus"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		var req bindRequest
		err := DataBinder(c, &req)

		require.NoError(t, err)
		assert.Equal(t, "campus", req.Name)
	})

	t.Run("UnsupportedMediaType", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`name=campus`))
		c.Request.Header.Set("Content-Type", "text/plain")

		var req bindRequest
		err := DataBinder(c, &req)

		assert.True(t, errdef.IsUnsupportedMediaType(err))
	})

	t.Run("ValidationFails", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")

		var req bindRequest
		err := DataBinder(c, &req)

		assert.True(t, errdef.IsBadRequest(err))
		assert.Contains(t, err.Error(), "required")
	})
}

type bindQuery struct {
	Search string `form:"search"`
	Page   int    `form:"page"`
}

func TestQueryBinder(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?search=jazz&page=2", nil)

	var query bindQuery
	err := QueryBinder(c, &query)

	require.NoError(t, err)
	assert.Equal(t, "jazz", query.Search)
	assert.Equal(t, 2, query.Page)

	c.Request = httptest.NewRequest(http.MethodGet, "/?page=two", nil)
	err = QueryBinder(c, &query)

	assert.True(t, errdef.IsBadRequest(err))
}
