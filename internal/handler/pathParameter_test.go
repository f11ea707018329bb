package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dhis2-sre/campus-events/internal/errdef"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPathParameter(t *testing.T) {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.AddParam("id", "123")

	id, ok := GetPathParameter(ctx, "id")

	assert.True(t, ok)
	assert.Equal(t, uint(123), id)
	assert.False(t, ctx.IsAborted())
}

func TestGetPathParameter_Invalid(t *testing.T) {
	tests := map[string]string{
		"Missing":  "",
		"Negative": "-1",
		"Zero":     "0",
		"Text":     "career-fair",
		"Overflow": "4294967296",
	}
	for name, value := range tests {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(w)
			if value != "" {
				ctx.AddParam("eventId", value)
			}

			id, ok := GetPathParameter(ctx, "eventId")

			assert.False(t, ok)
			assert.Equal(t, uint(0), id)
			assert.True(t, ctx.IsAborted())
			assert.Equal(t, http.StatusBadRequest, w.Code)
			require.Len(t, ctx.Errors, 1)
			assert.True(t, errdef.IsBadRequest(ctx.Errors.Last().Err))
			assert.Equal(t, `invalid eventId "`+value+`", expected a positive number`, ctx.Errors.Last().Error())
		})
	}
}
