package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dhis2-sre/campus-events/internal/errdef"
	"github.com/dhis2-sre/campus-events/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := map[string]struct {
		err            error
		expectedStatus int
		expectedBody   string
	}{
		"BadRequest": {
			err:            errdef.NewBadRequest("Event has already ended"),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Event has already ended",
		},
		"Unauthorized": {
			err:            errdef.NewUnauthorized("token not valid"),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "token not valid",
		},
		"Forbidden": {
			err:            errdef.NewForbidden("access denied"),
			expectedStatus: http.StatusForbidden,
			expectedBody:   "access denied",
		},
		"NotFound": {
			err:            errdef.NewNotFound("event not found"),
			expectedStatus: http.StatusNotFound,
			expectedBody:   "event not found",
		},
		"Duplicated": {
			err:            errdef.NewDuplicated("already registered for this event"),
			expectedStatus: http.StatusConflict,
			expectedBody:   "already registered for this event",
		},
		"Conflict": {
			err:            errdef.NewConflict("Event is full"),
			expectedStatus: http.StatusConflict,
			expectedBody:   "Event is full",
		},
		"UnsupportedMediaType": {
			err:            errdef.NewUnsupportedMediaType("only accepts json"),
			expectedStatus: http.StatusUnsupportedMediaType,
			expectedBody:   "only accepts json",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			engine := gin.New()
			engine.Use(middleware.ErrorHandler())
			engine.GET("/", func(c *gin.Context) {
				_ = c.Error(test.err)
			})

			recorder := httptest.NewRecorder()
			engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, test.expectedStatus, recorder.Code)
			assert.Equal(t, test.expectedBody, recorder.Body.String())
		})
	}
}

func TestErrorHandler_InternalErrorHidesDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.CorrelationID(), middleware.ErrorHandler())
	engine.GET("/", func(c *gin.Context) {
		_ = c.Error(errors.New("pq: connection refused"))
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Correlation-ID", "0b8a3f8e-2c55-4e1a-9d9b-46c1f4ae58a6")
	engine.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "connection refused")
	assert.Contains(t, recorder.Body.String(), "0b8a3f8e-2c55-4e1a-9d9b-46c1f4ae58a6")
}

func TestErrorHandler_AbortedWithStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.ErrorHandler())
	engine.GET("/", func(c *gin.Context) {
		_ = c.AbortWithError(http.StatusUnauthorized, errors.New("invalid Authorization header format"))
	})

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "invalid Authorization header format", recorder.Body.String())
}
