package favorite

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dhis2-sre/campus-events/internal/errdef"
	"github.com/dhis2-sre/campus-events/pkg/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHandler_Add(t *testing.T) {
	user := &model.User{ID: 3}

	t.Run("Success", func(t *testing.T) {
		favoriteService := &mockFavoriteService{}
		favoriteService.On("Add", user, uint(1)).Return(nil)
		h := NewHandler(favoriteService)

		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Set("user", user)
		c.Params = gin.Params{{Key: "id", Value: "1"}}
		c.Request = httptest.NewRequest(http.MethodPost, "/events/1/favorite", nil)

		h.Add(c)

		require.Empty(t, c.Errors)
		c.Writer.WriteHeaderNow()
		assert.Equal(t, http.StatusCreated, recorder.Code)
		favoriteService.AssertExpectations(t)
	})

	t.Run("UnknownEvent", func(t *testing.T) {
		favoriteService := &mockFavoriteService{}
		favoriteService.On("Add", user, uint(99)).Return(errdef.NewNotFound("event not found by id: 99"))
		h := NewHandler(favoriteService)

		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set("user", user)
		c.Params = gin.Params{{Key: "id", Value: "99"}}
		c.Request = httptest.NewRequest(http.MethodPost, "/events/99/favorite", nil)

		h.Add(c)

		require.Len(t, c.Errors, 1)
		assert.True(t, errdef.IsNotFound(c.Errors.Last()))
	})
}

func TestHandler_Remove(t *testing.T) {
	user := &model.User{ID: 3}
	favoriteService := &mockFavoriteService{}
	favoriteService.On("Remove", user, uint(1)).Return(nil)
	h := NewHandler(favoriteService)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("user", user)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest(http.MethodDelete, "/events/1/favorite", nil)

	h.Remove(c)

	require.Empty(t, c.Errors)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusAccepted, recorder.Code)
	favoriteService.AssertExpectations(t)
}

func TestHandler_List(t *testing.T) {
	user := &model.User{ID: 3}
	favoriteService := &mockFavoriteService{}
	favoriteService.
		On("List", user).
		Return([]model.Event{{ID: 2, Title: "Jazz Night"}, {ID: 1, Title: "Career Fair"}}, nil)
	h := NewHandler(favoriteService)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("user", user)
	c.Request = httptest.NewRequest(http.MethodGet, "/me/favorites", nil)

	h.List(c)

	require.Empty(t, c.Errors)
	var events []model.Event
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &events))
	require.Len(t, events, 2)
	assert.Equal(t, "Jazz Night", events[0].Title)
}

type mockFavoriteService struct{ mock.Mock }

func (m *mockFavoriteService) Add(_ context.Context, user *model.User, eventId uint) error {
	return m.Called(user, eventId).Error(0)
}

func (m *mockFavoriteService) Remove(_ context.Context, user *model.User, eventId uint) error {
	return m.Called(user, eventId).Error(0)
}

func (m *mockFavoriteService) List(_ context.Context, user *model.User) ([]model.Event, error) {
	called := m.Called(user)
	events, _ := called.Get(0).([]model.Event)
	return events, called.Error(1)
}
