package event

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"
	"time"

	"github.com/dhis2-sre/campus-events/internal/errdef"
	"github.com/dhis2-sre/campus-events/internal/handler"
	"github.com/dhis2-sre/campus-events/pkg/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := handler.RegisterValidation(); err != nil {
		panic(err)
	}
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func organizer(id uint) *model.User {
	return &model.User{ID: id, Profile: &model.UserProfile{ID: id, Role: model.RoleOrganizer}}
}

func TestHandler_Create(t *testing.T) {
	start := time.Date(2026, 11, 2, 18, 0, 0, 0, time.UTC)
	user := organizer(7)
	capacity := uint(50)
	eventService := &mockEventService{}
	eventService.
		On("Create", user, Input{
			Title:       "Jazz Night",
			Location:    "Student Union",
			StartTime:   start,
			EndTime:     start.Add(3 * time.Hour),
			MaxCapacity: &capacity,
			Category:    model.CategoryEntertainment,
		}).
		Return(&model.Event{ID: 1, Title: "Jazz Night", OrganizerID: 7}, nil)
	h := NewHandler(eventService, time.UTC)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("user", user)
	c.Request = newJSONRequest(t, http.MethodPost, "/events", map[string]any{
		"title":       "Jazz Night",
		"location":    "Student Union",
		"startTime":   "2026-11-02T18:00:00Z",
		"endTime":     "2026-11-02T21:00:00Z",
		"maxCapacity": 50,
		"category":    "Entertainment",
	})

	h.Create(c)

	require.Empty(t, c.Errors)
	assert.Equal(t, http.StatusCreated, recorder.Code)
	var event model.Event
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &event))
	assert.Equal(t, uint(1), event.ID)
	eventService.AssertExpectations(t)
}

func TestHandler_Create_InvalidRequest(t *testing.T) {
	tests := map[string]map[string]any{
		"MissingTitle": {
			"location":  "Student Union",
			"startTime": "2026-11-02T18:00:00Z",
			"endTime":   "2026-11-02T21:00:00Z",
			"category":  "Entertainment",
		},
		"UnknownCategory": {
			"title":     "Jazz Night",
			"location":  "Student Union",
			"startTime": "2026-11-02T18:00:00Z",
			"endTime":   "2026-11-02T21:00:00Z",
			"category":  "Music",
		},
		"ZeroCapacity": {
			"title":       "Jazz Night",
			"location":    "Student Union",
			"startTime":   "2026-11-02T18:00:00Z",
			"endTime":     "2026-11-02T21:00:00Z",
			"category":    "Entertainment",
			"maxCapacity": 0,
		},
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			eventService := &mockEventService{}
			h := NewHandler(eventService, time.UTC)

			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Set("user", organizer(7))
			c.Request = newJSONRequest(t, http.MethodPost, "/events", body)

			h.Create(c)

			require.Len(t, c.Errors, 1)
			assert.True(t, errdef.IsBadRequest(c.Errors.Last()))
			eventService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_Update_OtherOrganizer(t *testing.T) {
	eventService := &mockEventService{}
	eventService.
		On("FindById", uint(1)).
		Return(&model.Event{ID: 1, OrganizerID: 8}, nil)
	h := NewHandler(eventService, time.UTC)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("user", organizer(7))
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = newJSONRequest(t, http.MethodPut, "/events/1", map[string]any{
		"title":     "Jazz Night",
		"location":  "Student Union",
		"startTime": "2026-11-02T18:00:00Z",
		"endTime":   "2026-11-02T21:00:00Z",
		"category":  "Entertainment",
	})

	h.Update(c)

	require.Len(t, c.Errors, 1)
	assert.True(t, errdef.IsForbidden(c.Errors.Last()))
	eventService.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestHandler_Delete_Administrator(t *testing.T) {
	event := &model.Event{ID: 1, OrganizerID: 8}
	eventService := &mockEventService{}
	eventService.On("FindById", uint(1)).Return(event, nil)
	eventService.On("Delete", event).Return(nil)
	h := NewHandler(eventService, time.UTC)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("user", &model.User{ID: 1, Profile: &model.UserProfile{ID: 1, Role: model.RoleAdministrator}})
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest(http.MethodDelete, "/admin/events/1", nil)

	h.Delete(c)

	require.Empty(t, c.Errors)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusAccepted, recorder.Code)
	eventService.AssertExpectations(t)
}

func TestHandler_List(t *testing.T) {
	t.Run("Filter", func(t *testing.T) {
		eventService := &mockEventService{}
		eventService.
			On("List", Filter{Search: "jazz", Category: "All", Date: time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)}).
			Return([]Item{{Event: model.Event{ID: 2}, Status: model.EventStatusUpcoming}}, nil)
		h := NewHandler(eventService, time.UTC)

		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Request = httptest.NewRequest(http.MethodGet, "/events?search=jazz&category=All&date=2026-10-20", nil)

		h.List(c)

		require.Empty(t, c.Errors)
		var items []Item
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &items))
		require.Len(t, items, 1)
		assert.Equal(t, model.EventStatusUpcoming, items[0].Status)
		eventService.AssertExpectations(t)
	})

	t.Run("InvalidDate", func(t *testing.T) {
		eventService := &mockEventService{}
		h := NewHandler(eventService, time.UTC)

		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/events?date=20-10-2026", nil)

		h.List(c)

		require.Len(t, c.Errors, 1)
		assert.True(t, errdef.IsBadRequest(c.Errors.Last()))
	})
}

func TestHandler_ICS(t *testing.T) {
	event := &model.Event{ID: 3, Title: "Spring Career Fair"}
	eventService := &mockEventService{}
	eventService.On("FindById", uint(3)).Return(event, nil)
	eventService.On("ICS", event).Return("spring_career_fair.ics", "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")
	h := NewHandler(eventService, time.UTC)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/events/3/ics", nil)

	h.ICS(c)

	require.Empty(t, c.Errors)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", recorder.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="spring_career_fair.ics"`, recorder.Header().Get("Content-Disposition"))
	assert.Equal(t, "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n", recorder.Body.String())
}

func TestHandler_UploadImage(t *testing.T) {
	user := organizer(7)
	event := &model.Event{ID: 1, OrganizerID: 7}
	eventService := &mockEventService{}
	eventService.On("FindById", uint(1)).Return(event, nil)
	eventService.
		On("UploadImage", event, mock.MatchedBy(func(image Image) bool {
			return image.Filename == "poster.png" && image.ContentType == "image/png" && image.Size == 3
		})).
		Return(&model.Event{ID: 1, ImageURL: "https://images/events/1/poster.png"}, nil)
	h := NewHandler(eventService, time.UTC)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="poster.png"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("png"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("user", user)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest(http.MethodPost, "/events/1/image", body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())

	h.UploadImage(c)

	require.Empty(t, c.Errors)
	assert.Equal(t, http.StatusOK, recorder.Code)
	eventService.AssertExpectations(t)
}

func newJSONRequest(t *testing.T, method, path string, jsonBody any) *http.Request {
	body, err := json.Marshal(jsonBody)
	require.NoError(t, err)

	req, err := http.NewRequest(method, path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return req
}

type mockEventService struct{ mock.Mock }

func (m *mockEventService) List(_ context.Context, filter Filter) ([]Item, error) {
	called := m.Called(filter)
	items, _ := called.Get(0).([]Item)
	return items, called.Error(1)
}

func (m *mockEventService) FindById(_ context.Context, id uint) (*model.Event, error) {
	called := m.Called(id)
	event, _ := called.Get(0).(*model.Event)
	return event, called.Error(1)
}

func (m *mockEventService) Detail(_ context.Context, user *model.User, event *model.Event) (*Detail, error) {
	called := m.Called(user, event)
	detail, _ := called.Get(0).(*Detail)
	return detail, called.Error(1)
}

func (m *mockEventService) Create(_ context.Context, organizer *model.User, input Input) (*model.Event, error) {
	called := m.Called(organizer, input)
	event, _ := called.Get(0).(*model.Event)
	return event, called.Error(1)
}

func (m *mockEventService) Update(_ context.Context, event *model.Event, input Input) (*model.Event, error) {
	called := m.Called(event, input)
	updated, _ := called.Get(0).(*model.Event)
	return updated, called.Error(1)
}

func (m *mockEventService) Delete(_ context.Context, event *model.Event) error {
	return m.Called(event).Error(0)
}

func (m *mockEventService) Managed(_ context.Context, organizer *model.User) ([]Item, error) {
	called := m.Called(organizer)
	items, _ := called.Get(0).([]Item)
	return items, called.Error(1)
}

func (m *mockEventService) UploadImage(_ context.Context, event *model.Event, image Image) (*model.Event, error) {
	called := m.Called(event, image)
	updated, _ := called.Get(0).(*model.Event)
	return updated, called.Error(1)
}

func (m *mockEventService) Calendar(_ context.Context, month string, weekStart string) (*Calendar, error) {
	called := m.Called(month, weekStart)
	calendar, _ := called.Get(0).(*Calendar)
	return calendar, called.Error(1)
}

func (m *mockEventService) ICS(event *model.Event) (string, string) {
	called := m.Called(event)
	return called.String(0), called.String(1)
}

func (m *mockEventService) Feed(_ context.Context, user *model.User) (string, error) {
	called := m.Called(user)
	return called.String(0), called.Error(1)
}

func (m *mockEventService) Oversight(_ context.Context, filter OversightFilter) ([]Item, error) {
	called := m.Called(filter)
	items, _ := called.Get(0).([]Item)
	return items, called.Error(1)
}

func (m *mockEventService) Stats(_ context.Context) (*Stats, error) {
	called := m.Called()
	stats, _ := called.Get(0).(*Stats)
	return stats, called.Error(1)
}
