package registration

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

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

func TestHandler_Register(t *testing.T) {
	user := &model.User{ID: 3}
	registrationService := &mockRegistrationService{}
	registrationService.
		On("Register", user, uint(1)).
		Return(&model.Registration{ID: 9, EventID: 1, UserID: 3}, nil)
	h := NewHandler(registrationService, &mockEventService{})

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("user", user)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest(http.MethodPost, "/events/1/registrations", nil)

	h.Register(c)

	require.Empty(t, c.Errors)
	assert.Equal(t, http.StatusCreated, recorder.Code)
	registrationService.AssertExpectations(t)
}

func TestHandler_Register_InvalidId(t *testing.T) {
	h := NewHandler(&mockRegistrationService{}, &mockEventService{})

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("user", &model.User{ID: 3})
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	c.Request = httptest.NewRequest(http.MethodPost, "/events/abc/registrations", nil)

	h.Register(c)

	require.Len(t, c.Errors, 1)
	assert.True(t, c.IsAborted())
}

func TestHandler_Attendance(t *testing.T) {
	t.Run("Organizer", func(t *testing.T) {
		event := &model.Event{ID: 1, OrganizerID: 7}
		eventService := &mockEventService{}
		eventService.On("FindById", uint(1)).Return(event, nil)
		registrationService := &mockRegistrationService{}
		registrationService.On("Attendance", uint(1)).Return(&Attendance{Total: 1, Registered: 1}, nil)
		h := NewHandler(registrationService, eventService)

		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Set("user", organizer(7))
		c.Params = gin.Params{{Key: "id", Value: "1"}}
		c.Request = httptest.NewRequest(http.MethodGet, "/events/1/registrations", nil)

		h.Attendance(c)

		require.Empty(t, c.Errors)
		assert.Equal(t, http.StatusOK, recorder.Code)
		registrationService.AssertExpectations(t)
	})

	t.Run("OtherOrganizer", func(t *testing.T) {
		eventService := &mockEventService{}
		eventService.On("FindById", uint(1)).Return(&model.Event{ID: 1, OrganizerID: 8}, nil)
		registrationService := &mockRegistrationService{}
		h := NewHandler(registrationService, eventService)

		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set("user", organizer(7))
		c.Params = gin.Params{{Key: "id", Value: "1"}}
		c.Request = httptest.NewRequest(http.MethodGet, "/events/1/registrations", nil)

		h.Attendance(c)

		require.Len(t, c.Errors, 1)
		assert.True(t, errdef.IsForbidden(c.Errors.Last()))
		registrationService.AssertNotCalled(t, "Attendance", mock.Anything)
	})
}

func TestHandler_UpdateAttendance(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		registration := &model.Registration{ID: 2, EventID: 1, Event: &model.Event{ID: 1, OrganizerID: 7}}
		registrationService := &mockRegistrationService{}
		registrationService.On("FindById", uint(2)).Return(registration, nil)
		registrationService.
			On("UpdateAttendance", registration, model.AttendanceNoShow).
			Return(&model.Registration{ID: 2, AttendanceStatus: model.AttendanceNoShow}, nil)
		h := NewHandler(registrationService, &mockEventService{})

		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Set("user", organizer(7))
		c.Params = gin.Params{{Key: "id", Value: "2"}}
		c.Request = newPut(t, "/registrations/2/attendance", `{"status": "no_show"}`)

		h.UpdateAttendance(c)

		require.Empty(t, c.Errors)
		assert.Equal(t, http.StatusOK, recorder.Code)
		registrationService.AssertExpectations(t)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		registrationService := &mockRegistrationService{}
		h := NewHandler(registrationService, &mockEventService{})

		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set("user", organizer(7))
		c.Params = gin.Params{{Key: "id", Value: "2"}}
		c.Request = newPut(t, "/registrations/2/attendance", `{"status": "late"}`)

		h.UpdateAttendance(c)

		require.Len(t, c.Errors, 1)
		assert.True(t, errdef.IsBadRequest(c.Errors.Last()))
		registrationService.AssertNotCalled(t, "FindById", mock.Anything)
	})

	t.Run("OtherOrganizer", func(t *testing.T) {
		registration := &model.Registration{ID: 2, EventID: 1, Event: &model.Event{ID: 1, OrganizerID: 8}}
		registrationService := &mockRegistrationService{}
		registrationService.On("FindById", uint(2)).Return(registration, nil)
		h := NewHandler(registrationService, &mockEventService{})

		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set("user", organizer(7))
		c.Params = gin.Params{{Key: "id", Value: "2"}}
		c.Request = newPut(t, "/registrations/2/attendance", `{"status": "attended"}`)

		h.UpdateAttendance(c)

		require.Len(t, c.Errors, 1)
		assert.True(t, errdef.IsForbidden(c.Errors.Last()))
		registrationService.AssertNotCalled(t, "UpdateAttendance", mock.Anything, mock.Anything)
	})
}

func newPut(t *testing.T, path string, body string) *http.Request {
	req, err := http.NewRequest(http.MethodPut, path, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return req
}

type mockRegistrationService struct{ mock.Mock }

func (m *mockRegistrationService) Register(_ context.Context, user *model.User, eventId uint) (*model.Registration, error) {
	called := m.Called(user, eventId)
	registration, _ := called.Get(0).(*model.Registration)
	return registration, called.Error(1)
}

func (m *mockRegistrationService) Unregister(_ context.Context, user *model.User, eventId uint) error {
	return m.Called(user, eventId).Error(0)
}

func (m *mockRegistrationService) FindById(_ context.Context, id uint) (*model.Registration, error) {
	called := m.Called(id)
	registration, _ := called.Get(0).(*model.Registration)
	return registration, called.Error(1)
}

func (m *mockRegistrationService) Mine(_ context.Context, user *model.User) ([]model.Registration, error) {
	called := m.Called(user)
	registrations, _ := called.Get(0).([]model.Registration)
	return registrations, called.Error(1)
}

func (m *mockRegistrationService) Attendance(_ context.Context, eventId uint) (*Attendance, error) {
	called := m.Called(eventId)
	attendance, _ := called.Get(0).(*Attendance)
	return attendance, called.Error(1)
}

func (m *mockRegistrationService) UpdateAttendance(_ context.Context, registration *model.Registration, status model.AttendanceStatus) (*model.Registration, error) {
	called := m.Called(registration, status)
	updated, _ := called.Get(0).(*model.Registration)
	return updated, called.Error(1)
}

type mockEventService struct{ mock.Mock }

func (m *mockEventService) FindById(_ context.Context, id uint) (*model.Event, error) {
	called := m.Called(id)
	event, _ := called.Get(0).(*model.Event)
	return event, called.Error(1)
}
