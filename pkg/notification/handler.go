package notification

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/dhis2-sre/campus-events/internal/handler"
	"github.com/dhis2-sre/campus-events/pkg/model"
	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func NewHandler(notificationService notificationService, broker broker) Handler {
	return Handler{
		notificationService: notificationService,
		broker:              broker,
	}
}

type Handler struct {
	notificationService notificationService
	broker              broker
}

type notificationService interface {
	List(ctx context.Context, user *model.User) ([]model.Notification, error)
	Unread(ctx context.Context, user *model.User) (*Unread, error)
	MarkRead(ctx context.Context, user *model.User, id uint) error
	MarkAllRead(ctx context.Context, user *model.User) error
}

type broker interface {
	Subscribe(userId uint) uuid.UUID
	Unsubscribe(id uuid.UUID)
	Receive(ctx context.Context, id uuid.UUID) (model.Notification, bool)
}

// List notifications
func (h Handler) List(c *gin.Context) {
	// swagger:route GET /notifications listNotifications
	//
	// List notifications
	//
	// The latest notifications of the current user, newest first
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	200: Notifications
	//	401: Error
	//	415: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	notifications, err := h.notificationService.List(c.Request.Context(), user)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// Unread notification count
func (h Handler) Unread(c *gin.Context) {
	// swagger:route GET /notifications/unread unreadNotifications
	//
	// Unread notifications
	//
	// The number of unread notifications of the current user and the badge to display
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	200: Unread
	//	401: Error
	//	415: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	unread, err := h.notificationService.Unread(c.Request.Context(), user)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, unread)
}

// MarkRead marks a notification as read
func (h Handler) MarkRead(c *gin.Context) {
	// swagger:route PUT /notifications/{id}/read markNotificationRead
	//
	// Mark notification as read
	//
	// Mark a notification of the current user as read
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	202:
	//	400: Error
	//	401: Error
	//	404: Error
	//	415: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	err = h.notificationService.MarkRead(c.Request.Context(), user, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusAccepted)
}

// MarkAllRead marks every notification as read
func (h Handler) MarkAllRead(c *gin.Context) {
	// swagger:route PUT /notifications/read markAllNotificationsRead
	//
	// Mark all notifications as read
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	202:
	//	401: Error
	//	415: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	err = h.notificationService.MarkAllRead(c.Request.Context(), user)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusAccepted)
}

// Stream notifications as server-sent events
func (h Handler) Stream(c *gin.Context) {
	// swagger:route GET /notifications/stream streamNotifications
	//
	// Stream notifications
	//
	// Server-sent events carrying the notifications of the current user as they are created. The event name is the notification type, the event id is the notification id and the data is the notification.
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	200: Stream
	//	401: Error
	//	415: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	id := h.broker.Subscribe(user.ID)
	defer h.broker.Unsubscribe(id)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		notification, ok := h.broker.Receive(ctx, id)
		if !ok {
			return false
		}

		c.Render(-1, sse.Event{
			Event: string(notification.Type),
			Id:    strconv.FormatUint(uint64(notification.ID), 10),
			Data:  notification,
		})
		return true
	})
}
