package favorite

import (
	"context"
	"net/http"

	"github.com/dhis2-sre/campus-events/internal/handler"
	"github.com/dhis2-sre/campus-events/pkg/model"
	"github.com/gin-gonic/gin"
)

func NewHandler(favoriteService favoriteService) Handler {
	return Handler{favoriteService: favoriteService}
}

type Handler struct {
	favoriteService favoriteService
}

type favoriteService interface {
	Add(ctx context.Context, user *model.User, eventId uint) error
	Remove(ctx context.Context, user *model.User, eventId uint) error
	List(ctx context.Context, user *model.User) ([]model.Event, error)
}

// Add favorite
func (h Handler) Add(c *gin.Context) {
	// swagger:route POST /events/{id}/favorite addFavorite
	//
	// Add favorite
	//
	// Add an event to the favorites of the current user. Adding an event which is already a favorite has no effect.
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	201:
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

	err = h.favoriteService.Add(c.Request.Context(), user, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusCreated)
}

// Remove favorite
func (h Handler) Remove(c *gin.Context) {
	// swagger:route DELETE /events/{id}/favorite removeFavorite
	//
	// Remove favorite
	//
	// Remove an event from the favorites of the current user
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	202:
	//	400: Error
	//	401: Error
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

	err = h.favoriteService.Remove(c.Request.Context(), user, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusAccepted)
}

// List favorites
func (h Handler) List(c *gin.Context) {
	// swagger:route GET /me/favorites listFavorites
	//
	// List favorites
	//
	// The favorite events of the current user, most recently added first
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	200: Favorites
	//	401: Error
	//	415: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	events, err := h.favoriteService.List(c.Request.Context(), user)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, events)
}
