package favorite

import (
	"github.com/dhis2-sre/campus-events/internal/middleware"
	"github.com/gin-gonic/gin"
)

func Routes(r gin.IRouter, authentication middleware.AuthenticationMiddleware, handler Handler) {
	tokenAuthenticationRouter := r.Group("")
	tokenAuthenticationRouter.Use(authentication.TokenAuthentication)
	tokenAuthenticationRouter.POST("/events/:id/favorite", handler.Add)
	tokenAuthenticationRouter.DELETE("/events/:id/favorite", handler.Remove)
	tokenAuthenticationRouter.GET("/me/favorites", handler.List)
}
