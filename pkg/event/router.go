package event

import (
	"github.com/dhis2-sre/campus-events/internal/middleware"
	"github.com/gin-gonic/gin"
)

func Routes(r gin.IRouter, authentication middleware.AuthenticationMiddleware, authorization middleware.AuthorizationMiddleware, handler Handler) {
	tokenAuthenticationRouter := r.Group("")
	tokenAuthenticationRouter.Use(authentication.TokenAuthentication)
	tokenAuthenticationRouter.GET("/events", handler.List)
	tokenAuthenticationRouter.GET("/events/calendar", handler.Calendar)
	tokenAuthenticationRouter.GET("/events/:id", handler.Find)
	tokenAuthenticationRouter.GET("/events/:id/ics", handler.ICS)
	tokenAuthenticationRouter.GET("/me/calendar.ics", handler.Feed)

	organizerRouter := tokenAuthenticationRouter.Group("")
	organizerRouter.Use(authorization.RequireOrganizer)
	organizerRouter.POST("/events", handler.Create)
	organizerRouter.PUT("/events/:id", handler.Update)
	organizerRouter.DELETE("/events/:id", handler.Delete)
	organizerRouter.POST("/events/:id/image", handler.UploadImage)
	organizerRouter.GET("/me/events", handler.Managed)

	administratorRouter := tokenAuthenticationRouter.Group("/admin")
	administratorRouter.Use(authorization.RequireAdministrator)
	administratorRouter.GET("/events", handler.Oversight)
	administratorRouter.DELETE("/events/:id", handler.Delete)
	administratorRouter.GET("/stats", handler.Stats)
}
