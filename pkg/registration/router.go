package registration

import (
	"github.com/dhis2-sre/campus-events/internal/middleware"
	"github.com/gin-gonic/gin"
)

func Routes(r gin.IRouter, authentication middleware.AuthenticationMiddleware, authorization middleware.AuthorizationMiddleware, handler Handler) {
	tokenAuthenticationRouter := r.Group("")
	tokenAuthenticationRouter.Use(authentication.TokenAuthentication)
	tokenAuthenticationRouter.POST("/events/:id/registrations", handler.Register)
	tokenAuthenticationRouter.DELETE("/events/:id/registrations", handler.Unregister)
	tokenAuthenticationRouter.GET("/me/registrations", handler.Mine)

	organizerRouter := tokenAuthenticationRouter.Group("")
	organizerRouter.Use(authorization.RequireOrganizer)
	organizerRouter.GET("/events/:id/registrations", handler.Attendance)
	organizerRouter.PUT("/registrations/:id/attendance", handler.UpdateAttendance)
}
