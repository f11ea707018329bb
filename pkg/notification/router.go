package notification

import (
	"github.com/dhis2-sre/campus-events/internal/middleware"
	"github.com/gin-gonic/gin"
)

func Routes(r gin.IRouter, authentication middleware.AuthenticationMiddleware, handler Handler) {
	tokenAuthenticationRouter := r.Group("/notifications")
	tokenAuthenticationRouter.Use(authentication.TokenAuthentication)
	tokenAuthenticationRouter.GET("", handler.List)
	tokenAuthenticationRouter.GET("/unread", handler.Unread)
	tokenAuthenticationRouter.GET("/stream", handler.Stream)
	tokenAuthenticationRouter.PUT("/read", handler.MarkAllRead)
	tokenAuthenticationRouter.PUT("/:id/read", handler.MarkRead)
}
