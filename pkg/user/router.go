package user

import (
	"github.com/dhis2-sre/campus-events/internal/middleware"
	"github.com/gin-gonic/gin"
)

func Routes(r gin.IRouter, authentication middleware.AuthenticationMiddleware, authorization middleware.AuthorizationMiddleware, handler Handler) {
	r.POST("/users", handler.SignUp)
	r.POST("/refresh", handler.RefreshToken)

	basicAuthenticationRouter := r.Group("")
	basicAuthenticationRouter.Use(authentication.BasicAuthentication)
	basicAuthenticationRouter.POST("/tokens", handler.SignIn)

	tokenAuthenticationRouter := r.Group("")
	tokenAuthenticationRouter.Use(authentication.TokenAuthentication)
	tokenAuthenticationRouter.GET("/me", handler.Me)
	tokenAuthenticationRouter.PUT("/me", handler.UpdateProfile)
	tokenAuthenticationRouter.DELETE("/users", handler.SignOut)
	tokenAuthenticationRouter.GET("/users/:id", handler.FindById)

	administratorRouter := tokenAuthenticationRouter.Group("/admin")
	administratorRouter.Use(authorization.RequireAdministrator)
	administratorRouter.GET("/users", handler.FindAll)
	administratorRouter.PUT("/users/:id/role", handler.UpdateRole)
	administratorRouter.DELETE("/users/:id", handler.Delete)
}
