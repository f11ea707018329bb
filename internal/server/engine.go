package server

import (
	"log/slog"
	"net/http"

	"github.com/dhis2-sre/campus-events/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	redocMiddleware "github.com/go-openapi/runtime/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const serviceName = "campus-events"

// GetEngine returns a Gin engine with the middleware every route needs and the routes that don't
// belong to any domain. The returned router group is rooted at basePath.
func GetEngine(logger *slog.Logger, basePath string, allowedOrigins []string) (*gin.Engine, *gin.RouterGroup) {
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	corsConfig.AllowCredentials = true
	corsConfig.AddAllowHeaders("authorization", "X-Correlation-ID")
	corsConfig.AddExposeHeaders("X-Correlation-ID")
	r.Use(cors.New(corsConfig))

	r.Use(otelgin.Middleware(serviceName))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.ErrorHandler())

	router := r.Group(basePath)

	redoc(router, basePath)

	router.GET("/health", Health)

	return r, router
}

// Health reports the service is up
func Health(c *gin.Context) {
	// swagger:route GET /health health
	//
	// Service health
	//
	// Show service health status
	//
	// responses:
	//   200: Health
	c.JSON(http.StatusOK, gin.H{"status": "up"})
}

func redoc(router *gin.RouterGroup, basePath string) {
	router.StaticFile("/swagger.yaml", "./swagger/swagger.yaml")

	redocOpts := redocMiddleware.RedocOpts{
		BasePath: basePath,
		SpecURL:  "./swagger.yaml",
	}
	router.GET("/docs", func(c *gin.Context) {
		redocHandler := redocMiddleware.Redoc(redocOpts, nil)
		redocHandler.ServeHTTP(c.Writer, c.Request)
	})
}
