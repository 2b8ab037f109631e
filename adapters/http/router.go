package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davitran/profile-hub/pkg/auth"
	"github.com/davitran/profile-hub/pkg/logger"
)

// NewRouter builds the gin engine with all routes and middleware
// wired. Uploaded files stay reachable under /public until they are
// migrated to the media store.
func NewRouter(
	authHandler *AuthHandler,
	profileHandler *ProfileHandler,
	jwtSvc *auth.JWTService,
	uploadDir string,
	log logger.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ErrorMiddleware(log))

	router.Static("/public", uploadDir)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

		users := api.Group("/users")
		{
			users.POST("/register", authHandler.Register)
			users.POST("/login", authHandler.Login)

			private := users.Group("/")
			private.Use(AuthMiddleware(jwtSvc))
			{
				private.GET("/profile", profileHandler.GetProfile)
				private.PATCH("/profile", profileHandler.UpdateProfile)
			}
		}
	}

	return router
}
