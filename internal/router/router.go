package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cosmo-sorter/cosmo/internal/auth"
	"github.com/cosmo-sorter/cosmo/internal/handlers"
	"github.com/cosmo-sorter/cosmo/internal/middleware"
)

type Deps struct {
	Tokens         *auth.TokenManager
	Users          middleware.UserResolver
	AuthHandler    *handlers.AuthHandler
	Universes      *handlers.UniverseHandler
	Materials      *handlers.MaterialHandler
	Sync           *handlers.SyncHandler
	AllowedOrigins []string
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authRequired := middleware.AuthMiddleware(deps.Tokens, deps.Users)

	api := r.Group("/api/v1")
	{
		api.GET("/health", handlers.HealthCheck)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", deps.AuthHandler.Register)
			authGroup.POST("/login", deps.AuthHandler.Login)
			authGroup.GET("/me", authRequired, deps.AuthHandler.Me)
			authGroup.PUT("/me", authRequired, deps.AuthHandler.UpdateMe)
			authGroup.DELETE("/me", authRequired, deps.AuthHandler.DeleteMe)
		}

		universes := api.Group("/universes", authRequired)
		{
			universes.GET("", deps.Universes.List)
			universes.POST("", deps.Universes.Create)
			universes.GET("/:id", deps.Universes.Get)
			universes.PUT("/:id", deps.Universes.Update)
			universes.DELETE("/:id", deps.Universes.Delete)
			universes.POST("/:id/collaborators/:user_id", deps.Universes.AddCollaborator)
			universes.DELETE("/:id/collaborators/:user_id", deps.Universes.RemoveCollaborator)
		}

		materials := api.Group("/materials", authRequired)
		{
			materials.GET("", deps.Materials.List)
			materials.POST("", deps.Materials.Create)
			materials.POST("/attachments", deps.Materials.UploadURL)
			materials.GET("/:id", deps.Materials.Get)
			materials.PUT("/:id", deps.Materials.Update)
			materials.DELETE("/:id", deps.Materials.Delete)
		}

		api.POST("/sync/localstorage", authRequired, deps.Sync.LocalStorage)
	}

	return r
}
