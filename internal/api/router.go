package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mesikahq/gestion-salud/internal/auth"
	"github.com/mesikahq/gestion-salud/internal/middleware"
)

type Router struct {
	handler     *Handler
	authService auth.Service
}

func NewRouter(handler *Handler, authService auth.Service) *Router {
	return &Router{
		handler:     handler,
		authService: authService,
	}
}

func (r *Router) SetupRouter(logger *zap.Logger) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestIDMiddleware(),
		middleware.SecurityHeadersMiddleware(),
		middleware.RecoveryMiddleware(logger),
		middleware.LoggerMiddleware(logger),
		middleware.AuditContextMiddleware(),
		middleware.RateLimitMiddleware(rate.Every(time.Second), 30),
		middleware.TimeoutMiddleware(30*time.Second),
		middleware.CORS(),
	)

	router.GET("/health", r.handler.Health)

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", r.handler.Login)
			authRoutes.POST("/refresh", r.handler.RefreshToken)
			authRoutes.GET("/profile", middleware.AuthMiddleware(r.authService), r.handler.GetProfile)
			authRoutes.PUT("/password", middleware.AuthMiddleware(r.authService), r.handler.ChangePassword)
		}

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(r.authService))
		{
			catalogs := protected.Group("/catalogs")
			{
				catalogs.GET("", r.handler.ListCatalogKinds)
				catalogs.GET("/:kind", r.handler.ListCatalogEntries)
				catalogs.POST("/:kind", r.handler.CreateCatalogEntry)
				catalogs.GET("/:kind/:id", r.handler.GetCatalogEntry)
				catalogs.PUT("/:kind/:id", r.handler.UpdateCatalogEntry)
				catalogs.DELETE("/:kind/:id", r.handler.DeleteCatalogEntry)
			}

			disabilities := protected.Group("/disability-types")
			{
				disabilities.GET("", r.handler.ListDisabilityTypes)
				disabilities.POST("", r.handler.CreateDisabilityType)
				disabilities.GET("/:id", r.handler.GetDisabilityType)
				disabilities.PUT("/:id", r.handler.UpdateDisabilityType)
				disabilities.DELETE("/:id", r.handler.DeleteDisabilityType)
			}

			providers := protected.Group("/providers")
			{
				providers.GET("", r.handler.ListProviders)
				providers.POST("", r.handler.RegisterProvider)
				providers.GET("/:id", r.handler.GetProvider)
				providers.PUT("/:id", r.handler.UpdateProvider)
				providers.DELETE("/:id", r.handler.DeleteProvider)
			}

			patients := protected.Group("/patients")
			{
				patients.GET("", r.handler.ListPatients)
				patients.POST("", r.handler.RegisterPatient)
				patients.GET("/document/:number", r.handler.GetPatientByDocument)
				patients.GET("/:id", r.handler.GetPatient)
				patients.PUT("/:id", r.handler.UpdatePatient)
				patients.DELETE("/:id", r.handler.DeletePatient)

				patients.GET("/:id/nationalities", r.handler.ListPatientNationalities)
				patients.POST("/:id/nationalities", r.handler.AddPatientNationality)
				patients.DELETE("/:id/nationalities/:nationality_id", r.handler.RemovePatientNationality)

				patients.GET("/:id/disabilities", r.handler.ListPatientDisabilities)
				patients.POST("/:id/disabilities", r.handler.AddPatientDisability)
				patients.DELETE("/:id/disabilities/:link_id", r.handler.RemovePatientDisability)

				patients.GET("/:id/directives", r.handler.ListPatientDirectives)
				patients.GET("/:id/oppositions", r.handler.ListPatientOppositions)
			}

			directives := protected.Group("/directives")
			{
				directives.POST("", r.handler.SubscribeDirective)
				directives.GET("/:id", r.handler.GetDirective)
				directives.POST("/:id/amend", r.handler.AmendDirective)
				directives.POST("/:id/revoke", r.handler.RevokeDirective)
				directives.DELETE("/:id", r.handler.DeleteDirective)
			}

			oppositions := protected.Group("/oppositions")
			{
				oppositions.POST("", r.handler.DeclareOpposition)
				oppositions.GET("/:id", r.handler.GetOpposition)
				oppositions.PUT("/:id", r.handler.UpdateOpposition)
				oppositions.DELETE("/:id", r.handler.DeleteOpposition)
				oppositions.POST("/:id/document", r.handler.AttachOppositionDocument)
				oppositions.GET("/:id/document", r.handler.GetOppositionDocument)
				oppositions.DELETE("/:id/document", r.handler.DetachOppositionDocument)
			}

			encounters := protected.Group("/encounters")
			{
				encounters.GET("", r.handler.ListEncounters)
				encounters.POST("", r.handler.ScheduleEncounter)
				encounters.GET("/:id", r.handler.GetEncounter)
				encounters.PUT("/:id", r.handler.UpdateEncounter)
				encounters.DELETE("/:id", r.handler.DeleteEncounter)
				encounters.POST("/:id/attend", r.handler.AttendEncounter)
				encounters.POST("/:id/cancel", r.handler.CancelEncounter)
				encounters.POST("/:id/no-show", r.handler.MarkEncounterNoShow)
				encounters.POST("/:id/discharge", r.handler.DischargeEncounter)
			}

			admin := protected.Group("")
			admin.Use(middleware.RoleMiddleware(auth.RoleAdmin))
			{
				admin.POST("/users", r.handler.RegisterUser)
				admin.GET("/users", r.handler.ListUsers)
				admin.DELETE("/users/:id", r.handler.DeactivateUser)
				admin.GET("/audit/logs", r.handler.GetAuditLogs)
			}
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
	})

	return router
}
