package router

import (
	"time"

	"github.com/TallyCrew/tally-crew-backend/config"
	"github.com/TallyCrew/tally-crew-backend/handlers"
	"github.com/TallyCrew/tally-crew-backend/middleware"
	"github.com/TallyCrew/tally-crew-backend/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies holds everything required to set up routes.
type Dependencies struct {
	Config            *config.Config
	JWTValidator      middleware.Validator
	RateLimiter       services.RateLimiterInterface
	GroupHandler      *handlers.GroupHandler
	ExpenseHandler    *handlers.ExpenseHandler
	SettlementHandler *handlers.SettlementHandler
	DebtHandler       *handlers.DebtHandler
	EventsHandler     *handlers.EventsHandler
	HealthHandler     *handlers.HealthHandler
}

// SetupRouter configures and returns the main gin engine with all routes.
func SetupRouter(deps Dependencies) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	if len(deps.Config.Server.TrustedProxies) > 0 {
		_ = r.SetTrustedProxies(deps.Config.Server.TrustedProxies)
	} else {
		_ = r.SetTrustedProxies(nil)
	}

	// Global middleware
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	// Health and metrics routes do not require auth
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	rateLimitWindow := time.Duration(deps.Config.RateLimit.WindowSeconds) * time.Second
	apiLimit := middleware.RateLimitConfig{
		RequestsPerWindow: deps.Config.RateLimit.RequestsPerWindow,
		Window:            rateLimitWindow,
	}

	v1 := r.Group("/v1")
	{
		authRoutes := v1.Group("")
		authRoutes.Use(middleware.AuthMiddleware(deps.JWTValidator))
		authRoutes.Use(middleware.APIRateLimiter(deps.RateLimiter, apiLimit))
		{
			groupRoutes := authRoutes.Group("/groups")
			{
				groupRoutes.POST("", deps.GroupHandler.CreateGroupHandler)
				groupRoutes.GET("", deps.GroupHandler.ListGroupsHandler)
				groupRoutes.GET("/:groupId", deps.GroupHandler.GetGroupHandler)
				groupRoutes.PATCH("/:groupId", deps.GroupHandler.UpdateGroupHandler)
				groupRoutes.DELETE("/:groupId", deps.GroupHandler.DeleteGroupHandler)

				memberRoutes := groupRoutes.Group("/:groupId/members")
				{
					memberRoutes.POST("", deps.GroupHandler.AddMemberHandler)
					memberRoutes.GET("", deps.GroupHandler.ListMembersHandler)
					memberRoutes.DELETE("/:memberId", deps.GroupHandler.RemoveMemberHandler)
				}

				expenseRoutes := groupRoutes.Group("/:groupId/expenses")
				{
					expenseRoutes.POST("", deps.ExpenseHandler.CreateExpenseHandler)
					expenseRoutes.GET("", deps.ExpenseHandler.ListExpensesHandler)
					expenseRoutes.GET("/:expenseId", deps.ExpenseHandler.GetExpenseHandler)
					expenseRoutes.PATCH("/:expenseId", deps.ExpenseHandler.UpdateExpenseHandler)
					expenseRoutes.DELETE("/:expenseId", deps.ExpenseHandler.DeleteExpenseHandler)
				}

				settlementRoutes := groupRoutes.Group("/:groupId/settlements")
				{
					settlementRoutes.POST("", deps.SettlementHandler.CreateSettlementHandler)
					settlementRoutes.GET("", deps.SettlementHandler.ListSettlementsHandler)
					settlementRoutes.GET("/:settlementId", deps.SettlementHandler.GetSettlementHandler)
					settlementRoutes.DELETE("/:settlementId", deps.SettlementHandler.DeleteSettlementHandler)
				}

				debtRoutes := groupRoutes.Group("/:groupId/debts")
				{
					debtRoutes.GET("", deps.DebtHandler.GetGroupDebtsHandler)
					// Manual recalculation also has a per-group cooldown
					// enforced by the model.
					debtRoutes.POST("/recalculate",
						middleware.EndpointRateLimiter(deps.RateLimiter, 10, time.Minute),
						deps.DebtHandler.RecalculateDebtsHandler,
					)
				}

				groupRoutes.GET("/:groupId/events", deps.EventsHandler.StreamEventsHandler)
			}
		}
	}

	return r
}
