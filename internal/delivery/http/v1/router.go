package v1

import (
	"net/http"

	"github.com/Dharanish-AM/InterVueAI/config"
	"github.com/Dharanish-AM/InterVueAI/internal/delivery/http/middleware"
	"github.com/Dharanish-AM/InterVueAI/internal/delivery/http/response"
	"github.com/Dharanish-AM/InterVueAI/internal/domain"
	"github.com/Dharanish-AM/InterVueAI/internal/workers/timekeeper"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	IntakeUC    domain.IntakeUsecase
	InterviewUC domain.InterviewUsecase
	Timekeeper  *timekeeper.Timekeeper
	Config      *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware()) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimit(middleware.GlobalRateLimitConfig(
		deps.Config.RateLimitGlobalThreshold, deps.Config.RateLimitWindowSeconds)))

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Uploads and answer submissions both reach the oracle, so they
	// share the stricter threshold.
	oracleLimiter := middleware.RateLimit(middleware.UploadRateLimitConfig(
		deps.Config.RateLimitUploadThreshold, deps.Config.RateLimitWindowSeconds))

	NewResumeHandler(v1, deps.IntakeUC, oracleLimiter)
	NewInterviewHandler(v1, deps.InterviewUC, deps.Timekeeper, oracleLimiter)

	return r
}
