package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/trackmap-go/internal/config"
	"github.com/jengzang/trackmap-go/internal/handler"
	"github.com/jengzang/trackmap-go/internal/metrics"
	"github.com/jengzang/trackmap-go/internal/middleware"
)

// Dependencies are the pieces the router serves
type Dependencies struct {
	Config  *config.Config
	Runs    *handler.RunHandler
	Metrics *metrics.Collector
	Limiter *middleware.RateLimiter
}

// SetupRouter 设置路由
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger("/health", "/metrics"), gin.Recovery())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Trackmap API is running",
		})
	})

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := r.Group("/api/v1")
	if deps.Limiter != nil {
		api.Use(middleware.RateLimit(deps.Limiter))
	}
	{
		runs := api.Group("/runs")
		{
			runs.GET("/latest", deps.Runs.GetLatestRun)
			runs.GET("/latest/days", deps.Runs.GetLatestDays)
			runs.POST("", middleware.Auth(deps.Config.JWTSecret), deps.Runs.CreateRun)
		}

		api.GET("/days/:id", deps.Runs.GetDay)
	}

	return r
}
