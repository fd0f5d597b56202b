package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/trackmap-go/internal/api"
	"github.com/jengzang/trackmap-go/internal/config"
	"github.com/jengzang/trackmap-go/internal/database"
	"github.com/jengzang/trackmap-go/internal/handler"
	"github.com/jengzang/trackmap-go/internal/metrics"
	"github.com/jengzang/trackmap-go/internal/middleware"
	"github.com/jengzang/trackmap-go/internal/repository"
	"github.com/jengzang/trackmap-go/internal/service"

	// Import analyzer packages to register them
	_ "github.com/jengzang/trackmap-go/internal/analysis/movement"
	_ "github.com/jengzang/trackmap-go/internal/analysis/speed"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// 初始化数据库
	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	collector := metrics.NewCollector()
	repo := repository.NewRunRepository(database.GetDB())

	generator, err := service.NewGenerateService(cfg, repo, collector)
	if err != nil {
		log.Fatal("Failed to create generator:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.GenerateOnStart {
		go func() {
			if _, err := generator.Generate(ctx); err != nil {
				log.Printf("[Generate] Startup run failed: %v", err)
			}
		}()
	}

	limiter := middleware.NewRateLimiter(120, time.Minute)
	go limiter.Run(ctx.Done())

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	router := api.SetupRouter(api.Dependencies{
		Config:  cfg,
		Runs:    handler.NewRunHandler(service.NewRunService(repo), generator),
		Metrics: collector,
		Limiter: limiter,
	})

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
