package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/Mwendia1/LIBRATRACK/docs"
	"github.com/Mwendia1/LIBRATRACK/internal/catalog/books"
	"github.com/Mwendia1/LIBRATRACK/internal/catalog/labels"
	"github.com/Mwendia1/LIBRATRACK/internal/circulation/borrows"
	"github.com/Mwendia1/LIBRATRACK/internal/dashboard"
	"github.com/Mwendia1/LIBRATRACK/internal/members"
	"github.com/Mwendia1/LIBRATRACK/internal/platform/auth"
	"github.com/Mwendia1/LIBRATRACK/internal/platform/db"
	"github.com/Mwendia1/LIBRATRACK/internal/platform/middleware"
)

func newRouter(cfg *db.Config, conn *db.DB, logger *slog.Logger) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())
	_ = r.SetTrustedProxies(nil)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Location", "X-Total-Count", middleware.RequestIDHeader},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to LibraTrack API"})
	})
	// ヘルス（DB疎通込み）
	health := func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := conn.PingContext(ctx); err != nil {
			logger.Error("health check failed", "err", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	r.GET("/health", health)
	r.GET("/healthz", health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	guard := auth.NewGuard(cfg.Auth.Enabled, []byte(cfg.Auth.Secret))

	bookSvc := books.NewService(conn, books.WithLogger(logger))
	memberSvc := members.NewService(conn, members.WithLogger(logger))

	books.RegisterRoutes(r, bookSvc, guard)
	members.RegisterRoutes(r, memberSvc, guard)
	borrows.RegisterRoutes(r, borrows.NewService(conn, bookSvc.Store(), memberSvc.Store(), borrows.WithLogger(logger)), guard)
	dashboard.RegisterRoutes(r, dashboard.NewService(conn))
	labels.RegisterRoutes(r, labels.NewService(conn, bookSvc.Store(), labels.WithLogger(logger)), guard)
	if cfg.Auth.Enabled {
		auth.RegisterRoutes(r, auth.NewService(conn, cfg.Auth), guard)
	}
	return r
}
