package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/codescalper/sankalp/internal/adapters/handler/http/middleware"
)

type RouterDependencies struct {
	LedgerHandler *LedgerHandler
	Backend       string
	DB            *sqlx.DB
	Redis         *redis.Client
	StartTime     time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, X-Request-ID")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	router.Use(middleware.RequestID())

	if deps.Redis != nil {
		router.Use(middleware.RateLimiterMiddleware(deps.Redis, 100, 1*time.Minute))
	}

	router.GET("/health", func(c *gin.Context) {
		storageStatus := "connected"
		switch {
		case deps.DB != nil:
			if err := deps.DB.Ping(); err != nil {
				storageStatus = "unreachable"
			}
		case deps.Redis != nil:
			if err := deps.Redis.Ping(c.Request.Context()).Err(); err != nil {
				storageStatus = "unreachable"
			}
		}

		statusCode := 200
		if storageStatus == "unreachable" {
			statusCode = 503
		}

		c.JSON(statusCode, gin.H{
			"status":  "ok",
			"backend": deps.Backend,
			"storage": storageStatus,
			"uptime":  time.Since(deps.StartTime).String(),
		})
	})

	apiV1 := router.Group("/api/v1")

	deps.LedgerHandler.RegisterRoutes(apiV1)

	return router
}
