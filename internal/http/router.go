package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"accounts-api/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(logger *zap.Logger, accountH *AccountHandler, tokens *service.TokenService) *gin.Engine {
	registerValidators()

	r := gin.New()

	// Middlewares basicos: logging, recovery, request id y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), requestIDMiddleware(), jsonContentTypeMiddleware())

	auth := r.Group("/api/auth")
	auth.POST("/register", accountH.Register)
	auth.POST("/login", accountH.Login)
	auth.POST("/google", accountH.GoogleLogin)

	protected := auth.Group("", AuthMiddleware(tokens))
	protected.GET("", accountH.ListAccounts)
	protected.GET("/me", accountH.GetMe)
	protected.GET("/:id", accountH.GetAccount)
	protected.PUT("/:id", accountH.UpdateAccount)
	protected.DELETE("/:id", accountH.DeleteAccount)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.Writer.Header().Get("X-Request-ID")),
		)
	}
}

// requestIDMiddleware asigna un identificador único a cada request.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
