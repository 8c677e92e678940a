package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/billscan/internal/auth"
	"github.com/mmynk/billscan/internal/middleware"
	"github.com/mmynk/billscan/internal/service"
)

// NewRouter assembles the full HTTP API.
func NewRouter(
	authService *service.AuthService,
	sessionService *service.SessionService,
	jwtManager *auth.JWTManager,
	maxUploadBytes int64,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())
	router.MaxMultipartMemory = maxUploadBytes

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := NewAuthHandler(authService)
	receiptHandler := NewReceiptHandler(sessionService)
	sessionHandler := NewSessionHandler(sessionService)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)

		v1.POST("/receipts/parse", receiptHandler.Parse)
		v1.POST("/receipts/scan", receiptHandler.Scan)

		sessions := v1.Group("/sessions", middleware.RequireAuth(jwtManager))
		{
			sessions.POST("", sessionHandler.Create)
			sessions.GET("/:id", sessionHandler.Get)
			sessions.POST("/:id/people", sessionHandler.AddPerson)
			sessions.DELETE("/:id/people/:personId", sessionHandler.RemovePerson)
			sessions.PUT("/:id/items/:itemId", sessionHandler.SetItemOwners)
			sessions.POST("/:id/split", sessionHandler.Split)
			sessions.GET("/:id/pay/:personId", sessionHandler.PaymentLink)
			sessions.GET("/:id/pay/:personId/qr", sessionHandler.PaymentQR)
		}
	}

	return router
}
