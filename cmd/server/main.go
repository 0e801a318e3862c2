package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hk-blood-donation/internal/config"
	"hk-blood-donation/internal/controllers"
	"hk-blood-donation/internal/db"
	"hk-blood-donation/internal/logger"
	"hk-blood-donation/internal/middleware"
	"hk-blood-donation/internal/redis"
	"hk-blood-donation/internal/services"
	"hk-blood-donation/internal/utils"
)

func main() {
	cfg := config.Load()

	log := logger.New()
	defer func() { _ = log.Sync() }()

	dbConn := db.Init(cfg.DatabaseDSN, log)
	rdb := redis.Init(cfg.RedisAddr, cfg.RedisPassword, log)
	mailer := utils.NewSMTPClient(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.FromEmail)

	verifier := services.NewVerificationService(dbConn, mailer, log)
	reports := services.NewReportService(dbConn, rdb, log)

	auth := controllers.NewAuthController(dbConn, verifier, cfg.JWTSecret, log)
	donors := controllers.NewDonorController(dbConn, verifier, log)
	requests := controllers.NewRequestController(dbConn, verifier, log)
	donations := controllers.NewDonationController(dbConn, log)
	admin := controllers.NewAdminController(dbConn, reports, log)
	contact := controllers.NewContactController(mailer, cfg.AdminEmail, log)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "Blood donation API is running",
		})
	})

	verifyToken := middleware.JWTMiddleware(cfg.JWTSecret)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/send-otp", auth.SendOTP)
		authGroup.POST("/verify-otp", auth.VerifyOTP)
		authGroup.POST("/signup", auth.SignUp)
		authGroup.POST("/login", auth.Login)
		authGroup.GET("/profile", verifyToken, auth.Profile)
		authGroup.GET("/qr-code", verifyToken, auth.QRCode)
	}

	donorGroup := api.Group("/donors")
	{
		donorGroup.POST("/send-verification", donors.SendVerification)
		donorGroup.POST("/verify-email", donors.VerifyEmail)
		donorGroup.POST("/register", donors.Register)
		donorGroup.GET("", donors.List)
		donorGroup.GET("/blood-type/:type", donors.ByBloodType)
		donorGroup.POST("/search", donors.Search)
	}

	requestGroup := api.Group("/requests")
	{
		requestGroup.POST("/send-verification", requests.SendVerification)
		requestGroup.POST("/verify-email", requests.VerifyEmail)
		requestGroup.POST("/submit", requests.Submit)
		requestGroup.GET("", requests.ListActive)
	}

	donationGroup := api.Group("/donations")
	{
		donationGroup.POST("/history", donations.History)
		donationGroup.POST("/requests-history", donations.RequestsHistory)
	}

	adminGroup := api.Group("/admin", middleware.AdminMiddleware(cfg.JWTSecret))
	{
		adminGroup.GET("/donors", admin.ListDonors)
		adminGroup.DELETE("/donors/:id", admin.DeleteDonor)
		adminGroup.GET("/requests", admin.ListRequests)
		adminGroup.PATCH("/requests/:id/status", admin.UpdateRequestStatus)
		adminGroup.POST("/reports/generate", admin.GenerateReport)
		adminGroup.GET("/reports/stats", admin.Stats)
	}

	api.POST("/contact/submit", contact.Submit)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()
	log.Info("server listening", zap.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := db.Close(dbConn); err != nil {
		log.Error("failed to close db", zap.Error(err))
	}
	log.Info("server stopped")
}
