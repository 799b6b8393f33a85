package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/CineVault/controllers"
	"github.com/CineVault/initializers"
	"github.com/CineVault/middlewares"
	"github.com/CineVault/services"
	"github.com/CineVault/stores"
)

func main() {
	initializers.LoadEnv()

	db, err := initializers.OpenDatabase(os.Getenv("DB_URL"))
	if err != nil {
		log.Fatal(err)
	}

	creds := stores.NewCredentialStore(db)
	codes := stores.NewCodeLedger(db)
	devices := stores.NewDeviceTokenStore(db)

	emails := services.NewEmailService(os.Getenv("RESEND_API_KEY"), os.Getenv("EMAIL_FROM"))

	push, err := services.NewPushNotificationService(context.Background(), devices)
	if err != nil {
		log.Printf("push notifications disabled: %v", err)
	}

	accounts := services.NewAccountService(creds, codes, emails, push)
	accountController := controllers.NewAccountController(accounts, devices)

	router := gin.Default()

	getKey := func(c *gin.Context) string {
		if gin.Mode() == gin.DebugMode {
			return c.FullPath()
		}
		return c.ClientIP()
	}

	router.GET("/ping", middlewares.RateLimitMiddleware(2, 2, getKey), controllers.Ping)

	router.POST("/signup", middlewares.RateLimitMiddleware(2, 2, getKey), accountController.Signup)
	router.POST("/login", middlewares.RateLimitMiddleware(2, 2, getKey), accountController.Login)

	// Password recovery endpoints
	router.POST("/auth/forgot-password", middlewares.RateLimitMiddleware(2, 2, getKey), accountController.ForgotPassword)
	router.POST("/auth/verify-reset-code", middlewares.RateLimitMiddleware(5, 5, getKey), accountController.VerifyResetCode)
	router.POST("/auth/reset-password", middlewares.RateLimitMiddleware(2, 2, getKey), accountController.ResetPassword)

	auth := router.Group("/")
	auth.Use(middlewares.CheckAuth(creds))
	auth.Use(middlewares.RateLimitMiddleware(10, 10, getKey))
	{
		auth.GET("/users/me", accountController.GetProfile)
		auth.PATCH("/users/password", accountController.ChangePassword)
		auth.POST("/users/push-token", accountController.StoreDeviceToken)
	}

	if err := router.Run(); err != nil {
		log.Fatal(err)
	}
}
