package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alam0164088/chef-star/internal/interfaces/http/handlers"
)

type routeDeps struct {
	authHandler    *handlers.AuthHandler
	consentHandler *handlers.ConsentHandler
	authMiddleware gin.HandlerFunc
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	users := r.Group("/users")
	{
		users.POST("/register", d.authHandler.Register)
		users.POST("/verify-email", d.authHandler.VerifyEmail)
		users.POST("/resend-code", d.authHandler.ResendCode)
		users.POST("/login", d.authHandler.Login)

		// Browser-facing approval link; no auth by design, the token
		// in the path is the credential.
		users.GET("/approve-parent/:token", d.consentHandler.ApproveParent)

		users.POST("/submit-parent", d.authMiddleware, d.consentHandler.SubmitParent)
		users.GET("/profile", d.authMiddleware, d.authHandler.GetProfile)
	}
}
