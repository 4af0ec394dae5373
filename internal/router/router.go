package router

import (
	"github.com/gustavobiasi/api-gerenciador-financeiro/internal/config"
	"github.com/gustavobiasi/api-gerenciador-financeiro/internal/handler"
	"github.com/gustavobiasi/api-gerenciador-financeiro/internal/middleware"
	"github.com/gustavobiasi/api-gerenciador-financeiro/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and all API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// signup/signin do not require a token
	authHandler := handler.NewAuthHandler(db, cfg.JWT.Secret, cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	auth := r.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/signin", authHandler.Signin)

	// everything under /v1 is scoped to the authenticated user
	v1 := r.Group("/v1")
	v1.Use(middleware.AuthMiddleware(cfg.JWT.Secret, db))

	v1.GET("/me", handler.GetMe)

	accountHandler := handler.NewAccountHandler(db)
	v1.POST("/accounts", accountHandler.CreateAccount)
	v1.GET("/accounts", accountHandler.ListAccounts)
	v1.GET("/accounts/:id", accountHandler.GetAccount)
	v1.PUT("/accounts/:id", accountHandler.UpdateAccount)
	v1.DELETE("/accounts/:id", accountHandler.DeleteAccount)

	transferHandler := handler.NewTransferHandler(service.NewService(db))
	v1.GET("/transfers", transferHandler.ListTransfers)
	v1.GET("/transfers/:id", transferHandler.GetTransfer)
	v1.POST("/transfers", transferHandler.CreateTransfer)
	v1.PUT("/transfers/:id", transferHandler.UpdateTransfer)

	exportHandler := handler.NewExportHandler(db)
	v1.GET("/transactions/export/csv", exportHandler.ExportCSV)
	v1.GET("/transactions/export/xlsx", exportHandler.ExportXLSX)

	return r
}
