package routes

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-geofal-humedad/config"
	"go-geofal-humedad/controllers"
	"go-geofal-humedad/middleware"
	"go-geofal-humedad/report"
	"go-geofal-humedad/specimen"
)

// Deps 路由依赖
type Deps struct {
	DB      *sql.DB
	Table   *specimen.Table
	Reports report.Generator
	Config  *config.Config
	Logger  *zap.Logger
}

// SetupRouter 配置所有路由
func SetupRouter(d Deps) *gin.Engine {
	gin.SetMode(d.Config.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(d.Logger))

	humedadController := controllers.NewHumedadController(d.DB, d.Table, d.Reports, d.Config.Equipment, d.Logger)

	// 公共路由
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 需要认证的路由
	auth := middleware.NoAuth()
	if d.Config.Auth.Mode == "jwt" {
		auth = middleware.AuthMiddleware([]byte(d.Config.Auth.Secret()), d.Logger)
	}
	protected := r.Group("/api/humedad")
	protected.Use(auth)
	{
		protected.GET("/tabla", humedadController.GetTabla)
		protected.POST("/calcular", humedadController.Calcular)
		protected.POST("/excel", humedadController.SaveHumedad)
		protected.GET("", humedadController.GetHumedadList)
		protected.GET("/:id", humedadController.GetHumedad)
	}

	return r
}
