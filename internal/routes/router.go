// Package routesはroutingを行います。
package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go-todo-metrics/internal/handlers"
	"go-todo-metrics/internal/metrics"
)

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(db handlers.DBProvider, m *metrics.Metrics) *gin.Engine {
	r := gin.Default()

	// CORS対策
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"http://localhost:3000"}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	r.Use(cors.New(config))

	todoHandler := handlers.NewTodoHandler(db, m)

	// メトリクスミドルウェアは /metrics 自身には適用しない
	measured := r.Group("/", m.Middleware())
	{
		measured.GET("/todos", todoHandler.GetTodosHandler)
		measured.POST("/todos", todoHandler.CreateTodoHandler)
		measured.GET("/health", todoHandler.HealthHandler)
	}

	r.GET("/metrics", gin.WrapH(m.Handler()))

	return r
}
