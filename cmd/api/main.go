package main

import (
	"log"

	"github.com/joho/godotenv"

	"go-todo-metrics/internal/config"
	"go-todo-metrics/internal/database"
	"go-todo-metrics/internal/metrics"
	"go-todo-metrics/internal/routes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg := config.Load()
	m := metrics.New()
	conn := database.NewConnector(cfg)

	// 起動時の初期セットアップ。失敗しても最初のリクエストで再試行される。
	if err := conn.InitSchema(); err != nil {
		log.Printf("Initial database setup failed, will retry on first request: %v", err)
	}

	r := routes.SetupRouter(conn, m)

	log.Printf("Server listening on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
