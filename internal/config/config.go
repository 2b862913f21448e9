// Package config は環境変数からアプリケーション設定を読み込みます。
package config

import "os"

// Config はデータベース接続とHTTPサーバーの設定を保持します。
type Config struct {
	DBHost string // MYSQL_HOST     (デフォルト: localhost)
	DBPort string // MYSQL_PORT     (デフォルト: 3306)
	DBUser string // MYSQL_USER     (デフォルト: todo_user)
	DBPass string // MYSQL_PASSWORD (デフォルト: your_secure_password)
	DBName string // MYSQL_DATABASE (デフォルト: todo_db)
	Port   string // PORT           (デフォルト: 8080)
}

// Load は環境変数からConfigを構築します。
// 未設定の変数にはデフォルト値を使用します。
// .env ファイルの読み込みは main.go で godotenv.Load() が行います。
func Load() *Config {
	return &Config{
		DBHost: getEnv("MYSQL_HOST", "localhost"),
		DBPort: getEnv("MYSQL_PORT", "3306"),
		DBUser: getEnv("MYSQL_USER", "todo_user"),
		DBPass: getEnv("MYSQL_PASSWORD", "your_secure_password"),
		DBName: getEnv("MYSQL_DATABASE", "todo_db"),
		Port:   getEnv("PORT", "8080"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
