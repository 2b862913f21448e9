// Package database はMySQL/MariaDBへの接続確立とスキーマの遅延初期化を担当します。
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"go-todo-metrics/internal/config"
)

// 既定のリトライパラメータ。
const (
	DefaultConnectAttempts = 5
	DefaultConnectDelay    = 2 * time.Second
)

// Connector はデータベース接続の確立とスキーマ初期化を行います。
// 接続はリクエストごとに新規に確立され、プーリングは行いません。
type Connector struct {
	cfg *config.Config

	// Attempts / Delay は ConnectDefault, Acquire, InitSchema, EnsureReady が
	// 使用するリトライパラメータです (テストで上書き可能)。
	Attempts int
	Delay    time.Duration

	// ドライバー名とスキーマ操作のSQLは差し替え可能です。
	// 既定はMySQLですが、テストではSQLiteバックエンドに向けられます。
	Driver      string
	TableCheck  string                          // テーブル存在確認のカタログ参照。不在は sql.ErrNoRows。
	SchemaDDL   []string                        // InitSchema が順に実行する冪等なCREATE文
	DSNOverride func(withDatabase bool) string // 設定時は DSN() の代わりに使用
}

// NewConnector は既定のリトライパラメータとMySQL方言を持つConnectorを作成します。
func NewConnector(cfg *config.Config) *Connector {
	return &Connector{
		cfg:        cfg,
		Attempts:   DefaultConnectAttempts,
		Delay:      DefaultConnectDelay,
		Driver:     "mysql",
		TableCheck: "SHOW TABLES LIKE 'todos'",
		SchemaDDL: []string{
			fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", cfg.DBName),
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s.todos (
					id INT AUTO_INCREMENT PRIMARY KEY,
					title VARCHAR(255) NOT NULL,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				)`, cfg.DBName),
		},
	}
}

// DSN はMySQL接続文字列を構築します。
// withDatabase が false の場合はデータベース名を省略し、サーバー全体への
// 接続になります (スキーマ作成前に必要)。
func (c *Connector) DSN(withDatabase bool) string {
	name := ""
	if withDatabase {
		name = c.cfg.DBName
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&timeout=5s",
		c.cfg.DBUser, c.cfg.DBPass, c.cfg.DBHost, c.cfg.DBPort, name)
}

func (c *Connector) dsn(withDatabase bool) string {
	if c.DSNOverride != nil {
		return c.DSNOverride(withDatabase)
	}
	return c.DSN(withDatabase)
}

// Connect は最大 attempts 回まで接続を試行します。失敗のたびに試行回数と
// エラーをログに出力し、最後の試行以外は delay だけ待ってから再試行します。
// 成功はPingで検証します。部分的・縮退状態はなく、成功か失敗かの二値です。
func (c *Connector) Connect(withDatabase bool, attempts int, delay time.Duration) (*sql.DB, error) {
	dsn := c.dsn(withDatabase)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sql.Open(c.Driver, dsn)
		if err == nil {
			if err = db.Ping(); err == nil {
				return db, nil
			}
			db.Close()
		}
		lastErr = err
		log.Printf("Connection attempt %d failed: %v", attempt, err)
		if attempt < attempts {
			time.Sleep(delay)
		}
	}
	log.Println("Failed to connect to MariaDB after retries")
	return nil, fmt.Errorf("could not connect to database after %d attempts: %w", attempts, lastErr)
}

// ConnectDefault はConnectorに設定されたリトライパラメータで接続します。
func (c *Connector) ConnectDefault(withDatabase bool) (*sql.DB, error) {
	return c.Connect(withDatabase, c.Attempts, c.Delay)
}

// Acquire はデータベース選択ありの接続を確立します。
// ハンドラーがリクエストごとに呼び出します。
func (c *Connector) Acquire() (*sql.DB, error) {
	return c.ConnectDefault(true)
}

// InitSchema はデータベースとtodosテーブルが存在しない場合に作成します。
// SchemaDDL の各文は IF NOT EXISTS による冪等な作成で、複数リクエストが
// 同時に実行しても安全です (アプリケーション側のロックは持ちません)。
func (c *Connector) InitSchema() error {
	// スキーマ作成前なので、データベース選択なしで接続する
	db, err := c.ConnectDefault(false)
	if err != nil {
		log.Printf("Failed to connect to MariaDB server: %v", err)
		return fmt.Errorf("could not connect for schema initialization: %w", err)
	}
	defer db.Close()

	for _, stmt := range c.SchemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			log.Printf("Error initializing database: %v", err)
			return fmt.Errorf("could not initialize schema: %w", err)
		}
	}

	log.Println("Database and table initialized successfully")
	return nil
}

// EnsureReady はリクエスト処理の前にスキーマの存在を確認し、
// 無ければ InitSchema で修復します。
//
// 2つの修復経路は結果の扱いが異なります:
//   - 接続自体に失敗した場合は InitSchema を試みますが、修復結果は
//     再検証せず、この呼び出し自体は接続エラーを返します。
//   - テーブルが見つからない場合は InitSchema の結果をそのまま返します。
func (c *Connector) EnsureReady() error {
	db, err := c.ConnectDefault(true)
	if err != nil {
		log.Println("Attempting to initialize database due to connection failure")
		if initErr := c.InitSchema(); initErr != nil {
			log.Printf("Repair attempt failed: %v", initErr)
		}
		return fmt.Errorf("database not ready: %w", err)
	}
	defer db.Close()

	var table string
	err = db.QueryRow(c.TableCheck).Scan(&table)
	if errors.Is(err, sql.ErrNoRows) {
		log.Println("Table 'todos' not found, initializing database")
		db.Close()
		return c.InitSchema()
	}
	if err != nil {
		log.Printf("Error checking table existence: %v", err)
		return fmt.Errorf("could not check table existence: %w", err)
	}
	return nil
}
