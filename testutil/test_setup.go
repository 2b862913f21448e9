// Package testutil はテスト用の共通セットアップを提供します。
//
// ハンドラーテストは本物のMySQLサーバーを要求せず、SQLiteファイルを
// バックエンドにしたフェイクのDBProviderで実行します。リポジトリのSQLは
// 方言に依存しない (SELECT / INSERT / COUNT と ? プレースホルダのみ) ため、
// そのまま動作します。
package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"go-todo-metrics/internal/metrics"
	"go-todo-metrics/internal/models"
	"go-todo-metrics/internal/routes"
)

// FakeDB は handlers.DBProvider のテスト用実装です。
// ReadyErr / AcquireErr を設定すると、対応するメソッドが失敗します。
type FakeDB struct {
	DSN        string
	ReadyErr   error
	AcquireErr error
	ReadyCalls atomic.Int64
}

// NewFakeDB はテーブル作成済みのSQLiteバックエンドを持つFakeDBを作成します。
func NewFakeDB(t *testing.T) *FakeDB {
	t.Helper()

	// 同時書き込みに備えて busy_timeout を設定する
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", filepath.Join(t.TempDir(), "todos.db"))

	db, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS todos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title VARCHAR(255) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`)
	require.NoError(t, err)

	return &FakeDB{DSN: dsn}
}

// EnsureReady は設定されたReadyErrをそのまま返します。
func (f *FakeDB) EnsureReady() error {
	f.ReadyCalls.Add(1)
	return f.ReadyErr
}

// Acquire は本番同様、呼び出しごとに新しい接続を確立します。
func (f *FakeDB) Acquire() (*sql.DB, error) {
	if f.AcquireErr != nil {
		return nil, f.AcquireErr
	}
	return sql.Open("sqlite3", f.DSN)
}

// SetupTestRouter はフェイクDBとメトリクスを配線したルーターを作成します。
func SetupTestRouter(t *testing.T) (*FakeDB, *metrics.Metrics, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fake := NewFakeDB(t)
	m := metrics.New()
	r := routes.SetupRouter(fake, m)
	return fake, m, r
}

// CreateTestTodo はテスト用のTODOをAPI経由で作成します。
func CreateTestTodo(t *testing.T, router *gin.Engine, title string) *models.Todo {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"title": title})
	req, _ := http.NewRequest(http.MethodPost, "/todos", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code, "TODO作成に失敗しました: %s", resp.Body.String())

	var createdTodo models.Todo
	err := json.Unmarshal(resp.Body.Bytes(), &createdTodo)
	require.NoError(t, err)
	return &createdTodo
}
