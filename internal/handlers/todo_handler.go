// Package handlers はHTTPハンドラーを提供します。
package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-todo-metrics/internal/metrics"
	"go-todo-metrics/internal/models"
	"go-todo-metrics/internal/repositories"
)

// DBProvider はハンドラーが利用するデータベースアクセスを抽象化します。
// 本番では database.Connector、テストでは testutil のフェイクが実装します。
type DBProvider interface {
	// EnsureReady はスキーマの存在を確認し、無ければ修復を試みます。
	EnsureReady() error
	// Acquire はデータベース選択ありの新しい接続を確立します。
	// 呼び出し側がCloseする責任を持ちます。
	Acquire() (*sql.DB, error)
}

// TodoHandler はTodo関連のハンドラーを管理します。
type TodoHandler struct {
	db      DBProvider
	metrics *metrics.Metrics
}

// NewTodoHandler は新しいTodoHandlerを作成します。
func NewTodoHandler(db DBProvider, m *metrics.Metrics) *TodoHandler {
	return &TodoHandler{db: db, metrics: m}
}

// GetTodosHandler はすべてのTodoを取得します。
func (h *TodoHandler) GetTodosHandler(c *gin.Context) {
	if err := h.db.EnsureReady(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database initialization failed"})
		return
	}

	conn, err := h.db.Acquire()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection failed"})
		return
	}
	defer conn.Close()

	repo := repositories.NewTodoRepository(conn)
	todos, err := repo.FindAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.refreshItemGauge(repo)
	c.JSON(http.StatusOK, todos)
}

// CreateTodoHandler は新しいTodoを作成します。
// バリデーションはReadiness確認の後、挿入用の接続確立の前に行います。
func (h *TodoHandler) CreateTodoHandler(c *gin.Context) {
	if err := h.db.EnsureReady(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database initialization failed"})
		return
	}

	var req models.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	conn, err := h.db.Acquire()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection failed"})
		return
	}
	defer conn.Close()

	repo := repositories.NewTodoRepository(conn)
	createdTodo, err := repo.Create(req.Title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.refreshItemGauge(repo)
	c.JSON(http.StatusCreated, createdTodo)
}

// refreshItemGauge は行数ゲージをCOUNT(*)で取り直して更新します。
// 取得済みの行数ではなく、常にテーブルから再導出します。
// ゲージの更新失敗でリクエスト自体は失敗させません。
func (h *TodoHandler) refreshItemGauge(repo *repositories.TodoRepository) {
	count, err := repo.Count()
	if err != nil {
		log.Printf("Failed to refresh todo item gauge: %v", err)
		return
	}
	h.metrics.SetTodoItems(count)
}
