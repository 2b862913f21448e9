// Package repositories はtodosテーブルに対するSQL操作を提供します。
package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"go-todo-metrics/internal/models"
)

// ErrTodoNotFound はTODOが見つからない場合のエラーです。
var ErrTodoNotFound = errors.New("todo not found")

// TodoRepository はデータベース操作を行うための構造体です。
// 接続はリクエストごとに確立されるため、接続ごとに作り直します。
type TodoRepository struct {
	DB *sql.DB
}

// NewTodoRepository は新しいTodoRepositoryインスタンスを作成します。
func NewTodoRepository(db *sql.DB) *TodoRepository {
	return &TodoRepository{DB: db}
}

// FindAll はすべてのTodoをデータベースから取得します。
// 並び順は指定しません (エンジンが返す順のまま)。
func (r *TodoRepository) FindAll() ([]*models.Todo, error) {
	rows, err := r.DB.Query("SELECT id, title, created_at FROM todos")
	if err != nil {
		log.Printf("Failed to query todos: %v", err)
		return nil, fmt.Errorf("could not query todos: %w", err)
	}
	defer rows.Close()

	// 0件でもJSONで null ではなく [] を返すため、空スライスで初期化する
	todos := make([]*models.Todo, 0)
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.CreatedAt); err != nil {
			log.Printf("Failed to scan todo: %v", err)
			return nil, fmt.Errorf("could not scan todo: %w", err)
		}
		todos = append(todos, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}

	return todos, nil
}

// FindByID は指定されたIDのTodoをデータベースから取得します。
func (r *TodoRepository) FindByID(id int) (*models.Todo, error) {
	var t models.Todo
	err := r.DB.QueryRow("SELECT id, title, created_at FROM todos WHERE id = ?", id).
		Scan(&t.ID, &t.Title, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		log.Printf("Failed to query todo by ID: %v", err)
		return nil, fmt.Errorf("could not query todo: %w", err)
	}
	return &t, nil
}

// Create は新しいTodoをデータベースに挿入します。
// created_at はテーブル定義のデフォルトで採番されるため、挿入後に
// 該当行を読み直してデータベースが確定した値を返します。
func (r *TodoRepository) Create(title string) (*models.Todo, error) {
	result, err := r.DB.Exec("INSERT INTO todos (title) VALUES (?)", title)
	if err != nil {
		log.Printf("Failed to insert todo: %v", err)
		return nil, fmt.Errorf("could not insert todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}

	return r.FindByID(int(id))
}

// Count はtodosテーブルの現在の行数を返します (ゲージメトリクス用)。
func (r *TodoRepository) Count() (int, error) {
	var n int
	if err := r.DB.QueryRow("SELECT COUNT(*) FROM todos").Scan(&n); err != nil {
		log.Printf("Failed to count todos: %v", err)
		return 0, fmt.Errorf("could not count todos: %w", err)
	}
	return n, nil
}
