package models

import "time"

// Todo はToDoアイテムのデータベース構造体を表します。
// created_at はデータベース側で挿入時に採番され、以後変更されません。
// リクエストのバインドには使わず、バリデーションは CreateTodoRequest が担います。
type Todo struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTodoRequest はToDo作成リクエストのボディです。
// binding:"required" により、title が無い・空文字の場合は
// ShouldBindJSON がエラーを返します。
type CreateTodoRequest struct {
	Title string `json:"title" binding:"required"`
}
