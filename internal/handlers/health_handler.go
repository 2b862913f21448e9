package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler はデータベース接続の健全性を確認します。
func (h *TodoHandler) HealthHandler(c *gin.Context) {
	conn, err := h.db.Acquire()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "Database connection failed",
			"error":   err.Error(),
		})
		return
	}
	defer conn.Close()

	if err := conn.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "Database connection failed",
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Database connection is healthy"})
}
