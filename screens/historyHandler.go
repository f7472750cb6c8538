package screens

import (
	"net/http"

	"gomokuserver/history/database"
	"gomokuserver/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 保存済みの対戦履歴を提出順に返すハンドラー
func HistoryHandler(c *gin.Context, store database.HistoryStore, logger *zap.Logger) {
	entries, err := store.All(c.Request.Context())
	if err != nil {
		logger.Error("Failed to load history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "history_error",
			"error":  "対戦履歴を取得できません",
		})
		return
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"count":   len(entries),
		"history": entries,
	})
}

// HealthHandler reports live connections and issued sessions.
func HealthHandler(c *gin.Context, clients *models.ClientSet, sessions database.SessionRegistry, logger *zap.Logger) {
	sessionCount, err := sessions.Count(c.Request.Context())
	if err != nil {
		logger.Error("Failed to count sessions", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "session_store_error",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"clients":  clients.Len(),
		"sessions": sessionCount,
	})
}
