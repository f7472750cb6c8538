package utils

import (
	"context"
	"time"

	"gomokuserver/history/database"
	"gomokuserver/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CronReporter は定期的にサーバーの統計をログに出力します。
// schedule が空の場合はジョブを登録せずに nil を返します。
func CronReporter(schedule string, clients *models.ClientSet, sessions database.SessionRegistry, store database.HistoryStore, logger *zap.Logger) (*cron.Cron, error) {
	if schedule == "" {
		return nil, nil
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ReportStats(clients, sessions, store, logger)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	logger.Info("統計ジョブを開始しました", zap.String("schedule", schedule))
	return c, nil
}

// ReportStats logs one snapshot of connections, sessions and stored matches.
func ReportStats(clients *models.ClientSet, sessions database.SessionRegistry, store database.HistoryStore, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sessionCount, err := sessions.Count(ctx)
	if err != nil {
		logger.Error("セッション数の取得に失敗しました", zap.Error(err))
	}
	matchCount, err := store.Count(ctx)
	if err != nil {
		logger.Error("対戦履歴数の取得に失敗しました", zap.Error(err))
	}

	logger.Info("server stats",
		zap.Int("clients", clients.Len()),
		zap.Int("sessions", sessionCount),
		zap.Int64("matches", matchCount),
	)
}
