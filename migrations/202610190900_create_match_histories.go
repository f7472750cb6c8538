package main

import (
	"flag"

	"gomokuserver/database"
	"gomokuserver/models"
	"gomokuserver/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// マイグレーションを実行する関数
func AutoMigrateDB(db *gorm.DB) error {
	return db.AutoMigrate(&models.MatchHistory{})
}

func main() {
	configPath := flag.String("config", "config.json", "path to config.json")
	flag.Parse()

	logger, err := utils.InitLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // ロガーの終了処理

	config, err := database.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("設定ファイルの読み込みに失敗しました", zap.Error(err))
	}

	gormDB, err := database.InitPostgreSQL(config, logger)
	if err != nil {
		logger.Fatal("データベースへの接続に失敗しました", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("SQLDBの取得に失敗しました", zap.Error(err))
	}
	defer sqlDB.Close() // SQLDBを閉じる

	if err := AutoMigrateDB(gormDB); err != nil {
		logger.Fatal("Error migrating tables", zap.Error(err))
	}
	logger.Info("match_histories table migrated")
}
