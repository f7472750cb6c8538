package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gomokuserver/database"                   //設定の読み込みとPostgreSQL・Redisの初期化
	"gomokuserver/history"                    //対戦履歴プロトコルのWebSocket接続
	"gomokuserver/history/actions"            //メッセージごとの処理
	"gomokuserver/history/broadcast"          //シャットダウン時の通知
	historydb "gomokuserver/history/database" //セッションと対戦履歴の保存先
	"gomokuserver/models"                     //モデル定義
	"gomokuserver/screens"                    //REST での履歴参照
	"gomokuserver/utils"                      //ロガーの初期化とCronジョブ

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func main() {
	configPath := flag.String("config", "config.json", "path to config.json")
	flag.Parse()

	logger, err := utils.InitLogger() // ロガーの初期化
	if err != nil {
		panic(err) // 失敗した場合はプログラム停止
	}
	defer logger.Sync() // ロガーのクリーンアップ

	config, err := database.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("設定ファイルの読み込みに失敗しました", zap.Error(err))
	}

	sessions, store := initStores(config, logger)

	// クーロンスケジューラのセットアップと呼び出し
	clients := models.NewClientSet()
	scheduler, err := utils.CronReporter(config.ReportSchedule, clients, sessions, store, logger)
	if err != nil {
		logger.Fatal("Invalid report schedule", zap.String("schedule", config.ReportSchedule), zap.Error(err))
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	env := actions.Env{
		Sessions:       sessions,
		History:        store,
		WelcomeMessage: config.WelcomeMessage,
		GoodbyeMessage: config.GoodbyeMessage,
	}

	serverCtx, stop := context.WithCancel(context.Background())
	defer stop()

	router := gin.New()
	//リクエストロガーを起動
	router.Use(gin.Recovery(), utils.RequestLogger(logger))

	//CORS（Cross-Origin Resource Sharing）ポリシーを設定
	router.Use(cors.New(corsConfig(config.AllowOrigins)))

	router.GET(config.WSPath, func(c *gin.Context) {
		history.HandleConnections(serverCtx, c.Writer, c.Request, clients, env, upgrader, logger)
	})
	router.GET("/history", func(c *gin.Context) {
		screens.HistoryHandler(c, store, logger)
	})
	router.GET("/health", func(c *gin.Context) {
		screens.HealthHandler(c, clients, sessions, logger)
	})

	srv := &http.Server{
		Addr:    config.Addr,
		Handler: router,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Gomoku history server started", zap.String("addr", config.Addr), zap.String("ws", config.WSPath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		logger.Fatal("Server failed", zap.Error(err))
	case sig := <-quit:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
	}

	// Shutdown は WebSocket を待たないので先に別れを告げる
	broadcast.BroadcastGoodbye(clients, config.GoodbyeMessage, logger)
	stop()
	if scheduler != nil {
		scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}

// 設定に応じてセッションと対戦履歴の保存先を初期化
func initStores(config models.Config, logger *zap.Logger) (historydb.SessionRegistry, historydb.HistoryStore) {
	var sessions historydb.SessionRegistry = historydb.NewMemorySessions()
	var store historydb.HistoryStore = historydb.NewMemoryHistory()

	switch config.SessionStore {
	case models.StoreRedis:
		rdb, err := database.InitRedis(config, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Redis", zap.Error(err))
		}
		sessions = historydb.NewRedisSessions(rdb)
	case models.StoreMemory, "":
	default:
		logger.Fatal("Unknown session store", zap.String("session_store", config.SessionStore))
	}

	switch config.HistoryStore {
	case models.StorePostgres:
		db, err := database.InitPostgreSQL(config, logger)
		if err != nil {
			logger.Fatal("PostgreSQLの初期化に失敗しました", zap.Error(err))
		}
		store = historydb.NewGormHistory(db)
	case models.StoreMemory, "":
	default:
		logger.Fatal("Unknown history store", zap.String("history_store", config.HistoryStore))
	}

	logger.Info("Stores initialized",
		zap.String("session_store", config.SessionStore),
		zap.String("history_store", config.HistoryStore),
	)
	return sessions, store
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
