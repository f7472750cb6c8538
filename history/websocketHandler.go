package history

import (
	"context"
	"net/http"

	"gomokuserver/history/actions"
	"gomokuserver/history/connection"
	"gomokuserver/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebSocket接続へのアップグレードを行う関数
// ctx はサーバーの寿命に合わせる。リクエストのコンテキストはハンドラ終了時に取り消されるため使わない。
func HandleConnections(ctx context.Context, w http.ResponseWriter, r *http.Request, clients *models.ClientSet, env actions.Env, upgrader websocket.Upgrader, logger *zap.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade は失敗時に自分でHTTPエラーを返す
		logger.Error("Error upgrading WebSocket", zap.Error(err))
		return
	}

	client := models.NewClient(conn)

	// クライアントリストに新規クライアントを追加
	clients.Add(client)
	logger.Info("New client added", zap.String("remoteAddr", client.RemoteAddr), zap.Int("clients", clients.Len()))

	// Ping/Pongを管理するゴルーチンを起動
	connection.SetPongHandler(client, connection.PongWait)
	go connection.MaintainWebSocketConnection(client, connection.PingPeriod, logger)

	// クライアントごとにメッセージ読み取りゴルーチンを起動
	go actions.HandleClient(ctx, client, clients, env, logger)
}
