package actions

import (
	"context"
	"errors"
	"time"

	"gomokuserver/history/database"
	"gomokuserver/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// errSessionEnded stops the read loop after a regular goodbye.
var errSessionEnded = errors.New("session ended")

// Env bundles what the message handlers need besides the connection.
type Env struct {
	Sessions       database.SessionRegistry
	History        database.HistoryStore
	WelcomeMessage string
	GoodbyeMessage string
}

// クライアントごとにメッセージ読み取りするゴルーチン
// どのハンドラがエラーを返しても接続を閉じる。応答は送らない。
func HandleClient(ctx context.Context, client *models.Client, clients *models.ClientSet, env Env, logger *zap.Logger) {
	defer func() {
		// the server context may already be cancelled during shutdown
		revokeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		database.RevokeSessions(revokeCtx, client, env.Sessions, logger)
		clients.Remove(client)
		client.Close()
		logger.Info("Client removed", zap.String("remoteAddr", client.RemoteAddr))
	}()

	for {
		frameType, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Info("WebSocket read ended", zap.String("remoteAddr", client.RemoteAddr), zap.Error(err))
			}
			return
		}
		if frameType != websocket.TextMessage {
			logger.Info("Binary frame ignored", zap.String("remoteAddr", client.RemoteAddr))
			continue
		}

		err = dispatch(ctx, client, message, env, logger)
		switch {
		case err == nil:
		case errors.Is(err, errSessionEnded):
			client.CloseWith(websocket.CloseNormalClosure, "goodbye")
			return
		default:
			logger.Info("Closing connection", zap.String("remoteAddr", client.RemoteAddr), zap.Error(err))
			client.CloseWith(websocket.ClosePolicyViolation, "protocol violation")
			return
		}
	}
}

// メッセージタイプに基づいて適切なアクションを実行
func dispatch(ctx context.Context, client *models.Client, message []byte, env Env, logger *zap.Logger) error {
	messageType, err := models.ParseMessageType(message)
	if err != nil {
		return err
	}

	switch messageType {
	case models.TypeHelloServer:
		return handleHelloServer(ctx, client, env, logger)
	case models.TypePingRequest:
		return handlePingRequest(client, message)
	case models.TypeHistoryPush:
		return handleHistoryPush(ctx, client, message, env, logger)
	case models.TypeHistoryGetAll:
		return handleHistoryGetAll(ctx, client, message, env, logger)
	case models.TypeGoodbyeServer:
		return handleGoodbyeServer(ctx, client, message, env, logger)
	default:
		// server-to-client types are not accepted from clients
		return models.ErrUnknownMessageType
	}
}
