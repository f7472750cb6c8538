package connection

import (
	"time"

	"gomokuserver/models"

	"go.uber.org/zap"
)

const (
	PongWait   = 60 * time.Second
	PingPeriod = 10 * time.Second
)

// SetPongHandler arms the read deadline. Call it before the read loop starts.
func SetPongHandler(c *models.Client, pongWait time.Duration) {
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait)) // 読み取りデッドラインを更新
		return nil
	})
}

// MaintainWebSocketConnection はクライアントのWebSocket接続を維持し、Ping/Pongメッセージで接続をチェックします。
// 接続が閉じられるかPingの送信に失敗すると終了します。
func MaintainWebSocketConnection(c *models.Client, pingPeriod time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.Done():
			return
		case <-ticker.C:
			if err := c.WritePing(); err != nil {
				logger.Info("Error sending ping, closing connection", zap.String("remoteAddr", c.RemoteAddr), zap.Error(err))
				c.Close()
				return
			}
		}
	}
}
