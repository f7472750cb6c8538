package broadcast

import (
	"gomokuserver/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// BroadcastGoodbye sends GoodbyeClient to every live connection and closes it.
// Used when the server shuts down.
func BroadcastGoodbye(clients *models.ClientSet, text string, logger *zap.Logger) {
	goodbye := models.NewGoodbyeClient(text)
	for _, client := range clients.Snapshot() {
		if err := client.WriteJSON(goodbye); err != nil {
			logger.Error("Failed to send goodbye", zap.String("remoteAddr", client.RemoteAddr), zap.Error(err))
		}
		client.CloseWith(websocket.CloseGoingAway, "server shutdown")
	}
	logger.Info("Goodbye broadcast", zap.Int("clients", clients.Len()))
}
