package actions

import (
	"context"

	"gomokuserver/history/database"
	"gomokuserver/models"

	"go.uber.org/zap"
)

func handleHelloServer(ctx context.Context, client *models.Client, env Env, logger *zap.Logger) error {
	sessionID, err := database.GenerateAndStoreSessionID(ctx, client, env.Sessions, logger)
	if err != nil {
		return err
	}
	return client.WriteJSON(models.NewWelcomeClient(sessionID, env.WelcomeMessage))
}

func handlePingRequest(client *models.Client, message []byte) error {
	var ping models.PingRequest
	if err := models.DecodeMessage(message, &ping); err != nil {
		return err
	}
	return client.WriteJSON(models.NewPingResponse(ping.StartTime))
}

func handleGoodbyeServer(ctx context.Context, client *models.Client, message []byte, env Env, logger *zap.Logger) error {
	var goodbye models.GoodbyeServer
	if err := models.DecodeMessage(message, &goodbye); err != nil {
		return err
	}
	if err := database.ValidateSessionID(ctx, client, env.Sessions, goodbye.UserID, logger); err != nil {
		return err
	}

	if err := client.WriteJSON(models.NewGoodbyeClient(env.GoodbyeMessage)); err != nil {
		return err
	}
	logger.Info("Session closed by client", zap.String("sessionID", goodbye.UserID))
	return errSessionEnded
}
