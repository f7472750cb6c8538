package actions

import (
	"context"

	"gomokuserver/history/database"
	"gomokuserver/models"

	"go.uber.org/zap"
)

func handleHistoryPush(ctx context.Context, client *models.Client, message []byte, env Env, logger *zap.Logger) error {
	var push models.HistoryPush
	if err := models.DecodeMessage(message, &push); err != nil {
		return err
	}
	if err := database.ValidateSessionID(ctx, client, env.Sessions, push.UserID, logger); err != nil {
		return err
	}

	if !push.HistoryEntry.Valid() {
		logger.Info("History rejected",
			zap.String("playerOne", push.PlayerOneName),
			zap.String("playerTwo", push.PlayerTwoName),
			zap.Bool("playerOneWinner", push.PlayerOneWinner),
			zap.Bool("playerTwoWinner", push.PlayerTwoWinner),
		)
		return client.WriteJSON(models.NewHistoryNotSaved())
	}

	if err := env.History.Add(ctx, push.HistoryEntry); err != nil {
		logger.Error("Failed to store history", zap.Error(err))
		return client.WriteJSON(models.NewHistoryNotSaved())
	}

	logger.Info("History saved",
		zap.String("playerOne", push.PlayerOneName),
		zap.String("playerTwo", push.PlayerTwoName),
	)
	return client.WriteJSON(models.NewHistorySaved())
}

func handleHistoryGetAll(ctx context.Context, client *models.Client, message []byte, env Env, logger *zap.Logger) error {
	var getAll models.HistoryGetAll
	if err := models.DecodeMessage(message, &getAll); err != nil {
		return err
	}
	if err := database.ValidateSessionID(ctx, client, env.Sessions, getAll.UserID, logger); err != nil {
		return err
	}

	entries, err := env.History.All(ctx)
	if err != nil {
		logger.Error("Failed to load history", zap.Error(err))
		return err
	}
	return client.WriteJSON(models.NewHistoryAll(entries))
}
