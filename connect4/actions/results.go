package actions

import (
	"context"
	"time"

	"connect4server/connect4/room"
	"connect4server/models"

	"go.uber.org/zap"
)

const publishTimeout = 3 * time.Second

func toResultPlayer(p room.Player) models.ResultPlayer {
	return models.ResultPlayer{Nickname: p.Nickname, Color: p.Color.String(), IsAI: p.IsAI}
}

// publishResult sends a finished game to the results channel. Failures are only logged.
func (d *Dispatcher) publishResult(state room.State, reason string) {
	result := models.GameResult{
		RoomID:       state.RoomID,
		Reason:       reason,
		Moves:        state.MoveCount,
		TurnTime:     state.TurnTime,
		PracticeMode: state.PracticeMode,
		FinishedAt:   time.Now().UTC(),
	}
	for _, p := range state.Players {
		result.Players = append(result.Players, toResultPlayer(p))
	}
	if state.Winner != nil {
		w := toResultPlayer(*state.Winner)
		result.Winner = &w
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := d.results.Publish(ctx, result); err != nil {
		d.logger.Error("Failed to publish game result", zap.String("roomID", state.RoomID), zap.Error(err))
	}
}
