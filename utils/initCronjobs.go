package utils

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type RoomReaper interface {
	ReapIdleRooms(now time.Time) int
}

// CronCleaner は放置されたルームを定期的に閉じるジョブを登録して開始する
func CronCleaner(reaper RoomReaper, schedule string, logger *zap.Logger) (*cron.Cron, error) {
	if schedule == "" {
		schedule = "@every 5m"
	}
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		logger.Debug("放置ルームの削除処理を開始")
		if n := reaper.ReapIdleRooms(time.Now()); n > 0 {
			logger.Info("放置ルームの削除完了", zap.Int("rooms_deleted", n))
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
