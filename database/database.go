package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"connect4server/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DefaultConfig は config.json が無い場合の設定
func DefaultConfig() models.Config {
	return models.Config{
		ListenAddr:           ":4077",
		ResultsChannel:       "connect4:results",
		SessionTTLHour:       24,
		SpinDurationMs:       3000,
		AIDelayMs:            700,
		AIDepth:              6,
		InactivityTimeoutMin: 30,
		ReaperSchedule:       "@every 5m",
	}
}

// LoadConfig loads the configuration from config.json on top of the defaults,
// then applies environment overrides. A missing file is not an error.
func LoadConfig(filename string) (models.Config, error) {
	config := DefaultConfig()

	configFile, err := os.Open(filename)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return config, fmt.Errorf("open config: %w", err)
	default:
		defer configFile.Close()
		jsonParser := json.NewDecoder(configFile)
		if err := jsonParser.Decode(&config); err != nil {
			return config, fmt.Errorf("decode config: %w", err)
		}
	}

	applyEnv(&config)
	return config, nil
}

// 環境変数で上書き
func applyEnv(config *models.Config) {
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		config.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		config.RedisPassword = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			config.RedisDB = db
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		config.ListenAddr = ":" + v
	}
}

func InitRedis(config models.Config, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})

	// Redisへの接続テスト
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Error("Failed to connect to Redis", zap.Error(err))
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", config.RedisAddr, err)
	}

	logger.Info("Connected to Redis", zap.String("addr", config.RedisAddr))
	return rdb, nil
}
