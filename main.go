package main

import (
	"slices"
	"time"

	"go.uber.org/zap"

	"connect4server/connect4"           //Connect Fourのゲーム進行とWebSocket
	"connect4server/connect4/actions"   //メッセージのディスパッチ
	"connect4server/connect4/broadcast" //ルームへの配信
	c4db "connect4server/connect4/database"
	"connect4server/connect4/room"
	"connect4server/database" //設定ファイルとRedisの初期化
	"connect4server/screens"  //HTTPのルーム一覧とヘルスチェック
	"connect4server/utils"    //ロガーの初期化とCronジョブ(放置ルームの定期クリーンナップ)

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config, err := database.LoadConfig("config.json")
	if err != nil {
		panic(err)
	}

	logger, err := utils.InitLogger(config.Development) // ロガーの初期化
	if err != nil {
		panic(err) // 失敗した場合はプログラム停止
	}
	defer logger.Sync() // ロガーのクリーンアップ

	sessionTTL := time.Duration(config.SessionTTLHour) * time.Hour

	// Redisが設定されていればセッションと結果の配信に使う。無ければメモリで動かす
	var sessions c4db.SessionStore
	var results c4db.ResultPublisher
	if config.RedisAddr != "" {
		rdb, err := database.InitRedis(config, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Redis", zap.Error(err))
		}
		defer rdb.Close()
		sessions = c4db.NewRedisSessionStore(rdb, sessionTTL)
		results = c4db.NewRedisResultPublisher(rdb, config.ResultsChannel)
	} else {
		logger.Warn("redis_addr is empty, sessions are kept in memory")
		sessions = c4db.NewMemorySessionStore(sessionTTL)
		results = c4db.NopResultPublisher{}
	}

	rooms := room.NewRegistry()
	hub := broadcast.NewHub(logger)
	dispatcher := actions.NewDispatcher(rooms, hub, sessions, results, logger, actions.Options{
		SpinDuration:      time.Duration(config.SpinDurationMs) * time.Millisecond,
		AIDelay:           time.Duration(config.AIDelayMs) * time.Millisecond,
		AIDepth:           config.AIDepth,
		InactivityTimeout: time.Duration(config.InactivityTimeoutMin) * time.Minute,
	})

	// クーロンスケジューラのセットアップと呼び出し
	reaper, err := utils.CronCleaner(dispatcher, config.ReaperSchedule, logger)
	if err != nil {
		logger.Fatal("Failed to schedule room reaper", zap.Error(err))
	}
	defer reaper.Stop()

	server := &connect4.Server{
		Dispatcher: dispatcher,
		Hub:        hub,
		Sessions:   sessions,
		Upgrader:   connect4.NewUpgrader(config.AllowOrigins),
		Logger:     logger,
	}

	if !config.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	//リクエストロガーを起動
	router.Use(gin.Recovery(), utils.RequestLogger(logger))

	//CORS（Cross-Origin Resource Sharing）ポリシーを設定
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "SessionID"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(config.AllowOrigins) == 0 || slices.Contains(config.AllowOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = config.AllowOrigins
		corsConfig.AllowCredentials = true
	}
	router.Use(cors.New(corsConfig))

	//各HTTPリクエストのルーティング
	router.GET("/health", screens.Health)
	router.GET("/rooms", func(c *gin.Context) {
		screens.RoomList(c, rooms)
	})
	router.GET("/rooms/:roomId", func(c *gin.Context) {
		screens.RoomInfo(c, rooms, logger)
	})
	router.GET("/ws", func(c *gin.Context) {
		server.HandleConnections(c.Request.Context(), c.Writer, c.Request)
	})

	logger.Info("Server started", zap.String("addr", config.ListenAddr))
	if err := router.Run(config.ListenAddr); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
