package models

// Config はサーバーの設定情報を保持します。config.json から読み込みます。
type Config struct {
	ListenAddr   string   `json:"listen_addr"`
	AllowOrigins []string `json:"allow_origins"`
	Development  bool     `json:"development"`

	RedisAddr      string `json:"redis_addr"`
	RedisPassword  string `json:"redis_password"`
	RedisDB        int    `json:"redis_db"`
	ResultsChannel string `json:"results_channel"`
	SessionTTLHour int    `json:"session_ttl_hours"`

	SpinDurationMs       int    `json:"spin_duration_ms"`
	AIDelayMs            int    `json:"ai_delay_ms"`
	AIDepth              int    `json:"ai_depth"`
	InactivityTimeoutMin int    `json:"inactivity_timeout_min"`
	ReaperSchedule       string `json:"reaper_schedule"`
}
