package models

// Config 構造体はサーバーとデータベース接続の設定情報を保持します。
type Config struct {
	Addr           string   `json:"addr"`
	WSPath         string   `json:"ws_path"`
	WelcomeMessage string   `json:"welcome_message"`
	GoodbyeMessage string   `json:"goodbye_message"`
	HistoryStore   string   `json:"history_store"` // "memory" または "postgres"
	SessionStore   string   `json:"session_store"` // "memory" または "redis"
	AllowOrigins   []string `json:"allow_origins"`
	ReportSchedule string   `json:"report_schedule"` // cron形式、空なら無効

	DBHost     string `json:"db_host"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBName     string `json:"db_name"`
	DBSSLMode  string `json:"db_sslmode"`

	RedisAddr     string `json:"redis_addr"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`
}

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// DefaultConfig は設定ファイルがない場合にも動作する値を返します。
func DefaultConfig() Config {
	return Config{
		Addr:           ":8080",
		WSPath:         "/ws",
		WelcomeMessage: "Moin!",
		GoodbyeMessage: "Servus!",
		HistoryStore:   StoreMemory,
		SessionStore:   StoreMemory,
		AllowOrigins:   []string{"*"},
		ReportSchedule: "@hourly",
		DBSSLMode:      "disable",
		RedisAddr:      "localhost:6379",
	}
}
