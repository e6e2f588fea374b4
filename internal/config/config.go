package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config はアプリケーション設定を表す
type Config struct {
	Env       string `env:"APP_ENV" envDefault:"development"`
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Stats     StatsConfig
	Admission AdmissionConfig
	Worker    WorkerConfig
	Auth      AuthConfig
}

// ServerConfig はサーバー設定
type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// DatabaseConfig はデータベース設定
type DatabaseConfig struct {
	Host           string `env:"DB_HOST" envDefault:"localhost"`
	Port           string `env:"DB_PORT" envDefault:"5432"`
	User           string `env:"DB_USER" envDefault:"postgres"`
	Password       string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName         string `env:"DB_NAME" envDefault:"event_participation"`
	SSLMode        string `env:"DB_SSLMODE" envDefault:"disable"`
	MigrationsPath string `env:"DB_MIGRATIONS_PATH" envDefault:"migrations"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	PingTimeout     time.Duration `env:"DB_PING_TIMEOUT" envDefault:"5s"`
}

// RedisConfig はRedis設定
type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// StatsConfig は閲覧数統計サービスの設定
type StatsConfig struct {
	URL      string        `env:"STATS_URL" envDefault:"http://localhost:9090"`
	Timeout  time.Duration `env:"STATS_TIMEOUT" envDefault:"3s"`
	CacheTTL time.Duration `env:"STATS_CACHE_TTL" envDefault:"30s"`
}

// AdmissionConfig は参加受付処理の設定
type AdmissionConfig struct {
	LockTTL        time.Duration `env:"ADMISSION_LOCK_TTL" envDefault:"10s"`
	LockRetries    int           `env:"ADMISSION_LOCK_RETRIES" envDefault:"3"`
	LockRetryDelay time.Duration `env:"ADMISSION_LOCK_RETRY_DELAY" envDefault:"100ms"`
	MaxTxAttempts  uint          `env:"ADMISSION_MAX_TX_ATTEMPTS" envDefault:"3"`
}

// WorkerConfig はバックグラウンドワーカーの設定
type WorkerConfig struct {
	StatsRefreshInterval time.Duration `env:"WORKER_STATS_REFRESH_INTERVAL" envDefault:"30s"`
}

// AuthConfig は管理者APIとメトリクスのBasic認証設定
type AuthConfig struct {
	AdminUser       string `env:"ADMIN_USER"`
	AdminPassword   string `env:"ADMIN_PASSWORD"`
	MetricsUser     string `env:"METRICS_USER"`
	MetricsPassword string `env:"METRICS_PASSWORD"`
}

// Load は環境変数から設定を読み込む
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("設定の読み込みに失敗しました: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("設定が不正です: %w", err)
	}
	return &cfg, nil
}

// validate は0以下だと動作しない値を検出する
func (c *Config) validate() error {
	positive := []struct {
		key string
		val time.Duration
	}{
		{"WORKER_STATS_REFRESH_INTERVAL", c.Worker.StatsRefreshInterval},
		{"ADMISSION_LOCK_TTL", c.Admission.LockTTL},
		{"STATS_TIMEOUT", c.Stats.Timeout},
		{"DB_CONN_MAX_LIFETIME", c.Database.ConnMaxLifetime},
		{"DB_PING_TIMEOUT", c.Database.PingTimeout},
	}
	for _, p := range positive {
		if p.val <= 0 {
			return fmt.Errorf("%s は正の値を指定してください: %s", p.key, p.val)
		}
	}
	if c.Admission.MaxTxAttempts == 0 {
		return fmt.Errorf("ADMISSION_MAX_TX_ATTEMPTS は1以上を指定してください")
	}
	if c.Database.MaxOpenConns < 1 || c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS は1以上、DB_MAX_IDLE_CONNS は0以上を指定してください")
	}
	return nil
}

// DSN はPostgreSQL接続文字列を返す
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

// Addr はRedis接続アドレスを返す
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}
