package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Log       LogConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Matching  MatchingConfig
	Retention RetentionConfig
	Worker    WorkerConfig
}

type AppConfig struct {
	AppName       string
	Environment   string
	HTTPPort      string
	MigrationsDir string
}

type LogConfig struct {
	Level  string
	Format string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type JWTConfig struct {
	AccessSecret string
}

// MatchingConfig tunes the job-match fan-out.
type MatchingConfig struct {
	Threshold    float64
	RecentWindow time.Duration
}

type RetentionConfig struct {
	NotificationMaxAge     time.Duration
	TokenSweepSpec         string
	NotificationSweepSpec  string
	NotificationSweepDelay time.Duration
	LockTTL                time.Duration
}

type WorkerConfig struct {
	Workers     int
	QueueSize   int
	TaskTimeout time.Duration
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

var requiredKeys = []string{"APP_NAME", "APP_ENV", "HTTP_PORT", "JWT_ACCESS_SECRET"}

func Load() (Config, error) {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("MIGRATIONS_DIR", "migrations")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_CONNECT_TIMEOUT", 5*time.Second)
	v.SetDefault("DB_POOL_MAX_CONNS", 10)
	v.SetDefault("DB_POOL_MIN_CONNS", 0)
	v.SetDefault("DB_POOL_MAX_CONN_LIFETIME", time.Hour)
	v.SetDefault("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute)
	v.SetDefault("DB_POOL_HEALTH_CHECK_PERIOD", time.Minute)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_TTL", 600*time.Second)

	v.SetDefault("MATCH_THRESHOLD", 25.0)
	v.SetDefault("MATCH_RECENT_WINDOW", 30*24*time.Hour)

	v.SetDefault("NOTIFICATION_MAX_AGE", 90*24*time.Hour)
	v.SetDefault("TOKEN_SWEEP_SPEC", "0 * * * *")
	v.SetDefault("NOTIFICATION_SWEEP_SPEC", "@every 24h")
	v.SetDefault("NOTIFICATION_SWEEP_DELAY", 5*time.Second)
	v.SetDefault("SWEEP_LOCK_TTL", 10*time.Minute)

	v.SetDefault("WORKER_COUNT", 4)
	v.SetDefault("WORKER_QUEUE_SIZE", 256)
	v.SetDefault("WORKER_TASK_TIMEOUT", 5*time.Minute)
}

func fromViper(v *viper.Viper) (Config, error) {
	var missing []string
	for _, key := range requiredKeys {
		if strings.TrimSpace(v.GetString(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	str := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	cfg := Config{
		App: AppConfig{
			AppName:       str("APP_NAME"),
			Environment:   str("APP_ENV"),
			HTTPPort:      str("HTTP_PORT"),
			MigrationsDir: str("MIGRATIONS_DIR"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(str("LOG_LEVEL")),
			Format: strings.ToLower(str("LOG_FORMAT")),
		},
		Database: DatabaseConfig{
			DBHost:                str("DB_HOST"),
			DBPort:                str("DB_PORT"),
			DBName:                str("DB_NAME"),
			DBUser:                str("DB_USER"),
			DBPassword:            v.GetString("DB_PASSWORD"),
			DBSSLMode:             str("DB_SSL_MODE"),
			ConnectTimeout:        v.GetDuration("DB_CONNECT_TIMEOUT"),
			PoolMaxConns:          v.GetInt32("DB_POOL_MAX_CONNS"),
			PoolMinConns:          v.GetInt32("DB_POOL_MIN_CONNS"),
			PoolMaxConnLifetime:   v.GetDuration("DB_POOL_MAX_CONN_LIFETIME"),
			PoolMaxConnIdleTime:   v.GetDuration("DB_POOL_MAX_CONN_IDLE_TIME"),
			PoolHealthCheckPeriod: v.GetDuration("DB_POOL_HEALTH_CHECK_PERIOD"),
		},
		Redis: RedisConfig{
			Host:     str("REDIS_HOST"),
			Port:     str("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      v.GetDuration("REDIS_TTL"),
		},
		JWT: JWTConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Matching: MatchingConfig{
			Threshold:    v.GetFloat64("MATCH_THRESHOLD"),
			RecentWindow: v.GetDuration("MATCH_RECENT_WINDOW"),
		},
		Retention: RetentionConfig{
			NotificationMaxAge:     v.GetDuration("NOTIFICATION_MAX_AGE"),
			TokenSweepSpec:         str("TOKEN_SWEEP_SPEC"),
			NotificationSweepSpec:  str("NOTIFICATION_SWEEP_SPEC"),
			NotificationSweepDelay: v.GetDuration("NOTIFICATION_SWEEP_DELAY"),
			LockTTL:                v.GetDuration("SWEEP_LOCK_TTL"),
		},
		Worker: WorkerConfig{
			Workers:     v.GetInt("WORKER_COUNT"),
			QueueSize:   v.GetInt("WORKER_QUEUE_SIZE"),
			TaskTimeout: v.GetDuration("WORKER_TASK_TIMEOUT"),
		},
	}

	if cfg.Matching.Threshold <= 0 || cfg.Matching.Threshold > 100 {
		return Config{}, fmt.Errorf("MATCH_THRESHOLD must be within (0,100], got %v", cfg.Matching.Threshold)
	}
	if cfg.Worker.Workers <= 0 {
		return Config{}, fmt.Errorf("WORKER_COUNT must be positive, got %d", cfg.Worker.Workers)
	}

	return cfg, nil
}
