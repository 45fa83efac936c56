package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Settings は環境変数から読み込む実行時設定を保持する。
// 起動時に1回読み込み、イミュータブルとして扱う。
type Settings struct {
	// Fetch
	FetchTimeout   time.Duration
	FetchMaxSize   int64
	FetchRateLimit float64
	FetchBurst     int

	// Security
	AllowPrivateNetworks bool

	// Database
	AutoMigrate bool

	// Observability
	MetricsAddr string
	LogLevel    string
}

// LoadSettings は環境変数からSettingsを読み込む。
// カレントディレクトリに.envがあれば先に読み込む（既存の環境変数は上書きしない）。
// 値が不正な場合はデフォルト値を使用する。
func LoadSettings() (*Settings, error) {
	envFile := getEnvString("GATOR_ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	s := &Settings{}
	s.FetchTimeout = getEnvDuration("GATOR_FETCH_TIMEOUT", 10*time.Second)
	s.FetchMaxSize = getEnvInt64("GATOR_FETCH_MAX_SIZE", 5242880)
	s.FetchRateLimit = getEnvFloat("GATOR_FETCH_RATE_LIMIT", 1)
	s.FetchBurst = getEnvInt("GATOR_FETCH_BURST", 1)
	s.AllowPrivateNetworks = getEnvBool("GATOR_ALLOW_PRIVATE_NETWORKS", false)
	s.AutoMigrate = getEnvBool("GATOR_AUTO_MIGRATE", true)
	s.MetricsAddr = getEnvString("GATOR_METRICS_ADDR", "")
	s.LogLevel = getEnvString("GATOR_LOG_LEVEL", "")

	if s.FetchRateLimit <= 0 {
		s.FetchRateLimit = 1
	}
	if s.FetchBurst <= 0 {
		s.FetchBurst = 1
	}

	return s, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
