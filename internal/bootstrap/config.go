package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/flxzt/pxtogether/internal/editor"
)

// 存储后端
const (
	BackendFile  = "file"
	BackendMySQL = "mysql"
	BackendRedis = "redis"
)

// Config 结构体用于存储从环境变量或文件加载的配置
type Config struct {
	AppEnv   string // development/production
	LogLevel string

	GridRows    int
	GridColumns int
	CellSize    float32

	StoreBackend string
	StoreDir     string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string

	ArchiveEnabled   bool
	ArchiveRetention time.Duration
	PruneSchedule    string
}

// LoadConfig 从环境变量加载配置
func LoadConfig() (*Config, error) {
	// 优先加载 .env 文件 (如果存在)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:        os.Getenv("APP_ENV"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		StoreBackend:  strings.ToLower(os.Getenv("STORE_BACKEND")),
		StoreDir:      os.Getenv("STORE_DIR"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBHost:        os.Getenv("DB_HOST"),
		DBPort:        os.Getenv("DB_PORT"),
		DBName:        os.Getenv("DB_NAME"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		KeyPrefix:     os.Getenv("REDIS_KEY_PREFIX"),
		PruneSchedule: os.Getenv("ARCHIVE_PRUNE_SCHEDULE"),
	}

	var err error
	if cfg.GridRows, err = intEnv("GRID_ROWS", editor.DefaultRows); err != nil {
		return nil, err
	}
	if cfg.GridColumns, err = intEnv("GRID_COLUMNS", editor.DefaultColumns); err != nil {
		return nil, err
	}
	cellSize, err := intEnv("CELL_SIZE", editor.DefaultCellSize)
	if err != nil {
		return nil, err
	}
	cfg.CellSize = float32(cellSize)
	if cfg.RedisDB, err = intEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}
	retentionHours, err := intEnv("ARCHIVE_RETENTION_HOURS", 24*30)
	if err != nil {
		return nil, err
	}
	cfg.ArchiveRetention = time.Duration(retentionHours) * time.Hour
	if v := os.Getenv("ARCHIVE_ENABLED"); v != "" {
		if cfg.ArchiveEnabled, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("invalid ARCHIVE_ENABLED %q: %w", v, err)
		}
	}

	// --- 设置默认值 ---
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = BackendFile
	}
	if cfg.StoreDir == "" {
		cfg.StoreDir = "."
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "px:"
	}
	if cfg.PruneSchedule == "" {
		cfg.PruneSchedule = "@every 1h"
	}

	// 验证日志级别
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查各项配置之间的依赖
func (c *Config) Validate() error {
	if c.GridRows <= 0 || c.GridColumns <= 0 {
		return fmt.Errorf("grid must have at least one row and column, got %dx%d", c.GridRows, c.GridColumns)
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("CELL_SIZE must be positive, got %v", c.CellSize)
	}
	switch c.StoreBackend {
	case BackendFile:
	case BackendMySQL:
		if c.DBUser == "" {
			return fmt.Errorf("environment variable DB_USER must be set for the mysql backend")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("environment variable REDIS_ADDR must be set for the redis backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.ArchiveEnabled {
		if c.RedisAddr == "" {
			return fmt.Errorf("environment variable REDIS_ADDR must be set when archiving is enabled")
		}
		if c.DBUser == "" {
			return fmt.Errorf("environment variable DB_USER must be set when archiving is enabled")
		}
		if c.ArchiveRetention < time.Hour {
			return fmt.Errorf("ARCHIVE_RETENTION_HOURS must be at least 1")
		}
	}
	return nil
}

func (c *Config) needsDB() bool {
	return c.StoreBackend == BackendMySQL || c.ArchiveEnabled
}

func (c *Config) needsRedis() bool {
	return c.StoreBackend == BackendRedis || c.ArchiveEnabled
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

// NewLogger 按配置创建 logger，同时配置包级别的 logrus 标准 logger。
func NewLogger(cfg *Config) *logrus.Logger {
	log := logrus.New()
	configureLogger(log, cfg)
	configureLogger(logrus.StandardLogger(), cfg)
	return log
}

func configureLogger(log *logrus.Logger, cfg *Config) {
	if cfg.AppEnv == "production" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	// stdout 留给命令输出
	log.SetOutput(os.Stderr)
}
