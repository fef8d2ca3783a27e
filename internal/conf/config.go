package conf

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lk2023060901/nightmarket-search/internal/pkg/logger"
	pkgredis "github.com/lk2023060901/nightmarket-search/internal/pkg/redis"
	"github.com/lk2023060901/nightmarket-search/internal/pkg/workerpool"
	"github.com/lk2023060901/nightmarket-search/internal/search/types"
)

type Config struct {
	Server      ServerConfig       `mapstructure:"server"`
	Search      types.ClientConfig `mapstructure:"search"`
	Session     SessionConfig      `mapstructure:"session"`
	Pool        workerpool.Config  `mapstructure:"pool"`
	Redis       pkgredis.Config    `mapstructure:"redis"`
	Log         logger.Config      `mapstructure:"log"`
	MockBackend MockBackendConfig  `mapstructure:"mock_backend"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

type SessionConfig struct {
	MaxSessions  int           `mapstructure:"max_sessions"`
	SSEHeartbeat time.Duration `mapstructure:"sse_heartbeat"`
}

type MockBackendConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Fixtures string `mapstructure:"fixtures"` // JSON catalogue file, built-in catalogue when empty
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *MockBackendConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig reads the YAML file at path. Every key can be overridden from the
// environment with dots replaced by underscores, e.g. SEARCH_BASE_URL.
// An empty path loads defaults and environment only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.Search.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the sections used by cmd/server
func (c *Config) Validate() error {
	if err := c.Search.Validate(); err != nil {
		return fmt.Errorf("invalid search config: %w", err)
	}
	if c.Pool.Workers <= 0 {
		return fmt.Errorf("invalid pool config: workers must be > 0")
	}
	if c.Redis.Enabled {
		if err := c.Redis.Validate(); err != nil {
			return fmt.Errorf("invalid redis config: %w", err)
		}
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("invalid log config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")

	search := types.DefaultClientConfig()
	v.SetDefault("search.base_url", "http://localhost:8081")
	v.SetDefault("search.path", search.Path)
	v.SetDefault("search.query_param", search.QueryParam)
	v.SetDefault("search.transport", string(search.Transport))
	v.SetDefault("search.timeout", search.Timeout)
	v.SetDefault("search.page_size", search.PageSize)
	v.SetDefault("search.derive_related_keywords", false)
	v.SetDefault("search.related_keyword_limit", search.RelatedKeywordLimit)
	v.SetDefault("search.cache_ttl", search.CacheTTL)

	v.SetDefault("session.max_sessions", 1000)
	v.SetDefault("session.sse_heartbeat", 30*time.Second)

	pool := workerpool.DefaultConfig()
	v.SetDefault("pool.workers", pool.Workers)
	v.SetDefault("pool.nonblocking", pool.Nonblocking)

	redis := pkgredis.DefaultConfig()
	v.SetDefault("redis.enabled", redis.Enabled)
	v.SetDefault("redis.mode", string(redis.Mode))
	v.SetDefault("redis.master_addr", redis.MasterAddr)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", redis.DB)
	v.SetDefault("redis.pool_size", redis.PoolSize)
	v.SetDefault("redis.min_idle_conns", redis.MinIdleConns)
	v.SetDefault("redis.dial_timeout", redis.DialTimeout)
	v.SetDefault("redis.read_timeout", redis.ReadTimeout)
	v.SetDefault("redis.write_timeout", redis.WriteTimeout)
	v.SetDefault("redis.pool_timeout", redis.PoolTimeout)
	v.SetDefault("redis.key_prefix", redis.KeyPrefix)

	log := logger.DefaultConfig()
	v.SetDefault("log.level", log.Level)
	v.SetDefault("log.format", log.Format)
	v.SetDefault("log.output", log.Output)
	v.SetDefault("log.enablecaller", log.EnableCaller)
	v.SetDefault("log.enablestacktrace", log.EnableStacktrace)
	v.SetDefault("log.file.filename", log.File.Filename)
	v.SetDefault("log.file.maxsize", log.File.MaxSize)
	v.SetDefault("log.file.maxage", log.File.MaxAge)
	v.SetDefault("log.file.maxbackups", log.File.MaxBackups)
	v.SetDefault("log.file.compress", log.File.Compress)

	v.SetDefault("mock_backend.host", "0.0.0.0")
	v.SetDefault("mock_backend.port", 8081)
	v.SetDefault("mock_backend.fixtures", "")
}
