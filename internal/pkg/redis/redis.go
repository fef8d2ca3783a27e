package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lk2023060901/nightmarket-search/internal/pkg/logger"
)

// Client Redis 客户端封装
type Client struct {
	config *Config
	logger *logger.Logger
	client redis.UniversalClient
}

// New 创建 Redis 客户端并做一次健康检查
func New(cfg *Config, log *logger.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}

	c := &Client{
		config: cfg,
		logger: log.Named("redis"),
		client: redis.NewUniversalClient(universalOptions(cfg)),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	c.logger.Info("redis client initialized successfully",
		zap.String("mode", string(cfg.Mode)),
		zap.Strings("addrs", cfg.Addrs()),
	)

	return c, nil
}

// universalOptions 根据部署模式构建 go-redis 配置
func universalOptions(cfg *Config) *redis.UniversalOptions {
	opts := &redis.UniversalOptions{
		Addrs:    cfg.Addrs(),
		Username: cfg.Username,
		Password: cfg.Password,

		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  cfg.PoolTimeout,
	}

	switch cfg.Mode {
	case ModeSentinel:
		opts.MasterName = cfg.MasterName
		opts.DB = cfg.DB
	case ModeCluster:
		opts.IsClusterMode = true
	default:
		opts.DB = cfg.DB
	}

	return opts
}

// Key 为缓存键加上配置的前缀
func (c *Client) Key(key string) string {
	return c.config.KeyPrefix + key
}

// Ping 健康检查
func (c *Client) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		c.logger.Error("redis ping failed", zap.Error(err))
		return err
	}
	return nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if err := c.client.Close(); err != nil {
		c.logger.Error("failed to close redis client", zap.Error(err))
		return err
	}
	return nil
}
