package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/nightmarket-search/internal/pkg/logger"
)

const (
	testRedisAddr = "localhost:6379"
)

// setupTestClient 需要本地 Redis，不可用时跳过
func setupTestClient(t *testing.T) *Client {
	cfg := DefaultConfig()
	cfg.MasterAddr = testRedisAddr
	cfg.KeyPrefix = "nightmarket:test:"
	cfg.DialTimeout = time.Second

	client, err := New(cfg, logger.Nop())
	if err != nil {
		t.Skipf("redis not available at %s: %v", testRedisAddr, err)
	}
	t.Cleanup(func() { client.Close() })

	return client
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{
			name:    "default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing master addr",
			modify:  func(c *Config) { c.MasterAddr = "" },
			wantErr: true,
		},
		{
			name:    "sentinel without master name",
			modify:  func(c *Config) { c.Mode = ModeSentinel; c.SentinelAddrs = []string{"localhost:26379"} },
			wantErr: true,
		},
		{
			name:    "cluster with addrs",
			modify:  func(c *Config) { c.Mode = ModeCluster; c.ClusterAddrs = []string{"localhost:7000"} },
			wantErr: false,
		},
		{
			name:    "unknown mode",
			modify:  func(c *Config) { c.Mode = "read-write" },
			wantErr: true,
		},
		{
			name:    "invalid db",
			modify:  func(c *Config) { c.DB = 16 },
			wantErr: true,
		},
		{
			name:    "invalid pool size",
			modify:  func(c *Config) { c.PoolSize = 0 },
			wantErr: true,
		},
		{
			name:    "min idle exceeds pool size",
			modify:  func(c *Config) { c.MinIdleConns = 20 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Addrs(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, []string{"localhost:6379"}, cfg.Addrs())

	cfg.Mode = ModeCluster
	cfg.ClusterAddrs = []string{"a:1", "b:2"}
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.Addrs())
}

func TestUniversalOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeCluster
	cfg.ClusterAddrs = []string{"a:1"}
	cfg.DB = 3

	opts := universalOptions(cfg)
	assert.True(t, opts.IsClusterMode)
	assert.Equal(t, 0, opts.DB)
}

func TestClient_SetGet(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k1", "v1", time.Minute))

	val, err := client.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "v1", val)

	ttl, err := client.TTL(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ttl > 0)

	n, err := client.Del(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = client.Get(ctx, "k1")
	assert.True(t, IsNil(err))
}
