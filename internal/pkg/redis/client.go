package redis

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
)

// Client wraps go-redis with a named Lua script registry so adapters can load
// scripts once at construction and run them by name.
type Client struct {
	rdb *goredis.Client

	mu      sync.RWMutex
	scripts map[string]*goredis.Script
}

// NewClient connects and verifies the connection.
func NewClient(ctx context.Context, addr string) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrapf(err, "ping redis at %s", addr)
	}
	return &Client{rdb: rdb, scripts: make(map[string]*goredis.Script)}, nil
}

// GetClient exposes the underlying client for pipeline and plain commands.
func (c *Client) GetClient() *goredis.Client {
	return c.rdb
}

// LoadScriptFromContent registers a Lua script under a name.
func (c *Client) LoadScriptFromContent(name, content string) error {
	if content == "" {
		return errors.Errorf("empty script content for %q", name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scripts[name] = goredis.NewScript(content)
	return nil
}

// RunScript executes a registered script, using EVALSHA with EVAL fallback.
func (c *Client) RunScript(ctx context.Context, name string, keys []string, args ...interface{}) (interface{}, error) {
	c.mu.RLock()
	script, ok := c.scripts[name]
	c.mu.RUnlock()
	if !ok {
		return nil, errors.Errorf("script %q is not loaded", name)
	}
	return script.Run(ctx, c.rdb, keys, args...).Result()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
