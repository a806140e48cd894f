package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Client wraps a pgx connection pool for reuse across repositories
type Client struct {
	pool *pgxpool.Pool
}

// Config holds Postgres connection configuration
type Config struct {
	URL      string
	MaxConns int32
}

// NewClient creates a pool and verifies the connection
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Postgres URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to verify Postgres connectivity: %w", err)
	}

	return &Client{pool: pool}, nil
}

// Pool returns the underlying pool for repository use
func (c *Client) Pool() *pgxpool.Pool {
	return c.pool
}

// Close closes every pooled connection
func (c *Client) Close(context.Context) error {
	if c.pool != nil {
		c.pool.Close()
	}
	return nil
}
