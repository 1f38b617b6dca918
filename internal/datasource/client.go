// Package datasource is the tabular data source boundary: given a
// parameterized query it returns a table of typed rows, caching results
// for a short TTL and retrying a failed query exactly once after a typed
// reconnect step. Conversion of raw columns into domain records lives in
// the mappers here, so malformed fields degrade at this boundary and
// never leak upstream as errors.
package datasource

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/singleflight"

	"tradepulse/internal/config"
	"tradepulse/internal/infrastructure"
)

// Pool is the subset of pgxpool.Pool the client relies on.
type Pool interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Ping(ctx context.Context) error
}

// Client executes warehouse queries and owns the result cache.
type Client struct {
	pool    Pool
	logger  *slog.Logger
	metrics *infrastructure.Metrics
	cache   *resultCache
	group   singleflight.Group
	timeout time.Duration
}

// New connects a client to the warehouse described by cfg.
func New(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger, metrics *infrastructure.Metrics) (*Client, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	logger.Info("data source connected",
		slog.Int("max_conns", int(cfg.MaxConns)),
		slog.Duration("cache_ttl", cfg.CacheTTL))

	return NewWithPool(pool, cfg, logger, metrics), nil
}

// NewWithPool builds a client over an existing pool. Tests use it with a
// fake pool.
func NewWithPool(pool Pool, cfg config.DatabaseConfig, logger *slog.Logger, metrics *infrastructure.Metrics) *Client {
	return &Client{
		pool:    pool,
		logger:  logger.With(slog.String("component", "datasource")),
		metrics: metrics,
		cache:   newResultCache(cfg.CacheTTL),
		timeout: cfg.QueryTimeout,
	}
}

// Ping verifies warehouse connectivity. The readiness probe uses it.
func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// InvalidateCache drops all cached results, forcing the next queries to
// hit the warehouse.
func (c *Client) InvalidateCache() {
	c.cache.clear()
	c.logger.Info("query cache cleared")
}

// Query runs a named query through the cache. Concurrent callers for the
// same key share one warehouse round trip.
func (c *Client) Query(ctx context.Context, name, sql string, args ...interface{}) (*Table, error) {
	key := cacheKey(name, sql, args)

	if t, ok := c.cache.get(key); ok {
		if c.metrics != nil {
			c.metrics.CacheHits.WithLabelValues("hit").Inc()
		}
		return t, nil
	}
	if c.metrics != nil {
		c.metrics.CacheHits.WithLabelValues("miss").Inc()
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		t, err := c.queryWithRetry(ctx, name, sql, args...)
		if err != nil {
			return nil, err
		}
		c.cache.set(key, t)
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Table), nil
}

// queryWithRetry applies the two-attempt policy: one query, and on
// failure one typed reconnect (ping) followed by exactly one retry.
// Retry policy beyond that belongs to the warehouse, not here.
func (c *Client) queryWithRetry(ctx context.Context, name, sql string, args ...interface{}) (*Table, error) {
	t, err := c.queryOnce(ctx, name, sql, args...)
	if err == nil {
		return t, nil
	}

	c.logger.WarnContext(ctx, "query failed, reconnecting for one retry",
		slog.String("query", name),
		slog.String("error", err.Error()))

	if pingErr := c.pool.Ping(ctx); pingErr != nil {
		return nil, fmt.Errorf("reconnect after failed query %q: %w", name, pingErr)
	}

	t, err = c.queryOnce(ctx, name, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query %q failed after retry: %w", name, err)
	}
	return t, nil
}

// queryOnce executes the query and materializes the full result table.
func (c *Client) queryOnce(ctx context.Context, name, sql string, args ...interface{}) (*Table, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	rows, err := c.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, fd := range fields {
		columns[i] = string(fd.Name)
	}

	table := &Table{Columns: columns}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		row := make([]interface{}, len(values))
		copy(row, values)
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if c.metrics != nil {
		c.metrics.ObserveQuery(name, start)
	}
	c.logger.DebugContext(ctx, "query completed",
		slog.String("query", name),
		slog.Int("rows", len(table.Rows)),
		slog.Duration("elapsed", time.Since(start)))

	return table, nil
}
