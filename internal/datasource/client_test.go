package datasource

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradepulse/internal/config"
)

type fakeRows struct {
	cols []string
	rows [][]interface{}
	idx  int
}

func (r *fakeRows) Close()                       {}
func (r *fakeRows) Err() error                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (r *fakeRows) Scan(dest ...any) error       { return nil }
func (r *fakeRows) RawValues() [][]byte          { return nil }
func (r *fakeRows) Conn() *pgx.Conn              { return nil }

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	fields := make([]pgconn.FieldDescription, len(r.cols))
	for i, c := range r.cols {
		fields[i] = pgconn.FieldDescription{Name: c}
	}
	return fields
}

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	return r.rows[r.idx-1], nil
}

// fakePool fails the first failures queries, then serves rows.
type fakePool struct {
	cols     []string
	rows     [][]interface{}
	failures int

	queries int
	pings   int
	pingErr error
}

func (p *fakePool) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	p.queries++
	if p.queries <= p.failures {
		return nil, errors.New("connection reset")
	}
	return &fakeRows{cols: p.cols, rows: p.rows}, nil
}

func (p *fakePool) Ping(ctx context.Context) error {
	p.pings++
	return p.pingErr
}

func testClient(pool Pool, ttl time.Duration) *Client {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.DatabaseConfig{CacheTTL: ttl, QueryTimeout: time.Second}
	return NewWithPool(pool, cfg, logger, nil)
}

func TestQueryMaterializesTable(t *testing.T) {
	pool := &fakePool{
		cols: []string{"asset_id", "name"},
		rows: [][]interface{}{{int64(1), "EURUSD"}, {int64(2), "GBPUSD"}},
	}
	client := testClient(pool, 0)

	table, err := client.Query(context.Background(), "assets", "SELECT 1")
	require.NoError(t, err)
	assert.Equal(t, []string{"asset_id", "name"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "EURUSD", table.Value(0, "name"))
}

func TestQueryRetriesOnceAfterReconnect(t *testing.T) {
	pool := &fakePool{
		cols:     []string{"asset_id"},
		rows:     [][]interface{}{{int64(1)}},
		failures: 1,
	}
	client := testClient(pool, 0)

	table, err := client.Query(context.Background(), "assets", "SELECT 1")
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)
	assert.Equal(t, 2, pool.queries)
	assert.Equal(t, 1, pool.pings, "retry must go through the reconnect step")
}

func TestQueryGivesUpAfterSecondFailure(t *testing.T) {
	pool := &fakePool{failures: 2}
	client := testClient(pool, 0)

	_, err := client.Query(context.Background(), "assets", "SELECT 1")
	require.Error(t, err)
	assert.Equal(t, 2, pool.queries, "exactly two attempts, never more")
}

func TestQueryStopsWhenReconnectFails(t *testing.T) {
	pool := &fakePool{failures: 1, pingErr: errors.New("still down")}
	client := testClient(pool, 0)

	_, err := client.Query(context.Background(), "assets", "SELECT 1")
	require.Error(t, err)
	assert.Equal(t, 1, pool.queries, "no retry without a successful reconnect")
}

func TestQueryCacheServesRepeats(t *testing.T) {
	pool := &fakePool{cols: []string{"n"}, rows: [][]interface{}{{int64(1)}}}
	client := testClient(pool, time.Minute)

	_, err := client.Query(context.Background(), "kpi", "SELECT 1", "2024-03-01")
	require.NoError(t, err)
	_, err = client.Query(context.Background(), "kpi", "SELECT 1", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 1, pool.queries, "second call must come from cache")

	// Different args form a different key.
	_, err = client.Query(context.Background(), "kpi", "SELECT 1", "2024-03-02")
	require.NoError(t, err)
	assert.Equal(t, 2, pool.queries)

	client.InvalidateCache()
	_, err = client.Query(context.Background(), "kpi", "SELECT 1", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 3, pool.queries)
}

func TestResultCacheExpiry(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	cache := newResultCache(time.Minute)
	cache.now = func() time.Time { return now }

	cache.set("k", &Table{Columns: []string{"a"}})

	_, ok := cache.get("k")
	assert.True(t, ok)

	now = now.Add(59 * time.Second)
	_, ok = cache.get("k")
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok = cache.get("k")
	assert.False(t, ok, "entry past its TTL must be evicted")
}

func TestResultCacheZeroTTLDisables(t *testing.T) {
	cache := newResultCache(0)
	cache.set("k", &Table{})
	_, ok := cache.get("k")
	assert.False(t, ok)
}
