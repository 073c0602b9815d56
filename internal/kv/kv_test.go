package kv_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playperu/bracket/internal/database"
	"github.com/playperu/bracket/internal/kv"
	"github.com/playperu/bracket/internal/migrations"
)

func sqlBackend(t *testing.T) kv.Backend {
	t.Helper()
	db, err := database.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	_, err = migrations.Run(context.Background(), db)
	require.NoError(t, err)
	b := kv.NewSQL(db)
	t.Cleanup(func() { b.Close() })
	return b
}

func fileBackend(t *testing.T) kv.Backend {
	t.Helper()
	b, err := kv.NewFile(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	return b
}

func TestBackends(t *testing.T) {
	backends := map[string]func(t *testing.T) kv.Backend{
		"memory": func(*testing.T) kv.Backend { return kv.NewMemory() },
		"file":   fileBackend,
		"libsql": sqlBackend,
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			b := open(t)

			require.NoError(t, b.Ping(ctx))

			_, err := b.Get(ctx, "resultats")
			assert.ErrorIs(t, err, kv.ErrNotFound)

			require.NoError(t, b.Put(ctx, "resultats", []byte(`{"U12":{"A1":"Falcons"}}`)))
			got, err := b.Get(ctx, "resultats")
			require.NoError(t, err)
			assert.JSONEq(t, `{"U12":{"A1":"Falcons"}}`, string(got))

			require.NoError(t, b.Put(ctx, "resultats", []byte(`{}`)))
			got, err = b.Get(ctx, "resultats")
			require.NoError(t, err)
			assert.JSONEq(t, `{}`, string(got))
		})
	}
}

func TestFileWritesIndentedJSON(t *testing.T) {
	dir := t.TempDir()
	b, err := kv.NewFile(dir)
	require.NoError(t, err)

	require.NoError(t, b.Put(context.Background(), "resultats", []byte(`{"U12":{"A1":{"team":"Falcons"}}}`)))

	raw, err := os.ReadFile(filepath.Join(dir, "resultats.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"U12\"")

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFileRejectsPathKeys(t *testing.T) {
	b, err := kv.NewFile(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "..", "../escape", `a\b`} {
		_, err := b.Get(context.Background(), key)
		assert.Error(t, err, "key %q", key)
		assert.NotErrorIs(t, err, kv.ErrNotFound, "key %q", key)
	}
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := kv.NewMemory()

	v := []byte(`{"a":{}}`)
	require.NoError(t, m.Put(ctx, "k", v))
	v[2] = 'z'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":{}}`, string(got))
}

func TestRedisUnreachable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         "localhost:1",
		DialTimeout:  10 * time.Millisecond,
		ReadTimeout:  10 * time.Millisecond,
		WriteTimeout: 10 * time.Millisecond,
		MaxRetries:   -1,
	})
	b := kv.NewRedis(rdb, "bracket")
	defer b.Close()

	ctx := context.Background()
	assert.Error(t, b.Ping(ctx))

	_, err := b.Get(ctx, "resultats")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, kv.ErrNotFound)
}

func TestRedisRoundTrip(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	b, err := kv.OpenRedis(ctx, url, "bracket-test-"+t.Name())
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.Put(ctx, "resultats", []byte(`{"x":{}}`)))
	got, err := b.Get(ctx, "resultats")
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":{}}`, string(got))
}

func TestPostgresRoundTrip(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	b, err := kv.OpenPostgres(ctx, url)
	require.NoError(t, err)
	defer b.Close()

	key := "bracket-test-" + time.Now().Format("150405.000000")
	_, err = b.Get(ctx, key)
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, b.Put(ctx, key, []byte(`{"U12":{}}`)))
	got, err := b.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"U12":{}}`, string(got))
}
