package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/boddenberg/sarathi-client-go/internal/infra/storage"
	"github.com/boddenberg/sarathi-client-go/internal/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseKV runs the common KV contract against a backend.
func exerciseKV(t *testing.T, kv port.KVStore) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, kv.Ping(ctx))

	v, err := kv.Get(ctx, "absent")
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, kv.Set(ctx, "authToken", []byte("tok-1")))
	v, err = kv.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.Equal(t, []byte("tok-1"), v)

	require.NoError(t, kv.Set(ctx, "authToken", []byte("tok-2")))
	v, err = kv.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.Equal(t, []byte("tok-2"), v)

	require.NoError(t, kv.Delete(ctx, "authToken"))
	v, err = kv.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, kv.Delete(ctx, "never-set"))
}

func TestSQLite_Contract(t *testing.T) {
	kv, err := storage.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	exerciseKV(t, kv)
	require.NoError(t, kv.Ping(context.Background()))
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "sarathi.db")

	kv, err := storage.OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "user", []byte(`{"id":1}`)))
	require.NoError(t, kv.Close())

	kv, err = storage.OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	v, err := kv.Get(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, string(v))
}

func TestMemory_Contract(t *testing.T) {
	kv := storage.NewMemory()
	t.Cleanup(func() { _ = kv.Close() })

	exerciseKV(t, kv)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	t.Cleanup(func() { _ = kv.Close() })

	buf := []byte("abc")
	require.NoError(t, kv.Set(ctx, "k", buf))
	buf[0] = 'x'

	v, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(v))
}

func TestSealed_Contract(t *testing.T) {
	inner := storage.NewMemory()
	kv, err := storage.NewSealed(inner, "correct horse battery staple")
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	exerciseKV(t, kv)
}

func TestSealed_CiphertextAtRest(t *testing.T) {
	ctx := context.Background()
	inner := storage.NewMemory()
	t.Cleanup(func() { _ = inner.Close() })

	kv, err := storage.NewSealed(inner, "secret")
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "authToken", []byte("plain-token")))

	raw, err := inner.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "plain-token")
}

func TestSealed_WrongSecretOrKeySwap(t *testing.T) {
	ctx := context.Background()
	inner := storage.NewMemory()
	t.Cleanup(func() { _ = inner.Close() })

	kv, err := storage.NewSealed(inner, "secret-a")
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "authToken", []byte("tok")))

	other, err := storage.NewSealed(inner, "secret-b")
	require.NoError(t, err)
	_, err = other.Get(ctx, "authToken")
	assert.True(t, errors.Is(err, storage.ErrSealedValue))

	raw, err := inner.Get(ctx, "authToken")
	require.NoError(t, err)
	require.NoError(t, inner.Set(ctx, "user", raw))
	_, err = kv.Get(ctx, "user")
	assert.True(t, errors.Is(err, storage.ErrSealedValue))
}

func TestNewSealed_EmptySecret(t *testing.T) {
	_, err := storage.NewSealed(storage.NewMemory(), "")
	require.Error(t, err)
}

func TestOpen_Backends(t *testing.T) {
	ctx := context.Background()

	kv, err := storage.Open(ctx, storage.Options{Backend: storage.BackendMemory, Secret: "s"})
	require.NoError(t, err)
	_, sealed := kv.(*storage.Sealed)
	assert.True(t, sealed)
	require.NoError(t, kv.Close())

	kv, err = storage.Open(ctx, storage.Options{SQLitePath: filepath.Join(t.TempDir(), "kv.db")})
	require.NoError(t, err)
	_, isSQLite := kv.(*storage.SQLite)
	assert.True(t, isSQLite)
	require.NoError(t, kv.Close())

	_, err = storage.Open(ctx, storage.Options{Backend: "floppy"})
	require.Error(t, err)
}

func TestRedis_Contract(t *testing.T) {
	addr := os.Getenv("SARATHI_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SARATHI_TEST_REDIS_ADDR not set")
	}

	kv, err := storage.NewRedis(addr, "", 0, "sarathi-test:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	exerciseKV(t, kv)
}
