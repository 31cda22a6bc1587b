// Package storage provides the local key-value backends that hold the auth
// token, the cached user record and the chat transcript.
package storage

import (
	"context"
	"fmt"

	"github.com/boddenberg/sarathi-client-go/internal/port"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	SQLitePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	// Secret, when set, seals every value with Sealed.
	Secret string
}

// Open builds the configured backend.
func Open(ctx context.Context, opts Options) (port.KVStore, error) {
	var (
		kv  port.KVStore
		err error
	)

	switch opts.Backend {
	case BackendSQLite, "":
		kv, err = OpenSQLite(ctx, opts.SQLitePath)
	case BackendMemory:
		kv = NewMemory()
	case BackendRedis:
		kv, err = NewRedis(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.RedisPrefix)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}

	if opts.Secret == "" {
		return kv, nil
	}

	sealed, err := NewSealed(kv, opts.Secret)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	return sealed, nil
}
