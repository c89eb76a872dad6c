package cache

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// existence is the slice of storage.Store the memo needs.
type existence interface {
	Exists(ctx context.Context, key string) (bool, error)
}

// Memo maps generator inputs to the storage keys of their outputs. A hit is
// only reported while the stored object still exists.
type Memo struct {
	cache  Cache
	store  existence
	ttl    time.Duration
	logger zerolog.Logger
}

// NewMemo builds a Memo. A nil cache disables memoisation.
func NewMemo(c Cache, store existence, ttl time.Duration, logger *zerolog.Logger) *Memo {
	l := zerolog.New(io.Discard)
	if logger != nil {
		l = *logger
	}
	return &Memo{cache: c, store: store, ttl: ttl, logger: l}
}

// Lookup returns the cached storage key for key.
func (m *Memo) Lookup(ctx context.Context, key string) (string, bool) {
	if m == nil || m.cache == nil {
		return "", false
	}
	storageKey, ok, err := m.cache.Get(ctx, key)
	if err != nil {
		m.logger.Debug().Err(err).Str("key", key).Msg("cache get failed")
		return "", false
	}
	if !ok || storageKey == "" {
		return "", false
	}
	exists, err := m.store.Exists(ctx, storageKey)
	if err != nil || !exists {
		return "", false
	}
	return storageKey, true
}

// Remember records storageKey for key.
func (m *Memo) Remember(ctx context.Context, key, storageKey string) {
	if m == nil || m.cache == nil {
		return
	}
	if err := m.cache.Set(ctx, key, storageKey, m.ttl); err != nil {
		m.logger.Debug().Err(err).Str("key", key).Msg("cache set failed")
	}
}
