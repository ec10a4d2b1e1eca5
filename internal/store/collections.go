// internal/store/collections.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
)

// truncateLimit is how many elements of an oversized collection survive a
// quota failure. Availability wins over completeness here.
const truncateLimit = 10

// Store wraps a KVStore with JSON collection semantics: defaults on missing
// or corrupt data, degradation on quota failure, and a process-wide mutex so
// read-modify-write sequences over multiple collections commit atomically
// within this process.
type Store struct {
	mu  sync.Mutex
	kv  KVStore
	log *logrus.Entry
}

func New(kv KVStore) *Store {
	return &Store{
		kv:  kv,
		log: logrus.WithField("component", "store"),
	}
}

// WithLock runs fn while holding the store mutex. Services hold the lock for
// the whole read-modify-write of a mutation; Load and Save themselves do not
// lock so they can be composed inside fn.
func (s *Store) WithLock(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// Load returns the stored collection for key, or initializes the key with
// defaultValue and returns that when the key is absent or its payload does
// not parse. Load never fails; backend read errors degrade to the default.
func Load[T any](ctx context.Context, s *Store, key string, defaultValue T) T {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.log.WithError(err).WithField("key", key).Warn("Store read failed, using defaults")
		}
		s.initialize(ctx, key, defaultValue)
		return defaultValue
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("Corrupt payload, reinitializing with defaults")
		s.initialize(ctx, key, defaultValue)
		return defaultValue
	}
	return value
}

func (s *Store) initialize(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("Failed to initialize collection")
	}
}

// Save overwrites the collection at key. On quota exhaustion a slice payload
// is retried with its first elements only; anything else that keeps the value
// out of storage surfaces as ErrStorageFailure.
func Save[T any](ctx context.Context, s *Store, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrStorageFailure, key, err)
	}

	err = s.kv.Set(ctx, key, raw)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrQuotaExceeded) {
		return fmt.Errorf("%w: write %s: %v", ErrStorageFailure, key, err)
	}

	truncated, ok := truncateSlice(value)
	if !ok {
		return fmt.Errorf("%w: quota exceeded for %s", ErrStorageFailure, key)
	}
	raw, err = json.Marshal(truncated)
	if err != nil {
		return fmt.Errorf("%w: encode truncated %s: %v", ErrStorageFailure, key, err)
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("%w: write truncated %s: %v", ErrStorageFailure, key, err)
	}
	s.log.WithField("key", key).Warnf("Quota exceeded, saved first %d items only", truncateLimit)
	return nil
}

// Remove deletes the collection at key.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrStorageFailure, key, err)
	}
	return nil
}

func truncateSlice(value any) (any, bool) {
	v := reflect.ValueOf(value)
	if v.Kind() != reflect.Slice || v.Len() <= truncateLimit {
		return nil, false
	}
	return v.Slice(0, truncateLimit).Interface(), true
}
