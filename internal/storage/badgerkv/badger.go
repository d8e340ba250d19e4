// Package badgerkv implements the storage.KV substrate on BadgerDB.
//
// BadgerDB is a pure-Go embedded key-value store with low-latency access. For
// this app it is the "directory" alternative to the single-file SQLite
// backend: same contract, different on-disk shape. In-memory mode backs the
// tests.
package badgerkv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/sakif/devshare/internal/storage"
)

// compile-time check that *KV implements storage.KV
var _ storage.KV = (*KV)(nil)

// KV wraps a badger.DB.
type KV struct {
	db *badger.DB
}

// New opens a persistent BadgerDB in dir, creating the directory if needed.
// SyncWrites is enabled: the document store's whole-snapshot writes are rare
// and must survive a crash, so durability wins over write throughput.
func New(dir string, logger *slog.Logger) (*KV, error) {
	if dir == "" {
		return nil, errors.New("badgerkv: dir is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("badgerkv: creating directory %s: %w", dir, err)
	}

	opts := badger.DefaultOptions(dir).
		WithSyncWrites(true).
		WithNumVersionsToKeep(1)
	opts = withLogger(opts, logger)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerkv: opening database: %w", err)
	}
	return &KV{db: db}, nil
}

// NewInMemory opens a throwaway in-memory instance. Data is lost on Close.
func NewInMemory() (*KV, error) {
	opts := withLogger(badger.DefaultOptions("").WithInMemory(true), nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerkv: opening in-memory database: %w", err)
	}
	return &KV{db: db}, nil
}

func withLogger(opts badger.Options, logger *slog.Logger) badger.Options {
	if logger == nil {
		// Badger's own logging is chatty at startup; without a logger we
		// silence it rather than let it write to the default log package.
		return opts.WithLogger(nil)
	}
	return opts.WithLogger(&badgerLogger{logger: logger})
}

// Close closes the underlying database. Always defer Close() after New().
func (kv *KV) Close() error {
	return kv.db.Close()
}

// Get returns the value stored under key. ok is false if the key is absent.
func (kv *KV) Get(_ context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := kv.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("badgerkv: getting key %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (kv *KV) Set(_ context.Context, key string, value []byte) error {
	err := kv.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("badgerkv: setting key %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is a no-op.
func (kv *KV) Delete(_ context.Context, key string) error {
	err := kv.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("badgerkv: deleting key %q: %w", key, err)
	}
	return nil
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
