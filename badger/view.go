// Package badger provides a view counter persisted in a Badger key-value store.
package badger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/fwojciec/prepcat"
)

// maxConflictRetries bounds how often an increment is retried when another
// process commits the same key first.
const maxConflictRetries = 10

// keyPrefix namespaces view counters within the store.
const keyPrefix = "views:"

// Compile-time interface verification.
var _ prepcat.ViewService = (*ViewService)(nil)

// ViewService implements prepcat.ViewService on top of Badger. Counts are
// stored as big-endian uint64 values keyed by item id.
type ViewService struct {
	db *badger.DB

	// mu serializes increments within this process.
	mu sync.Mutex
}

// Open opens the store in dir, creating it if needed. An empty dir keeps
// the store in memory.
func Open(dir string) (*ViewService, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &ViewService{db: db}, nil
}

// Close closes the store.
func (s *ViewService) Close() error {
	return s.db.Close()
}

// RecordView increments the count for id and returns the new count.
func (s *ViewService) RecordView(ctx context.Context, id string) (int, error) {
	if id == "" {
		return 0, prepcat.Errorf(prepcat.EINVALID, "item id required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var count uint64
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		err := s.db.Update(func(txn *badger.Txn) error {
			n, err := get(txn, id)
			if err != nil {
				return err
			}
			count = n + 1
			return txn.Set(key(id), encode(count))
		})
		if err == nil {
			return int(count), nil
		}
		if !errors.Is(err, badger.ErrConflict) || attempt >= maxConflictRetries {
			return 0, fmt.Errorf("record view %q: %w", id, err)
		}
	}
}

// ViewCount returns the count for id, zero if never recorded.
func (s *ViewService) ViewCount(ctx context.Context, id string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var count uint64
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		count, err = get(txn, id)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("view count %q: %w", id, err)
	}
	return int(count), nil
}

// get reads the count for id, zero if absent.
func get(txn *badger.Txn, id string) (uint64, error) {
	item, err := txn.Get(key(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var n uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("corrupt counter for %q: %d bytes", id, len(val))
		}
		n = binary.BigEndian.Uint64(val)
		return nil
	})
	return n, err
}

func key(id string) []byte {
	return []byte(keyPrefix + id)
}

func encode(n uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, n)
	return buf
}
