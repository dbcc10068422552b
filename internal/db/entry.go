package db

import (
	"errors"
	"fmt"
	"time"

	"kvvec/internal/metrics"
	"kvvec/internal/storage/wal"
	"kvvec/internal/vector"
	pkgerrors "kvvec/pkg/errors"
	"kvvec/pkg/logger"
)

func status(err error) string {
	switch {
	case err == nil:
		return metrics.StatusOK
	case errors.Is(err, pkgerrors.ErrVectorNotFound),
		errors.Is(err, pkgerrors.ErrEntryNotFound),
		errors.Is(err, pkgerrors.ErrEmptyVector):
		return metrics.StatusNotFound
	}
	return metrics.StatusError
}

// mutate logs rec ahead of applying it. Must be called with mu held.
func (db *DB) mutate(name string, h *handle, rec wal.Record) error {
	if h.wal != nil {
		if err := h.wal.Append(rec); err != nil {
			return fmt.Errorf("%s: log %s: %w", name, rec.Op, err)
		}
	}
	grows := h.vec.Grows()
	if err := wal.Apply(h.vec, rec); err != nil {
		return err
	}
	if n := h.vec.Grows() - grows; n > 0 {
		metrics.VectorGrowsTotal.Add(float64(n))
		logger.Debug("vector grown", "vector", name, "capacity", h.vec.Cap())
	}
	return nil
}

// Push appends an entry to the named vector.
func (db *DB) Push(name string, e vector.Entry) (info Info, err error) {
	start := time.Now()
	defer func() { metrics.Observe("push", status(err), start) }()

	db.mu.Lock()
	defer db.mu.Unlock()
	h, err := db.lookup(name)
	if err != nil {
		return Info{}, err
	}
	if err = db.mutate(name, h, wal.Record{Op: wal.OpPush, Entry: e}); err != nil {
		return Info{}, err
	}
	return infoOf(name, h.vec), nil
}

// Pop removes the last entry. It returns ErrEmptyVector when there is none.
func (db *DB) Pop(name string) (e vector.Entry, err error) {
	start := time.Now()
	defer func() { metrics.Observe("pop", status(err), start) }()

	db.mu.Lock()
	defer db.mu.Unlock()
	h, err := db.lookup(name)
	if err != nil {
		return vector.Entry{}, err
	}
	n := h.vec.Len()
	if n == 0 {
		return vector.Entry{}, fmt.Errorf("%s: %w", name, pkgerrors.ErrEmptyVector)
	}
	e = h.vec.At(n - 1)
	if err = db.mutate(name, h, wal.Record{Op: wal.OpPop}); err != nil {
		return vector.Entry{}, err
	}
	return e, nil
}

// Find returns the index of the first entry with key.
func (db *DB) Find(name string, key int32) (idx int, err error) {
	start := time.Now()
	defer func() { metrics.Observe("find", status(err), start) }()

	db.mu.RLock()
	defer db.mu.RUnlock()
	h, err := db.lookup(name)
	if err != nil {
		return -1, err
	}
	idx, ok := h.vec.Find(key)
	if !ok {
		return -1, fmt.Errorf("%s: key %d: %w", name, key, pkgerrors.ErrEntryNotFound)
	}
	return idx, nil
}

// Delete removes the first entry with key.
func (db *DB) Delete(name string, key int32) (err error) {
	start := time.Now()
	defer func() { metrics.Observe("delete", status(err), start) }()

	db.mu.Lock()
	defer db.mu.Unlock()
	h, err := db.lookup(name)
	if err != nil {
		return err
	}
	// misses are not logged
	if _, ok := h.vec.Find(key); !ok {
		return fmt.Errorf("%s: key %d: %w", name, key, pkgerrors.ErrEntryNotFound)
	}
	return db.mutate(name, h, wal.Record{Op: wal.OpDelete, Entry: vector.Entry{Key: key}})
}

// Sort orders the vector by key then value.
func (db *DB) Sort(name string) (err error) {
	start := time.Now()
	defer func() { metrics.Observe("sort", status(err), start) }()

	db.mu.Lock()
	defer db.mu.Unlock()
	h, err := db.lookup(name)
	if err != nil {
		return err
	}
	return db.mutate(name, h, wal.Record{Op: wal.OpSort})
}
