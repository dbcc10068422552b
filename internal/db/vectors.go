package db

import (
	"fmt"
	"os"
	"time"

	"kvvec/internal/metrics"
	"kvvec/internal/storage/wal"
	"kvvec/internal/vector"
	pkgerrors "kvvec/pkg/errors"
	"kvvec/pkg/logger"
)

// CreateVector creates an empty vector. A zero capacity uses the configured
// default.
func (db *DB) CreateVector(name string, capacity int) (info Info, err error) {
	start := time.Now()
	defer func() { metrics.Observe("create", status(err), start) }()

	if !nameRE.MatchString(name) {
		return Info{}, fmt.Errorf("%q: %w", name, pkgerrors.ErrInvalidName)
	}
	if capacity == 0 {
		capacity = db.conf.DefaultCapacity
	}
	if capacity < 0 || capacity > db.conf.MaxCapacity {
		return Info{}, fmt.Errorf("capacity %d not in [1, %d]: %w",
			capacity, db.conf.MaxCapacity, pkgerrors.ErrInvalidCapacity)
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.vectors[name]; exists {
		return Info{}, fmt.Errorf("%s: %w", name, pkgerrors.ErrVectorExists)
	}

	h := &handle{vec: vector.New(capacity)}
	if db.conf.Persistent() {
		path := db.conf.WALPath(name)
		// a leftover file would replay stale records on the next Open
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return Info{}, err
		}
		if h.wal, err = wal.NewWriter(path); err != nil {
			return Info{}, err
		}
		if err = h.wal.Append(wal.Record{Op: wal.OpCreate, Capacity: capacity}); err != nil {
			_ = h.wal.Close()
			_ = os.Remove(path)
			return Info{}, err
		}
	}
	db.vectors[name] = h
	metrics.Vectors.Inc()

	logger.Info("vector created", "vector", name, "capacity", capacity)
	return infoOf(name, h.vec), nil
}

// GetVector returns the vector's length and capacity.
func (db *DB) GetVector(name string) (Info, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	h, err := db.lookup(name)
	if err != nil {
		return Info{}, err
	}
	return infoOf(name, h.vec), nil
}

// Entries returns a copy of the vector's live entries.
func (db *DB) Entries(name string) ([]vector.Entry, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	h, err := db.lookup(name)
	if err != nil {
		return nil, err
	}
	return h.vec.Entries(), nil
}

// DeleteVector destroys the vector and removes its log.
func (db *DB) DeleteVector(name string) (err error) {
	start := time.Now()
	defer func() { metrics.Observe("destroy", status(err), start) }()

	db.mu.Lock()
	defer db.mu.Unlock()
	h, err := db.lookup(name)
	if err != nil {
		return err
	}
	delete(db.vectors, name)
	h.vec.Destroy()
	metrics.Vectors.Dec()

	if h.wal != nil {
		if err := h.wal.Close(); err != nil {
			logger.Warn("close wal", "vector", name, "error", err)
		}
		if err := os.Remove(h.wal.Path()); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	logger.Info("vector destroyed", "vector", name)
	return nil
}

// ListVectors returns every vector ordered by name.
func (db *DB) ListVectors() []Info {
	db.mu.RLock()
	defer db.mu.RUnlock()
	infos := make([]Info, 0, len(db.vectors))
	for _, name := range db.sortedNames() {
		infos = append(infos, infoOf(name, db.vectors[name].vec))
	}
	return infos
}
