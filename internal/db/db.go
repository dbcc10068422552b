package db

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"kvvec/internal/config"
	"kvvec/internal/metrics"
	"kvvec/internal/storage/wal"
	"kvvec/internal/vector"
	pkgerrors "kvvec/pkg/errors"
	"kvvec/pkg/logger"
)

var nameRE = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// handle pairs a vector with its optional log.
type handle struct {
	vec *vector.Vector
	wal *wal.Writer
}

// DB owns named vectors. Vectors are single threaded, so every access goes
// through mu.
type DB struct {
	conf    *config.Config
	mu      sync.RWMutex
	vectors map[string]*handle
}

func New(conf *config.Config) (*DB, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &DB{
		conf:    conf,
		vectors: make(map[string]*handle),
	}, nil
}

// Open restores every vector found in the WAL directory.
func (db *DB) Open() error {
	if !db.conf.Persistent() {
		return nil
	}
	if err := os.MkdirAll(db.conf.Dir, 0755); err != nil {
		return err
	}
	files, err := filepath.Glob(filepath.Join(db.conf.Dir, "*"+config.WALSuffix))
	if err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), config.WALSuffix)
		if !nameRE.MatchString(name) {
			logger.Warn("skipping wal with invalid vector name", "file", file)
			continue
		}
		vec, err := wal.Restore(file)
		if err != nil {
			db.releaseLocked()
			return fmt.Errorf("restore vector %s: %w", name, err)
		}
		writer, err := wal.NewWriter(file)
		if err != nil {
			vec.Destroy()
			db.releaseLocked()
			return err
		}
		db.vectors[name] = &handle{vec: vec, wal: writer}
		logger.Info("vector restored", "vector", name, "length", vec.Len(), "capacity", vec.Cap())
	}
	metrics.Vectors.Set(float64(len(db.vectors)))
	return nil
}

// releaseLocked destroys every vector and closes its log. mu must be held.
func (db *DB) releaseLocked() error {
	var firstErr error
	for name, h := range db.vectors {
		h.vec.Destroy()
		if h.wal != nil {
			if err := h.wal.Close(); err != nil {
				logger.Warn("close wal", "vector", name, "error", err)
				if firstErr == nil {
					firstErr = err
				}
			}
		}
		delete(db.vectors, name)
	}
	metrics.Vectors.Set(0)
	return firstErr
}

// Close releases every vector and closes their logs.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.releaseLocked()
}

// Info describes a vector without its entries.
type Info struct {
	Name     string `json:"name"`
	Length   int    `json:"length"`
	Capacity int    `json:"capacity"`
	Grows    int    `json:"grows"`
}

func infoOf(name string, v *vector.Vector) Info {
	return Info{
		Name:     name,
		Length:   v.Len(),
		Capacity: v.Cap(),
		Grows:    v.Grows(),
	}
}

// lookup must be called with mu held.
func (db *DB) lookup(name string) (*handle, error) {
	h, ok := db.vectors[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, pkgerrors.ErrVectorNotFound)
	}
	return h, nil
}

func (db *DB) sortedNames() []string {
	names := make([]string, 0, len(db.vectors))
	for name := range db.vectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
