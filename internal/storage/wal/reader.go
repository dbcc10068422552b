package wal

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"kvvec/internal/vector"
	pkgerrors "kvvec/pkg/errors"

	"github.com/twmb/murmur3"
)

// maxPayload bounds a single record; the largest real payload is 11 bytes.
const maxPayload = 64

type Reader struct {
	file   string
	src    *os.File
	reader *bufio.Reader
}

func NewReader(file string) (*Reader, error) {
	src, err := os.OpenFile(file, os.O_RDONLY, 0644)
	if err != nil {
		return nil, err
	}

	return &Reader{
		file:   file,
		src:    src,
		reader: bufio.NewReader(src),
	}, nil
}

// Replay calls fn for every record in order. A clean end of file stops the
// replay; a torn or mismatching record returns ErrCorruptRecord.
func (r *Reader) Replay(fn func(Record) error) error {
	for idx := 0; ; idx++ {
		rec, err := r.next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: record %d: %w", r.file, idx, err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

func (r *Reader) next() (Record, error) {
	size, err := binary.ReadUvarint(r.reader)
	if errors.Is(err, io.EOF) {
		return Record{}, io.EOF
	}
	if err != nil {
		return Record{}, pkgerrors.ErrCorruptRecord
	}
	if size == 0 || size > maxPayload {
		return Record{}, pkgerrors.ErrCorruptRecord
	}

	frame := make([]byte, size+4)
	if _, err := io.ReadFull(r.reader, frame); err != nil {
		return Record{}, pkgerrors.ErrCorruptRecord
	}
	payload := frame[:size]
	if binary.LittleEndian.Uint32(frame[size:]) != murmur3.Sum32(payload) {
		return Record{}, pkgerrors.ErrCorruptRecord
	}
	return decodeRecord(payload)
}

func (r *Reader) Close() error {
	return r.src.Close()
}

// Restore rebuilds a vector from the log at file. The first record must
// be OpCreate.
func Restore(file string) (*vector.Vector, error) {
	r, err := NewReader(file)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var v *vector.Vector
	err = r.Replay(func(rec Record) error {
		if v == nil {
			if rec.Op != OpCreate {
				return fmt.Errorf("%s: %w", file, pkgerrors.ErrMissingCreate)
			}
			v = vector.New(rec.Capacity)
			return nil
		}
		return Apply(v, rec)
	})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%s: %w", file, pkgerrors.ErrMissingCreate)
	}
	return v, nil
}
