package wal

import (
	"encoding/binary"
	"os"
	"path/filepath"

	"github.com/twmb/murmur3"
)

// Writer appends framed records to a log file:
// uvarint payload length | payload | murmur3 sum32 of payload (LE).
type Writer struct {
	file string
	dest *os.File
	buf  []byte
}

func NewWriter(file string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return nil, err
	}

	dest, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &Writer{
		file: file,
		dest: dest,
	}, nil
}

func (w *Writer) Append(rec Record) error {
	payload := rec.encode(nil)

	w.buf = w.buf[:0]
	w.buf = binary.AppendUvarint(w.buf, uint64(len(payload)))
	w.buf = append(w.buf, payload...)
	w.buf = binary.LittleEndian.AppendUint32(w.buf, murmur3.Sum32(payload))
	_, err := w.dest.Write(w.buf)
	return err
}

func (w *Writer) Sync() error {
	return w.dest.Sync()
}

func (w *Writer) Path() string {
	return w.file
}

func (w *Writer) Close() error {
	return w.dest.Close()
}
