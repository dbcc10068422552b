package wal

import (
	"encoding/binary"
	"fmt"

	"kvvec/internal/vector"
	pkgerrors "kvvec/pkg/errors"
)

// Op is a mutating vector operation recorded in the log.
type Op byte

const (
	OpCreate Op = iota + 1
	OpPush
	OpPop
	OpDelete
	OpSort
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpPush:
		return "push"
	case OpPop:
		return "pop"
	case OpDelete:
		return "delete"
	case OpSort:
		return "sort"
	}
	return fmt.Sprintf("op(%d)", byte(o))
}

// Record is one logged operation. Capacity is only set for OpCreate,
// Entry for OpPush, and Entry.Key for OpDelete.
type Record struct {
	Op       Op
	Capacity int
	Entry    vector.Entry
}

// encode appends the record payload (without framing) to dst.
func (r Record) encode(dst []byte) []byte {
	dst = append(dst, byte(r.Op))
	switch r.Op {
	case OpCreate:
		dst = binary.AppendUvarint(dst, uint64(r.Capacity))
	case OpPush:
		dst = binary.AppendVarint(dst, int64(r.Entry.Key))
		dst = binary.AppendVarint(dst, int64(r.Entry.Value))
	case OpDelete:
		dst = binary.AppendVarint(dst, int64(r.Entry.Key))
	}
	return dst
}

func decodeRecord(payload []byte) (Record, error) {
	if len(payload) == 0 {
		return Record{}, pkgerrors.ErrCorruptRecord
	}
	rec := Record{Op: Op(payload[0])}
	buf := payload[1:]

	readVarint := func() (int32, error) {
		v, n := binary.Varint(buf)
		if n <= 0 || v < -1<<31 || v > 1<<31-1 {
			return 0, pkgerrors.ErrCorruptRecord
		}
		buf = buf[n:]
		return int32(v), nil
	}

	var err error
	switch rec.Op {
	case OpCreate:
		c, n := binary.Uvarint(buf)
		if n <= 0 || c == 0 || c > 1<<31-1 {
			return Record{}, pkgerrors.ErrCorruptRecord
		}
		rec.Capacity = int(c)
		buf = buf[n:]
	case OpPush:
		if rec.Entry.Key, err = readVarint(); err != nil {
			return Record{}, err
		}
		if rec.Entry.Value, err = readVarint(); err != nil {
			return Record{}, err
		}
	case OpDelete:
		if rec.Entry.Key, err = readVarint(); err != nil {
			return Record{}, err
		}
	case OpPop, OpSort:
	default:
		return Record{}, fmt.Errorf("%w: %d", pkgerrors.ErrUnknownOp, payload[0])
	}
	if len(buf) != 0 {
		return Record{}, pkgerrors.ErrCorruptRecord
	}
	return rec, nil
}

// Apply replays rec against v. OpCreate is not valid here.
func Apply(v *vector.Vector, rec Record) error {
	switch rec.Op {
	case OpPush:
		v.PushBack(rec.Entry)
	case OpPop:
		v.PopBack()
	case OpDelete:
		v.DeleteByKey(rec.Entry.Key)
	case OpSort:
		v.SortByKeyThenValue()
	default:
		return fmt.Errorf("%w: %s", pkgerrors.ErrUnknownOp, rec.Op)
	}
	return nil
}
