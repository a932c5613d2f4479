// Package wire frames values on their way to a backing medium so that a
// truncated, foreign, or bit-rotted file is detected as corruption instead of
// being served as a message payload.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version      byte = 1
	kindRecord   byte = 1
	kindSnapshot byte = 2
)

var (
	ErrCorrupt = errors.New("flightstore: corrupt entry")
	magic4     = [...]byte{'F', 'L', 'T', 'S'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Record: magic(4) | ver(1) | kind(1=record) | mlen(u16 be) | meta(mlen) | vlen(u32 be) | payload(vlen)
//
// meta is an opaque envelope (fsstore stores CBOR there); payload is the
// stored value. Decode rejects trailing bytes: a record occupies its file
// exactly.
func EncodeRecord(meta, payload []byte) []byte {
	if len(meta) > 0xFFFF {
		panic("flightstore: record meta too large")
	}

	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 2 + len(meta) + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindRecord)

	var u4 [4]byte
	var u2 [2]byte

	binary.BigEndian.PutUint16(u2[:], uint16(len(meta)))
	buf.Write(u2[:])
	buf.Write(meta)

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])
	buf.Write(payload)

	return buf.Bytes()
}

func DecodeRecord(b []byte) (meta, payload []byte, err error) {
	const hdr = 4 + 1 + 1 + 2
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindRecord {
		return nil, nil, ErrCorrupt
	}

	off := 6

	mlen := int(binary.BigEndian.Uint16(b[off : off+2]))
	off += 2
	if mlen > len(b)-off {
		return nil, nil, ErrCorrupt
	}
	meta = b[off : off+mlen]
	off += mlen

	if off+4 > len(b) {
		return nil, nil, ErrCorrupt
	}
	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off { // exact fit; trailing junk is corruption
		return nil, nil, ErrCorrupt
	}

	return meta, b[off : off+vlen], nil
}

// Snapshot: magic(4) | ver(1) | kind(2=snapshot) | payload
//
// Wraps a whole-store snapshot (memory store persistence). The payload length
// is implicit; the snapshot is always read whole from its file.
func EncodeSnapshot(payload []byte) []byte {
	out := make([]byte, 0, 6+len(payload))
	out = append(out, magic4[:]...)
	out = append(out, version, kindSnapshot)
	return append(out, payload...)
}

func DecodeSnapshot(b []byte) ([]byte, error) {
	if len(b) < 6 || !hasMagic(b) || b[4] != version || b[5] != kindSnapshot {
		return nil, ErrCorrupt
	}
	return b[6:], nil
}
