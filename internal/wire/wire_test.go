package wire

import (
	"bytes"
	"testing"
)

func mustDecodeRecord(t *testing.T, b []byte) ([]byte, []byte) {
	t.Helper()
	meta, p, err := DecodeRecord(b)
	if err != nil {
		t.Fatalf("DecodeRecord error: %v", err)
	}
	return meta, p
}

func TestRecordRTEmptyAndNonEmpty(t *testing.T) {
	cases := []struct {
		meta    []byte
		payload []byte
	}{
		{nil, nil},
		{[]byte("m"), []byte("hello")},
		{nil, []byte{0, 1, 2, 3, 4}},
		{bytes.Repeat([]byte{0xAB}, 300), bytes.Repeat([]byte{0xCD}, 1<<16)},
	}
	for _, tc := range cases {
		enc := EncodeRecord(tc.meta, tc.payload)
		meta, p := mustDecodeRecord(t, enc)
		if !bytes.Equal(meta, tc.meta) {
			t.Fatalf("meta mismatch: got %x want %x", meta, tc.meta)
		}
		if !bytes.Equal(p, tc.payload) {
			t.Fatalf("payload mismatch: got %x want %x", p, tc.payload)
		}
	}
}

func TestRecordRejectsTrailingBytes(t *testing.T) {
	enc := EncodeRecord(nil, []byte("x"))
	enc = append(enc, 0xDE, 0xAD) // add junk
	if _, _, err := DecodeRecord(enc); err == nil {
		t.Fatalf("expected error on trailing bytes")
	}
}

func TestRecordCorruptHeadersAndLengths(t *testing.T) {
	enc := EncodeRecord([]byte("meta"), []byte("abc"))

	cases := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"empty", func(b []byte) []byte { return nil }},
		{"short", func(b []byte) []byte { return b[:5] }},
		{"bad magic", func(b []byte) []byte { b[0] = 'X'; return b }},
		{"bad version", func(b []byte) []byte { b[4] = 0xFF; return b }},
		{"bad kind", func(b []byte) []byte { b[5] = kindSnapshot; return b }},
		{"meta len overruns", func(b []byte) []byte { b[6] = 0xFF; b[7] = 0xFF; return b }},
		{"truncated payload", func(b []byte) []byte { return b[:len(b)-1] }},
	}
	for _, tc := range cases {
		b := append([]byte(nil), enc...)
		if _, _, err := DecodeRecord(tc.mutate(b)); err == nil {
			t.Fatalf("%s: expected corruption error", tc.name)
		}
	}
}

func TestSnapshotRT(t *testing.T) {
	for _, payload := range [][]byte{nil, []byte("snapshot bytes")} {
		enc := EncodeSnapshot(payload)
		got, err := DecodeSnapshot(enc)
		if err != nil {
			t.Fatalf("DecodeSnapshot: %v", err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("payload mismatch: got %x want %x", got, payload)
		}
	}
}

func TestSnapshotRejectsRecordKind(t *testing.T) {
	enc := EncodeRecord(nil, []byte("abc"))
	if _, err := DecodeSnapshot(enc); err == nil {
		t.Fatalf("expected kind mismatch error")
	}
	if _, err := DecodeSnapshot([]byte("FLT")); err == nil {
		t.Fatalf("expected short-input error")
	}
}
