package encoder

import (
	"bytes"
	"testing"

	"golang.org/x/crypto/chacha20poly1305"
)

func testKey(b byte) []byte {
	return bytes.Repeat([]byte{b}, chacha20poly1305.KeySize)
}

func concat(segments [][]byte) []byte {
	var out []byte
	for _, s := range segments {
		out = append(out, s...)
	}
	return out
}

func TestAEADRoundTripMultiSegment(t *testing.T) {
	e, err := NewAEAD(testKey(1))
	if err != nil {
		t.Fatalf("NewAEAD: %v", err)
	}

	cases := [][][]byte{
		{[]byte("AB"), []byte("CDE")},
		{[]byte("single")},
		{[]byte{}, []byte("after-empty")},
		{bytes.Repeat([]byte{0xAA}, 4096)},
	}
	for _, segs := range cases {
		encoded, err := e.Encode(segs)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if len(encoded) != len(segs) {
			t.Fatalf("segment count changed: %d -> %d", len(segs), len(encoded))
		}

		// the store sees only the concatenation
		got, err := e.Decode(concat(encoded))
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if !bytes.Equal(got, concat(segs)) {
			t.Fatalf("round trip mismatch: got %q want %q", got, concat(segs))
		}
	}
}

func TestAEADCiphertextDiffersPerCall(t *testing.T) {
	e, _ := NewAEAD(testKey(1))
	a, _ := e.Encode([][]byte{[]byte("same input")})
	b, _ := e.Encode([][]byte{[]byte("same input")})
	if bytes.Equal(a[0], b[0]) {
		t.Fatalf("nonce reuse: identical ciphertexts")
	}
}

func TestAEADRejectsTamperAndWrongKey(t *testing.T) {
	e, _ := NewAEAD(testKey(1))
	encoded, _ := e.Encode([][]byte{[]byte("secret")})
	v := concat(encoded)

	tampered := append([]byte(nil), v...)
	tampered[len(tampered)-1] ^= 0x01
	if _, err := e.Decode(tampered); err == nil {
		t.Fatalf("tampered value decoded")
	}

	other, _ := NewAEAD(testKey(2))
	if _, err := other.Decode(v); err == nil {
		t.Fatalf("wrong key decoded")
	}
}

func TestAEADRejectsMalformedFrames(t *testing.T) {
	e, _ := NewAEAD(testKey(1))
	for _, v := range [][]byte{
		{0x00},                   // truncated length
		{0x00, 0x00, 0x00, 0x01}, // frame shorter than nonce+tag
		{0xFF, 0xFF, 0xFF, 0xFF, 0x00}, // length overruns input
	} {
		if _, err := e.Decode(v); err == nil {
			t.Fatalf("malformed frame %x decoded", v)
		}
	}
}

func TestAEADBadKeySize(t *testing.T) {
	if _, err := NewAEAD([]byte("short")); err == nil {
		t.Fatalf("expected key size error")
	}
}

func TestNopIsIdentity(t *testing.T) {
	var e Nop
	segs := [][]byte{[]byte("a"), []byte("bc")}
	out, err := e.Encode(segs)
	if err != nil || len(out) != 2 || !bytes.Equal(out[0], segs[0]) {
		t.Fatalf("Encode: %v %v", out, err)
	}
	v, err := e.Decode([]byte("abc"))
	if err != nil || !bytes.Equal(v, []byte("abc")) {
		t.Fatalf("Decode: %q %v", v, err)
	}
}

func TestLimitGuardsDecode(t *testing.T) {
	l := Limit{Inner: Nop{}, MaxDecode: 4}

	if _, err := l.Decode([]byte("1234")); err != nil {
		t.Fatalf("within limit: %v", err)
	}
	if _, err := l.Decode([]byte("12345")); err == nil {
		t.Fatalf("oversized value accepted")
	}

	// Encode passes through untouched
	out, err := l.Encode([][]byte{[]byte("longer than four")})
	if err != nil || len(out) != 1 {
		t.Fatalf("Encode: %v %v", out, err)
	}

	unlimited := Limit{Inner: Nop{}, MaxDecode: 0}
	if _, err := unlimited.Decode(bytes.Repeat([]byte{1}, 1<<20)); err != nil {
		t.Fatalf("disabled limit rejected value: %v", err)
	}
}
