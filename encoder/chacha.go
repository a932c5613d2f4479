package encoder

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// AEAD encrypts each segment with ChaCha20-Poly1305 under a fresh random
// nonce. Encoded segments are self-delimiting - u32 length | nonce |
// ciphertext - so Decode can split the stored concatenation back into
// segments and return the original plaintext concatenation.
//
// The same 32-byte key must be used to decode what was encoded; losing the
// key orphans everything persisted under it.
type AEAD struct {
	aead cipherAEAD
	rand io.Reader
}

// cipherAEAD is the subset of cipher.AEAD we use; narrowed for test seams.
type cipherAEAD interface {
	NonceSize() int
	Overhead() int
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
}

var ErrBadFrame = errors.New("encoder: malformed encrypted frame")

// NewAEAD constructs an AEAD encoder. key must be chacha20poly1305.KeySize
// (32) bytes.
func NewAEAD(key []byte) (*AEAD, error) {
	a, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	return &AEAD{aead: a, rand: rand.Reader}, nil
}

func (e *AEAD) Encode(segments [][]byte) ([][]byte, error) {
	out := make([][]byte, len(segments))
	for i, seg := range segments {
		ns := e.aead.NonceSize()
		frame := make([]byte, 4+ns, 4+ns+len(seg)+e.aead.Overhead())
		if _, err := io.ReadFull(e.rand, frame[4:4+ns]); err != nil {
			return nil, fmt.Errorf("encoder: nonce: %w", err)
		}
		frame = e.aead.Seal(frame, frame[4:4+ns], seg, nil)
		binary.BigEndian.PutUint32(frame[:4], uint32(len(frame)-4))
		out[i] = frame
	}
	return out, nil
}

func (e *AEAD) Decode(value []byte) ([]byte, error) {
	var out []byte
	ns := e.aead.NonceSize()
	for off := 0; off < len(value); {
		if off+4 > len(value) {
			return nil, ErrBadFrame
		}
		flen := int(binary.BigEndian.Uint32(value[off : off+4]))
		off += 4
		if flen < ns+e.aead.Overhead() || flen > len(value)-off {
			return nil, ErrBadFrame
		}
		nonce := value[off : off+ns]
		ct := value[off+ns : off+flen]
		pt, err := e.aead.Open(nil, nonce, ct, nil)
		if err != nil {
			return nil, fmt.Errorf("encoder: open: %w", err)
		}
		out = append(out, pt...)
		off += flen
	}
	if out == nil {
		out = []byte{}
	}
	return out, nil
}
