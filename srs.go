package vrf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/kzg"
	"golang.org/x/crypto/sha3"
)

// SRS wraps the KZG structured reference string from the trusted setup
// ceremony. It is loaded once per instance and read-only afterwards, so it
// may be shared across concurrent provers and verifiers without locking.
type SRS struct {
	inner       kzg.SRS
	fingerprint [64]byte
}

// LoadSRS reads a ceremony output blob from path. The byte format is the
// KZG library's serialization and is treated as opaque here.
func LoadSRS(path string) (*SRS, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSRS, err)
	}
	return ParseSRS(blob)
}

// ParseSRS deserializes an SRS blob. The blob opens with a big-endian
// uint32 count of compressed G1 powers; the count is checked against the
// blob length before the deserializer is allowed to allocate for it.
func ParseSRS(blob []byte) (*SRS, error) {
	if len(blob) < 4 {
		return nil, fmt.Errorf("%w: %d byte blob", ErrSRS, len(blob))
	}
	declared := binary.BigEndian.Uint32(blob)
	if uint64(len(blob)-4) < uint64(declared)*g1CompressedSize {
		return nil, fmt.Errorf("%w: header declares %d G1 powers in a %d byte blob", ErrSRS, declared, len(blob))
	}
	s := &SRS{}
	if _, err := s.inner.ReadFrom(bytes.NewReader(blob)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSRS, err)
	}
	if len(s.inner.Pk.G1) < 2 {
		return nil, fmt.Errorf("%w: only %d G1 powers", ErrSRS, len(s.inner.Pk.G1))
	}
	s.fingerprint = sha3.Sum512(blob)
	trace("srs_loaded", "powers=%d fingerprint=%x", len(s.inner.Pk.G1), s.fingerprint[:8])
	return s, nil
}

// Capacity is the number of G1 powers, an upper bound (exclusive) on the
// degree of committable polynomials and hence on ring size + 1.
func (s *SRS) Capacity() int {
	return len(s.inner.Pk.G1)
}

// Fingerprint is the SHA3-512 digest of the serialized blob, for diagnostics
// and cross-instance comparison.
func (s *SRS) Fingerprint() []byte {
	out := make([]byte, len(s.fingerprint))
	copy(out, s.fingerprint[:])
	return out
}

func (s *SRS) WriteTo(w io.Writer) (int64, error) {
	return s.inner.WriteTo(w)
}

// NewInsecureSRS runs a local trusted setup with a known secret. Anyone who
// knows the secret can forge membership proofs, so this is for tests only;
// production instances must load a ceremony output.
func NewInsecureSRS(size uint64, secret *big.Int) (*SRS, error) {
	srs, err := kzg.NewSRS(size, secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSRS, err)
	}
	s := &SRS{inner: *srs}
	var buf bytes.Buffer
	if _, err := s.inner.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSRS, err)
	}
	s.fingerprint = sha3.Sum512(buf.Bytes())
	return s, nil
}
