package vrf

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSRSRoundTrip(t *testing.T) {
	assert := assert.New(t)

	srs := testSRS(t)
	var buf bytes.Buffer
	_, err := srs.WriteTo(&buf)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "srs.bin")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	loaded, err := LoadSRS(path)
	require.NoError(t, err)
	assert.Equal(srs.Capacity(), loaded.Capacity())
	assert.Equal(srs.Fingerprint(), loaded.Fingerprint())
}

func TestSRSSharedAcrossRings(t *testing.T) {
	assert := assert.New(t)

	srs := testSRS(t)
	sk := testSecretKey(t, 11)
	ringA, err := NewRing(srs, []*Point{sk.Public(), testSecretKey(t, 12).Public()})
	require.NoError(t, err)
	ringB, err := NewRing(srs, []*Point{sk.Public(), testSecretKey(t, 13).Public()})
	require.NoError(t, err)
	assert.NotEqual(ringA.Commitment(), ringB.Commitment())
}

func TestSRSErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := LoadSRS(filepath.Join(t.TempDir(), "missing.bin"))
	assert.ErrorIs(err, ErrSRS)

	_, err = ParseSRS([]byte("not an srs"))
	assert.ErrorIs(err, ErrSRS)

	_, err = ParseSRS([]byte{1, 2})
	assert.ErrorIs(err, ErrSRS)

	// a header declaring billions of powers must be rejected up front,
	// before the deserializer allocates for them
	huge := make([]byte, 64)
	huge[0], huge[1], huge[2], huge[3] = 0xff, 0xff, 0xff, 0xff
	_, err = ParseSRS(huge)
	assert.ErrorIs(err, ErrSRS)
}
