package vrf

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSecretKey(t *testing.T, b byte) *SecretKey {
	buf := make([]byte, ScalarSize)
	buf[0] = b
	sk, err := NewSecretKey(buf)
	require.NoError(t, err)
	return sk
}

func orderBytesLE() []byte {
	out := make([]byte, ScalarSize)
	raw := subgroupOrder.Bytes()
	for i := 0; i < len(raw); i++ {
		out[i] = raw[len(raw)-1-i]
	}
	return out
}

func TestPointCodecRoundTrip(t *testing.T) {
	assert := assert.New(t)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 64; i++ {
		buf := make([]byte, ScalarSize)
		rng.Read(buf[:ScalarSize-1])
		var s Scalar
		s.SetReduced(buf)
		p := new(Point).ScalarBaseMult(&s)

		enc := p.Bytes()
		assert.Len(enc, PointSize)
		dec, err := DecodePoint(enc)
		require.NoError(t, err)
		assert.True(dec.Equal(p))
		assert.Equal(enc, dec.Bytes())
	}
}

func TestDecodePointRejects(t *testing.T) {
	assert := assert.New(t)

	_, err := DecodePoint(nil)
	assert.ErrorIs(err, ErrPointDecode)
	_, err = DecodePoint(make([]byte, PointSize-1))
	assert.ErrorIs(err, ErrPointDecode)

	huge := make([]byte, PointSize)
	for i := range huge {
		huge[i] = 0xff
	}
	huge[PointSize-1] &= 0x7f
	_, err = DecodePoint(huge)
	assert.ErrorIs(err, ErrPointDecode)
}

func TestDecodeIdentityPoint(t *testing.T) {
	assert := assert.New(t)

	id := newIdentityPoint()
	assert.True(id.inSubgroup())
	dec, err := DecodePoint(id.Bytes())
	require.NoError(t, err)
	assert.True(dec.IsIdentity())
}

func TestScalarCanonicalEncoding(t *testing.T) {
	assert := assert.New(t)

	_, err := new(Scalar).SetCanonicalBytes(make([]byte, ScalarSize+1))
	assert.ErrorIs(err, ErrScalarRange)

	// the order itself is out of range, order-1 is the largest valid value
	_, err = new(Scalar).SetCanonicalBytes(orderBytesLE())
	assert.ErrorIs(err, ErrScalarRange)

	maxBytes := orderBytesLE()
	maxBytes[0]--
	s, err := new(Scalar).SetCanonicalBytes(maxBytes)
	require.NoError(t, err)
	assert.Equal(maxBytes, s.Bytes())
}

func TestScalarArithmetic(t *testing.T) {
	assert := assert.New(t)

	var a, b Scalar
	a.SetReduced([]byte{17, 4, 200})
	b.SetReduced([]byte{99, 1})

	var sum, back Scalar
	sum.Add(&a, &b)
	back.Add(&sum, new(Scalar).Neg(&b))
	assert.True(back.Equal(&a))

	var ab, ba Scalar
	ab.Mul(&a, &b)
	ba.Mul(&b, &a)
	assert.True(ab.Equal(&ba))
}

func TestBlindingBaseIndependent(t *testing.T) {
	assert := assert.New(t)

	bb := BlindingBasePoint()
	assert.False(bb.IsIdentity())
	assert.False(bb.Equal(BasePoint()))

	dec, err := DecodePoint(bb.Bytes())
	require.NoError(t, err)
	assert.True(dec.Equal(bb))
}
