package vrf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSecretKey(t *testing.T) {
	assert := assert.New(t)

	_, err := NewSecretKey(make([]byte, ScalarSize))
	assert.ErrorIs(err, ErrScalarRange)

	_, err = NewSecretKey(make([]byte, ScalarSize-1))
	assert.ErrorIs(err, ErrScalarRange)

	_, err = NewSecretKey(orderBytesLE())
	assert.ErrorIs(err, ErrScalarRange)

	buf := make([]byte, ScalarSize)
	buf[0] = 42
	sk, err := NewSecretKey(buf)
	require.NoError(t, err)
	assert.Equal(buf, sk.Bytes())
	assert.False(sk.Public().IsIdentity())
}

func TestPublicKeyDeterministic(t *testing.T) {
	assert := assert.New(t)

	sk := testSecretKey(t, 42)
	assert.True(sk.Public().Equal(sk.Public()))
	assert.False(sk.Public().Equal(testSecretKey(t, 43).Public()))
}
