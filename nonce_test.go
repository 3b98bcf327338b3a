package vrf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNonceDeterministic(t *testing.T) {
	assert := assert.New(t)

	sk := testSecretKey(t, 9)
	point := HashToCurve([]byte("input")).Bytes()

	a := NonceRFC8032(sk.Bytes(), point)
	b := NonceRFC8032(sk.Bytes(), point)
	assert.True(a.Equal(b))
	assert.Equal(a.Bytes(), b.Bytes())
	assert.Len(a.Bytes(), ScalarSize)
}

func TestNonceVariesWithInputPoint(t *testing.T) {
	assert := assert.New(t)

	sk := testSecretKey(t, 9)
	seen := make(map[string]bool)
	for _, msg := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		point := HashToCurve([]byte(msg)).Bytes()
		key := string(NonceRFC8032(sk.Bytes(), point).Bytes())
		assert.False(seen[key])
		seen[key] = true
	}
}

func TestNonceVariesWithKey(t *testing.T) {
	assert := assert.New(t)

	point := HashToCurve([]byte("input")).Bytes()
	a := NonceRFC8032(testSecretKey(t, 9).Bytes(), point)
	b := NonceRFC8032(testSecretKey(t, 10).Bytes(), point)
	assert.False(a.Equal(b))
}

func TestDeriveScalarDomainSeparated(t *testing.T) {
	assert := assert.New(t)

	sk := testSecretKey(t, 9)
	point := HashToCurve([]byte("input")).Bytes()

	nonce := NonceRFC8032(sk.Bytes(), point)
	kb := deriveScalar(sk.Bytes(), PEDERSEN_NONCE_DOMAIN_TAG, point)
	blind := deriveScalar(sk.Bytes(), PEDERSEN_BLIND_DOMAIN_TAG, point)
	assert.False(nonce.Equal(kb))
	assert.False(nonce.Equal(blind))
	assert.False(kb.Equal(blind))
}
