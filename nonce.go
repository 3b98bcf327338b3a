package vrf

import (
	"crypto/sha512"
	"encoding/binary"
	"math/big"
)

// NonceRFC8032 derives the proving nonce from the secret key bytes and an
// encoded input point: the second half of SHA-512(sk) is the hashing prefix,
// and the 64-byte digest of prefix || point is wide-reduced modulo the
// subgroup order. Identical inputs always yield the identical scalar, so
// proving needs no random source and a broken RNG cannot cause nonce reuse.
func NonceRFC8032(sk, pointBytes []byte) *Scalar {
	prefix := sha512.Sum512(sk)
	h := sha512.New()
	h.Write(prefix[32:])
	h.Write(pointBytes)
	return new(Scalar).SetReduced(h.Sum(nil))
}

// deriveScalar is the same discipline with an explicit domain tag, used for
// the Pedersen second nonce and the deterministic blinding factor.
func deriveScalar(sk []byte, tag string, msg []byte) *Scalar {
	prefix := sha512.Sum512(sk)
	h := sha512.New()
	h.Write(prefix[32:])
	h.Write([]byte(tag))
	h.Write(msg)
	return new(Scalar).SetReduced(h.Sum(nil))
}

// deriveBaseFieldScalar derives a BLS12-381 scalar-field exponent under the
// same key-prefix discipline, for the G2 slot blinding of the ring proof.
func deriveBaseFieldScalar(sk []byte, tag string, msg []byte) *big.Int {
	prefix := sha512.Sum512(sk)
	h := sha512.New()
	h.Write(prefix[32:])
	h.Write([]byte(tag))
	h.Write(msg)
	v := new(big.Int).SetBytes(h.Sum(nil))
	return v.Mod(v, baseFieldModulus)
}

// bindFields length-prefixes each field so distinct field sequences can
// never concatenate to the same message. Nonce derivations that feed a
// Fiat-Shamir transcript must bind exactly the fields the transcript binds,
// or two different statements could reuse a nonce under different
// challenges.
func bindFields(fields ...[]byte) []byte {
	var out []byte
	for _, f := range fields {
		var l [8]byte
		binary.LittleEndian.PutUint64(l[:], uint64(len(f)))
		out = append(out, l[:]...)
		out = append(out, f...)
	}
	return out
}
