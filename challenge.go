package vrf

import "crypto/sha512"

// ChallengeRFC9381 hashes an ordered sequence of compressed points and the
// auxiliary data into the Fiat-Shamir challenge scalar. The order of the
// points is part of the protocol: prover and verifier must pass the exact
// same sequence or the proof silently fails.
func ChallengeRFC9381(points [][]byte, ad []byte) *Scalar {
	h := sha512.New()
	h.Write([]byte(VRF_SUITE_DOMAIN_TAG))
	h.Write([]byte{0x02})
	for _, p := range points {
		h.Write(p)
	}
	h.Write(ad)
	h.Write([]byte{0x00})
	digest := h.Sum(nil)
	return new(Scalar).SetReduced(digest[:ScalarSize])
}

// PointToHashRFC9381 hashes a compressed VRF output point into the final
// 64 pseudorandom bytes consumed by applications.
func PointToHashRFC9381(pointBytes []byte) []byte {
	h := sha512.New()
	h.Write([]byte(VRF_SUITE_DOMAIN_TAG))
	h.Write([]byte{0x03})
	h.Write(pointBytes)
	h.Write([]byte{0x00})
	return h.Sum(nil)
}
