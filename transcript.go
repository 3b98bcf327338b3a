package vrf

import (
	"encoding/binary"

	"github.com/gtank/merlin"
)

func initialTranscript(label string) *merlin.Transcript {
	return merlin.NewTranscript(label)
}

func appendBytes(label, data []byte, t *merlin.Transcript) {
	t.AppendMessage(label, data)
}

func appendInt64(label string, v uint64, t *merlin.Transcript) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	t.AppendMessage([]byte(label), buf[:])
}

// ringTranscript starts the Fiat-Shamir transcript of the ring membership
// component, bound to the ring commitment, the blinded key commitment and
// the auxiliary data. Prover and verifier must drive it identically.
func ringTranscript(commitment, pkCommitment, ad []byte) *merlin.Transcript {
	t := initialTranscript(RING_PROOF_DOMAIN_TAG)
	appendBytes([]byte("ring_commitment"), commitment, t)
	appendBytes([]byte("pk_commitment"), pkCommitment, t)
	appendBytes([]byte("aux"), ad, t)
	return t
}
