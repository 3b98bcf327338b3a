package vrf

import (
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/kzg"
	"github.com/dchest/blake2b"
)

const (
	g1CompressedSize = bls12381.SizeOfG1AffineCompressed
	g2CompressedSize = bls12381.SizeOfG2AffineCompressed

	// MembershipProofSize is the wire size of the KZG membership component:
	// witness commitment || blinded slot || slot blind || knowledge
	// commitment || two knowledge responses || opening || value.
	MembershipProofSize = 3*g1CompressedSize + 2*g2CompressedSize + 3*ScalarSize

	// RingResultSize is the wire size of a serialized ring VRF result:
	// gamma || pedersen proof || membership proof || ring commitment.
	RingResultSize = PointSize + PedersenProofSize + MembershipProofSize + g1CompressedSize
)

// RingEngine is the prove/verify capability set behind the ring scheme,
// selected per ring by the caller. The in-process reference engine is the
// default; an alternate compiled engine must produce byte-identical
// serializations and identical accept/reject behavior.
type RingEngine interface {
	Prove(r *Ring, sk *SecretKey, input, ad []byte) (*RingResult, error)
	Verify(r *Ring, input []byte, res *RingResult, ad []byte) (bool, error)
}

type RingOption func(*Ring)

// WithEngine selects an alternate ring engine.
func WithEngine(e RingEngine) RingOption {
	return func(r *Ring) { r.engine = e }
}

// Ring is an ordered, duplicate-tolerant sequence of public keys together
// with its KZG commitment. The commitment is a pure function of the key
// sequence and the SRS, computed once at construction and frozen; a Ring is
// safe for concurrent use afterwards.
type Ring struct {
	srs         *SRS
	keys        []*Point
	embeddings  []fr.Element
	annihilator []fr.Element
	commitment  kzg.Digest
	engine      RingEngine
}

// NewRing embeds every member key into the base field, builds the ring's
// annihilator polynomial A(X) = prod_j (X - u_j) and commits to it.
func NewRing(srs *SRS, keys []*Point, opts ...RingOption) (*Ring, error) {
	if srs == nil {
		return nil, fmt.Errorf("%w: nil srs", ErrSRS)
	}
	if len(keys) == 0 {
		return nil, ErrEmptyRing
	}
	if srs.Capacity() < len(keys)+1 {
		return nil, fmt.Errorf("%w: %d G1 powers for a ring of %d", ErrSRS, srs.Capacity(), len(keys))
	}
	r := &Ring{
		srs:    srs,
		keys:   make([]*Point, len(keys)),
		engine: referenceEngine{},
	}
	r.embeddings = make([]fr.Element, len(keys))
	for i, k := range keys {
		if k == nil || k.IsIdentity() {
			return nil, fmt.Errorf("%w: ring member %d", ErrIdentityPoint, i)
		}
		r.keys[i] = new(Point).Set(k)
		r.embeddings[i] = embedRingKey(k.Bytes())
	}
	r.annihilator = annihilatorPolynomial(r.embeddings)
	commitment, err := kzg.Commit(r.annihilator, srs.inner.Pk)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSRS, err)
	}
	r.commitment = commitment
	for _, opt := range opts {
		opt(r)
	}
	trace("ring_committed", "size=%d", len(keys))
	return r, nil
}

func (r *Ring) Size() int {
	return len(r.keys)
}

// Commitment returns the compressed KZG commitment of the ring.
func (r *Ring) Commitment() []byte {
	b := r.commitment.Bytes()
	return b[:]
}

func (r *Ring) Prove(sk *SecretKey, input, ad []byte) (*RingResult, error) {
	return r.engine.Prove(r, sk, input, ad)
}

func (r *Ring) Verify(input []byte, res *RingResult, ad []byte) (bool, error) {
	return r.engine.Verify(r, input, res, ad)
}

// VerifyBytes deserializes and verifies in one step, keeping the structural
// error channel distinct from the boolean verdict.
func (r *Ring) VerifyBytes(input, serialized, ad []byte) (bool, error) {
	res, err := DecodeRingResult(serialized)
	if err != nil {
		return false, err
	}
	return r.Verify(input, res, ad)
}

// MembershipProof attests that the blinded key commitment of the Pedersen
// component belongs to some member of the committed ring. Witness commits to
// the quotient A(X)/(X - u) for the prover's embedded key u; Slot carries
// [u]G2 blinded by a transcript-derived G2 generator, so the member index is
// information-theoretically hidden; Blind is the matching pairing
// correction. PokCommit/PokU/PokB are a Schnorr proof of knowledge of a
// representation (u, g) of Slot over the bases (G2, H2): without it a
// verifier cannot tell a blinded root slot from an arbitrary G2 element
// chosen to make the pairing product telescope. Opening binds Witness to a
// bounded-degree polynomial at the transcript evaluation point.
type MembershipProof struct {
	Witness   kzg.Digest
	Slot      bls12381.G2Affine
	Blind     bls12381.G1Affine
	PokCommit bls12381.G2Affine
	PokU      fr.Element
	PokB      fr.Element
	Opening   kzg.OpeningProof
}

func (m *MembershipProof) Bytes() []byte {
	out := make([]byte, 0, MembershipProofSize)
	w := m.Witness.Bytes()
	out = append(out, w[:]...)
	s := m.Slot.Bytes()
	out = append(out, s[:]...)
	b := m.Blind.Bytes()
	out = append(out, b[:]...)
	pc := m.PokCommit.Bytes()
	out = append(out, pc[:]...)
	pu := m.PokU.Bytes()
	out = append(out, pu[:]...)
	pb := m.PokB.Bytes()
	out = append(out, pb[:]...)
	h := m.Opening.H.Bytes()
	out = append(out, h[:]...)
	v := m.Opening.ClaimedValue.Bytes()
	out = append(out, v[:]...)
	return out
}

func decodeMembershipProof(buf []byte) (*MembershipProof, error) {
	if len(buf) != MembershipProofSize {
		return nil, fmt.Errorf("%w: membership proof wants %d bytes, got %d", ErrProofLength, MembershipProofSize, len(buf))
	}
	m := &MembershipProof{}
	off := 0
	if _, err := m.Witness.SetBytes(buf[off : off+g1CompressedSize]); err != nil {
		return nil, fmt.Errorf("%w: witness commitment: %v", ErrPointDecode, err)
	}
	off += g1CompressedSize
	if _, err := m.Slot.SetBytes(buf[off : off+g2CompressedSize]); err != nil {
		return nil, fmt.Errorf("%w: blinded slot: %v", ErrPointDecode, err)
	}
	off += g2CompressedSize
	if _, err := m.Blind.SetBytes(buf[off : off+g1CompressedSize]); err != nil {
		return nil, fmt.Errorf("%w: slot blind: %v", ErrPointDecode, err)
	}
	off += g1CompressedSize
	if _, err := m.PokCommit.SetBytes(buf[off : off+g2CompressedSize]); err != nil {
		return nil, fmt.Errorf("%w: knowledge commitment: %v", ErrPointDecode, err)
	}
	off += g2CompressedSize
	if err := m.PokU.SetBytesCanonical(buf[off : off+ScalarSize]); err != nil {
		return nil, fmt.Errorf("%w: knowledge response: %v", ErrScalarRange, err)
	}
	off += ScalarSize
	if err := m.PokB.SetBytesCanonical(buf[off : off+ScalarSize]); err != nil {
		return nil, fmt.Errorf("%w: knowledge response: %v", ErrScalarRange, err)
	}
	off += ScalarSize
	if _, err := m.Opening.H.SetBytes(buf[off : off+g1CompressedSize]); err != nil {
		return nil, fmt.Errorf("%w: opening quotient: %v", ErrPointDecode, err)
	}
	off += g1CompressedSize
	if err := m.Opening.ClaimedValue.SetBytesCanonical(buf[off:]); err != nil {
		return nil, fmt.Errorf("%w: claimed value: %v", ErrScalarRange, err)
	}
	return m, nil
}

// RingResult is the joint output of a ring VRF evaluation: the output point,
// the Pedersen component and the membership component, which share the
// challenge derived from the blinded key commitment, plus the ring
// commitment the proof was made against.
type RingResult struct {
	Gamma      *Point
	Pedersen   *PedersenProof
	Membership *MembershipProof
	Commitment kzg.Digest
}

// Output returns the final pseudorandom bytes. Identical to the IETF and
// Pedersen outputs for the same key and input.
func (res *RingResult) Output() []byte {
	return PointToHashRFC9381(res.Gamma.Bytes())
}

func (res *RingResult) Bytes() []byte {
	out := make([]byte, 0, RingResultSize)
	out = append(out, res.Gamma.Bytes()...)
	out = append(out, res.Pedersen.Bytes()...)
	out = append(out, res.Membership.Bytes()...)
	c := res.Commitment.Bytes()
	out = append(out, c[:]...)
	return out
}

// DecodeRingResult parses the fixed 672-byte layout, rejecting malformed
// encodings before any pairing work.
func DecodeRingResult(buf []byte) (*RingResult, error) {
	if len(buf) != RingResultSize {
		return nil, fmt.Errorf("%w: ring result wants %d bytes, got %d", ErrProofLength, RingResultSize, len(buf))
	}
	gamma, err := DecodePoint(buf[:PointSize])
	if err != nil {
		return nil, err
	}
	ped, err := DecodePedersenProof(buf[PointSize : PointSize+PedersenProofSize])
	if err != nil {
		return nil, err
	}
	mem, err := decodeMembershipProof(buf[PointSize+PedersenProofSize : RingResultSize-g1CompressedSize])
	if err != nil {
		return nil, err
	}
	res := &RingResult{Gamma: gamma, Pedersen: ped, Membership: mem}
	if _, err := res.Commitment.SetBytes(buf[RingResultSize-g1CompressedSize:]); err != nil {
		return nil, fmt.Errorf("%w: ring commitment: %v", ErrPointDecode, err)
	}
	return res, nil
}

// referenceEngine is the in-process ring engine.
type referenceEngine struct{}

func (referenceEngine) Prove(r *Ring, sk *SecretKey, input, ad []byte) (*RingResult, error) {
	gamma, ped, _, err := PedersenProve(sk, input, ad)
	if err != nil {
		return nil, err
	}
	u := embedRingKey(sk.Public().Bytes())
	member := false
	for i := range r.embeddings {
		if r.embeddings[i].Equal(&u) {
			member = true
			break
		}
	}
	if !member {
		return nil, ErrNotInRing
	}

	witness, rem := divideByLinear(r.annihilator, &u)
	if !rem.IsZero() {
		return nil, ErrNotInRing
	}
	witnessCommitment, err := kzg.Commit(witness, r.srs.inner.Pk)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSRS, err)
	}

	yBarBytes := ped.YBar.Bytes()
	t := ringTranscript(r.Commitment(), yBarBytes, ad)
	appendInt64("ring_size", uint64(len(r.keys)), t)
	slotGen, err := bls12381.HashToG2(t.ExtractBytes([]byte("slot_generator"), 64), []byte(RING_H2_DST))
	if err != nil {
		return nil, err
	}

	bind := bindFields(yBarBytes, input, ad, r.Commitment())
	blindExp := deriveBaseFieldScalar(sk.Bytes(), RING_BLIND_DOMAIN_TAG, bind)
	var uInt big.Int
	u.BigInt(&uInt)

	var slot, tG2 bls12381.G2Affine
	slot.ScalarMultiplication(&r.srs.inner.Vk.G2[0], &uInt)
	tG2.ScalarMultiplication(&slotGen, blindExp)
	slot.Add(&slot, &tG2)

	var blind bls12381.G1Affine
	blind.ScalarMultiplication(&witnessCommitment, blindExp)

	// Schnorr proof of knowledge of (u, blindExp) for slot over (G2, H2)
	ru := deriveBaseFieldScalar(sk.Bytes(), RING_POK_KEY_DOMAIN_TAG, bind)
	rb := deriveBaseFieldScalar(sk.Bytes(), RING_POK_BLIND_DOMAIN_TAG, bind)
	var pokCommit bls12381.G2Affine
	pokCommit.ScalarMultiplication(&r.srs.inner.Vk.G2[0], ru)
	tG2.ScalarMultiplication(&slotGen, rb)
	pokCommit.Add(&pokCommit, &tG2)

	wb := witnessCommitment.Bytes()
	sb := slot.Bytes()
	bb := blind.Bytes()
	pcb := pokCommit.Bytes()
	appendBytes([]byte("witness"), wb[:], t)
	appendBytes([]byte("slot"), sb[:], t)
	appendBytes([]byte("slot_blind"), bb[:], t)
	appendBytes([]byte("slot_pok"), pcb[:], t)
	c := fieldElementFromWide(t.ExtractBytes([]byte("pok_challenge"), 64))
	var cInt big.Int
	c.BigInt(&cInt)

	zu := new(big.Int).Mul(&cInt, &uInt)
	zu.Add(zu, ru)
	zu.Mod(zu, baseFieldModulus)
	zb := new(big.Int).Mul(&cInt, blindExp)
	zb.Add(zb, rb)
	zb.Mod(zb, baseFieldModulus)
	var pokU, pokB fr.Element
	pokU.SetBigInt(zu)
	pokB.SetBigInt(zb)

	pub := pokU.Bytes()
	pbb := pokB.Bytes()
	appendBytes([]byte("pok_response_u"), pub[:], t)
	appendBytes([]byte("pok_response_b"), pbb[:], t)
	z := fieldElementFromWide(t.ExtractBytes([]byte("eval_point"), 64))

	opening, err := kzg.Open(witness, z, r.srs.inner.Pk)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSRS, err)
	}

	return &RingResult{
		Gamma:    gamma,
		Pedersen: ped,
		Membership: &MembershipProof{
			Witness:   witnessCommitment,
			Slot:      slot,
			Blind:     blind,
			PokCommit: pokCommit,
			PokU:      pokU,
			PokB:      pokB,
			Opening:   opening,
		},
		Commitment: r.commitment,
	}, nil
}

func (referenceEngine) Verify(r *Ring, input []byte, res *RingResult, ad []byte) (bool, error) {
	if res == nil || res.Gamma == nil || res.Pedersen == nil || res.Membership == nil {
		return false, fmt.Errorf("%w: incomplete ring result", ErrProofLength)
	}
	// The commitment embedded in the proof must match the one recomputed
	// from the supplied ring; the membership check below is then made
	// against the recomputed commitment.
	if !res.Commitment.Equal(&r.commitment) {
		trace("ring_verify", "commitment mismatch")
		return false, nil
	}

	pedOK, err := PedersenVerify(input, res.Gamma, res.Pedersen, ad)
	if err != nil {
		return false, err
	}

	t := ringTranscript(r.Commitment(), res.Pedersen.YBar.Bytes(), ad)
	appendInt64("ring_size", uint64(len(r.keys)), t)
	slotGen, err := bls12381.HashToG2(t.ExtractBytes([]byte("slot_generator"), 64), []byte(RING_H2_DST))
	if err != nil {
		return false, err
	}
	wb := res.Membership.Witness.Bytes()
	sb := res.Membership.Slot.Bytes()
	bb := res.Membership.Blind.Bytes()
	pcb := res.Membership.PokCommit.Bytes()
	appendBytes([]byte("witness"), wb[:], t)
	appendBytes([]byte("slot"), sb[:], t)
	appendBytes([]byte("slot_blind"), bb[:], t)
	appendBytes([]byte("slot_pok"), pcb[:], t)
	c := fieldElementFromWide(t.ExtractBytes([]byte("pok_challenge"), 64))

	// [z_u]G2 + [z_b]H2 == PokCommit + [c]Slot, the knowledge gate: an
	// arbitrary Slot with no known (u, g) representation stops here
	var cInt, zu, zb big.Int
	c.BigInt(&cInt)
	res.Membership.PokU.BigInt(&zu)
	res.Membership.PokB.BigInt(&zb)
	var lhs, rhs, tG2 bls12381.G2Affine
	lhs.ScalarMultiplication(&r.srs.inner.Vk.G2[0], &zu)
	tG2.ScalarMultiplication(&slotGen, &zb)
	lhs.Add(&lhs, &tG2)
	rhs.ScalarMultiplication(&res.Membership.Slot, &cInt)
	rhs.Add(&rhs, &res.Membership.PokCommit)
	if !lhs.Equal(&rhs) {
		trace("ring_verify", "slot knowledge rejected")
		return false, nil
	}

	pub := res.Membership.PokU.Bytes()
	pbb := res.Membership.PokB.Bytes()
	appendBytes([]byte("pok_response_u"), pub[:], t)
	appendBytes([]byte("pok_response_b"), pbb[:], t)
	z := fieldElementFromWide(t.ExtractBytes([]byte("eval_point"), 64))

	if err := kzg.Verify(&res.Membership.Witness, &res.Membership.Opening, z, r.srs.inner.Vk); err != nil {
		trace("ring_verify", "witness opening rejected: %v", err)
		return false, nil
	}

	// e(C_W, [tau]G2 - Slot) * e(Blind, H2) * e(-C_A, G2) == 1
	var tauMinusSlot bls12381.G2Affine
	tauMinusSlot.Neg(&res.Membership.Slot)
	tauMinusSlot.Add(&tauMinusSlot, &r.srs.inner.Vk.G2[1])
	var negCommitment bls12381.G1Affine
	negCommitment.Neg(&r.commitment)

	memberOK, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{res.Membership.Witness, res.Membership.Blind, negCommitment},
		[]bls12381.G2Affine{tauMinusSlot, slotGen, r.srs.inner.Vk.G2[0]},
	)
	if err != nil {
		return false, err
	}

	trace("ring_verify", "pedersen=%v membership=%v", pedOK, memberOK)
	return pedOK && memberOK, nil
}

// embedRingKey maps a compressed public key into the base field under a
// domain tag. The embedding is where ring membership is decided, so two
// distinct keys colliding here would merge their ring slots; with a 512-bit
// digest that is negligible.
func embedRingKey(pointBytes []byte) fr.Element {
	h := blake2b.New512()
	h.Write([]byte(RING_EMBED_DOMAIN_TAG))
	h.Write(pointBytes)
	v := new(big.Int).SetBytes(h.Sum(nil))
	v.Mod(v, baseFieldModulus)
	var e fr.Element
	e.SetBigInt(v)
	return e
}

// annihilatorPolynomial multiplies out prod_j (X - u_j), coefficients in
// ascending order, leading coefficient one.
func annihilatorPolynomial(roots []fr.Element) []fr.Element {
	coeffs := make([]fr.Element, 1, len(roots)+1)
	coeffs[0].SetOne()
	for i := range roots {
		next := make([]fr.Element, len(coeffs)+1)
		for j := range coeffs {
			var t fr.Element
			t.Mul(&coeffs[j], &roots[i])
			next[j].Sub(&next[j], &t)
			next[j+1].Add(&next[j+1], &coeffs[j])
		}
		coeffs = next
	}
	return coeffs
}

// divideByLinear computes A(X) / (X - u) by synthetic division, returning
// the quotient and the remainder A(u).
func divideByLinear(a []fr.Element, u *fr.Element) ([]fr.Element, fr.Element) {
	n := len(a) - 1
	w := make([]fr.Element, n)
	w[n-1].Set(&a[n])
	for i := n - 2; i >= 0; i-- {
		var t fr.Element
		t.Mul(u, &w[i+1])
		w[i].Add(&a[i+1], &t)
	}
	var rem fr.Element
	rem.Mul(u, &w[0])
	rem.Add(&rem, &a[0])
	return w, rem
}
