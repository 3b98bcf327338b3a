package vrf

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/bandersnatch"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

const (
	VRF_SUITE_DOMAIN_TAG     = "Bandersnatch_SHA-512_ELL2"
	HASH_TO_CURVE_DOMAIN_TAG = VRF_SUITE_DOMAIN_TAG + "_hash_to_curve"
	BLINDING_BASE_DOMAIN_TAG = VRF_SUITE_DOMAIN_TAG + "_blinding_base"

	PEDERSEN_NONCE_DOMAIN_TAG = "pedersen_blinding_nonce"
	PEDERSEN_BLIND_DOMAIN_TAG = "pedersen_blinding_factor"

	RING_EMBED_DOMAIN_TAG     = VRF_SUITE_DOMAIN_TAG + "_ring_member"
	RING_BLIND_DOMAIN_TAG     = "ring_slot_blinding"
	RING_POK_KEY_DOMAIN_TAG   = "ring_slot_pok_key_nonce"
	RING_POK_BLIND_DOMAIN_TAG = "ring_slot_pok_blind_nonce"
	RING_PROOF_DOMAIN_TAG     = "bandersnatch-ring-proof"
	RING_H2_DST               = VRF_SUITE_DOMAIN_TAG + "_RO_G2"
)

const (
	// PointSize is the compressed wire size of a curve point.
	PointSize = 32
	// ScalarSize is the canonical little-endian wire size of a scalar.
	ScalarSize = 32
)

var (
	edwards = bandersnatch.GetEdwardsCurve()

	// subgroupOrder is the prime order of the Bandersnatch subgroup, the
	// scalar field of the VRF.
	subgroupOrder = new(big.Int).Set(&edwards.Order)

	// baseFieldModulus is the BLS12-381 scalar field modulus, the field the
	// curve coordinates live in.
	baseFieldModulus = fr.Modulus()

	basePoint = &Point{inner: edwards.Base}

	// blindingBase is the second, independent Pedersen base. Hash-derived
	// from the generator so no discrete-log relation to it is known.
	blindingBase = deriveBlindingBase()
)

func deriveBlindingBase() *Point {
	seed := append([]byte(BLINDING_BASE_DOMAIN_TAG), basePoint.Bytes()...)
	return HashToCurve(seed)
}

// BasePoint returns a copy of the fixed generator G.
func BasePoint() *Point {
	return new(Point).Set(basePoint)
}

// BlindingBasePoint returns a copy of the Pedersen blinding base B.
func BlindingBasePoint() *Point {
	return new(Point).Set(blindingBase)
}

// Point is a point on the Bandersnatch prime-order subgroup. Arithmetic
// methods write into the receiver and return it, so expressions chain the
// way the curve library's own API does.
type Point struct {
	inner bandersnatch.PointAffine
}

func newIdentityPoint() *Point {
	var p Point
	p.inner.X.SetZero()
	p.inner.Y.SetOne()
	return &p
}

func (p *Point) Set(a *Point) *Point {
	p.inner.Set(&a.inner)
	return p
}

func (p *Point) Add(a, b *Point) *Point {
	p.inner.Add(&a.inner, &b.inner)
	return p
}

func (p *Point) Neg(a *Point) *Point {
	p.inner.Neg(&a.inner)
	return p
}

func (p *Point) ScalarMult(a *Point, s *Scalar) *Point {
	p.inner.ScalarMultiplication(&a.inner, &s.v)
	return p
}

func (p *Point) ScalarBaseMult(s *Scalar) *Point {
	return p.ScalarMult(basePoint, s)
}

func (p *Point) Equal(a *Point) bool {
	return p.inner.Equal(&a.inner)
}

func (p *Point) IsIdentity() bool {
	return p.inner.X.IsZero() && p.inner.Y.IsOne()
}

func (p *Point) isOnCurve() bool {
	return p.inner.IsOnCurve()
}

func (p *Point) inSubgroup() bool {
	// the GLV multiplier wants a reduced scalar, and order*identity does
	// not come back as the identity under it
	if p.IsIdentity() {
		return true
	}
	var q bandersnatch.PointAffine
	q.ScalarMultiplication(&p.inner, subgroupOrder)
	return q.X.IsZero() && q.Y.IsOne()
}

// Bytes returns the canonical compressed encoding: the y coordinate in
// little-endian with the sign of x stored in the top bit of the last byte.
func (p *Point) Bytes() []byte {
	yb := p.inner.Y.Bytes()
	out := make([]byte, PointSize)
	for i := 0; i < PointSize; i++ {
		out[i] = yb[PointSize-1-i]
	}
	if isOddFieldElement(&p.inner.X) {
		out[PointSize-1] |= 0x80
	}
	return out
}

// DecodePoint parses a compressed point, rejecting non-canonical field
// encodings, off-curve points and points outside the prime-order subgroup.
func DecodePoint(buf []byte) (*Point, error) {
	if len(buf) != PointSize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrPointDecode, PointSize, len(buf))
	}
	raw := make([]byte, PointSize)
	for i := 0; i < PointSize; i++ {
		raw[i] = buf[PointSize-1-i]
	}
	xOdd := raw[0]&0x80 != 0
	raw[0] &= 0x7f

	yInt := new(big.Int).SetBytes(raw)
	if yInt.Cmp(baseFieldModulus) >= 0 {
		return nil, fmt.Errorf("%w: y coordinate not canonical", ErrPointDecode)
	}
	var y fr.Element
	y.SetBigInt(yInt)

	// a*x^2 + y^2 = 1 + d*x^2*y^2  =>  x^2 = (y^2 - 1) / (d*y^2 - a)
	var one, y2, num, den, x2, x fr.Element
	one.SetOne()
	y2.Square(&y)
	num.Sub(&y2, &one)
	den.Mul(&edwards.D, &y2)
	den.Sub(&den, &edwards.A)
	if den.IsZero() {
		return nil, fmt.Errorf("%w: degenerate y coordinate", ErrPointDecode)
	}
	den.Inverse(&den)
	x2.Mul(&num, &den)
	if x.Sqrt(&x2) == nil {
		return nil, fmt.Errorf("%w: not a curve point", ErrPointDecode)
	}
	if isOddFieldElement(&x) != xOdd {
		x.Neg(&x)
	}
	if isOddFieldElement(&x) != xOdd {
		// x == 0 with the sign bit set
		return nil, fmt.Errorf("%w: invalid sign bit", ErrPointDecode)
	}

	var p Point
	p.inner.X.Set(&x)
	p.inner.Y.Set(&y)
	if !p.isOnCurve() {
		return nil, fmt.Errorf("%w: not a curve point", ErrPointDecode)
	}
	if !p.inSubgroup() {
		return nil, fmt.Errorf("%w: not in the prime-order subgroup", ErrPointDecode)
	}
	return &p, nil
}

func isOddFieldElement(e *fr.Element) bool {
	var v big.Int
	e.BigInt(&v)
	return v.Bit(0) == 1
}

// Scalar is an element of the Bandersnatch subgroup scalar field. Canonical
// wire form is 32 bytes little-endian; values at or above the order are
// rejected, never wrapped.
type Scalar struct {
	v big.Int
}

func (s *Scalar) Set(a *Scalar) *Scalar {
	s.v.Set(&a.v)
	return s
}

func (s *Scalar) Add(a, b *Scalar) *Scalar {
	s.v.Add(&a.v, &b.v)
	s.v.Mod(&s.v, subgroupOrder)
	return s
}

func (s *Scalar) Mul(a, b *Scalar) *Scalar {
	s.v.Mul(&a.v, &b.v)
	s.v.Mod(&s.v, subgroupOrder)
	return s
}

func (s *Scalar) Neg(a *Scalar) *Scalar {
	s.v.Neg(&a.v)
	s.v.Mod(&s.v, subgroupOrder)
	return s
}

// SetReduced interprets buf as a little-endian integer of any length and
// reduces it modulo the subgroup order.
func (s *Scalar) SetReduced(buf []byte) *Scalar {
	s.v.SetBytes(reverseBytes(buf))
	s.v.Mod(&s.v, subgroupOrder)
	return s
}

// SetCanonicalBytes parses a canonical 32-byte little-endian scalar.
func (s *Scalar) SetCanonicalBytes(buf []byte) (*Scalar, error) {
	if len(buf) != ScalarSize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrScalarRange, ScalarSize, len(buf))
	}
	s.v.SetBytes(reverseBytes(buf))
	if s.v.Cmp(subgroupOrder) >= 0 {
		return nil, fmt.Errorf("%w: value not below the subgroup order", ErrScalarRange)
	}
	return s, nil
}

func (s *Scalar) Bytes() []byte {
	out := make([]byte, ScalarSize)
	raw := s.v.Bytes()
	for i := 0; i < len(raw); i++ {
		out[i] = raw[len(raw)-1-i]
	}
	return out
}

func (s *Scalar) Equal(a *Scalar) bool {
	return s.v.Cmp(&a.v) == 0
}

func (s *Scalar) IsZero() bool {
	return s.v.Sign() == 0
}

func (s *Scalar) BigInt() *big.Int {
	return new(big.Int).Set(&s.v)
}

func reverseBytes(buf []byte) []byte {
	out := make([]byte, len(buf))
	for i := 0; i < len(buf); i++ {
		out[i] = buf[len(buf)-1-i]
	}
	return out
}
