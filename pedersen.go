package vrf

import (
	"crypto/subtle"
	"fmt"
)

// PedersenProofSize is the wire size of a Pedersen proof:
// Y_bar || R || O_k || s || s_b, five 32-byte fields.
const PedersenProofSize = 3*PointSize + 2*ScalarSize

// PedersenProof hides the signer behind the commitment Y_bar = Y + b*B.
// The VRF output point is the same as the IETF scheme's; blinding changes
// the proof only.
type PedersenProof struct {
	YBar *Point
	R    *Point
	Ok   *Point
	S    *Scalar
	Sb   *Scalar
}

func (p *PedersenProof) Bytes() []byte {
	out := make([]byte, 0, PedersenProofSize)
	out = append(out, p.YBar.Bytes()...)
	out = append(out, p.R.Bytes()...)
	out = append(out, p.Ok.Bytes()...)
	out = append(out, p.S.Bytes()...)
	out = append(out, p.Sb.Bytes()...)
	return out
}

// DecodePedersenProof parses the fixed 160-byte layout. The length check and
// the point/scalar decoding run before any curve equation is touched.
func DecodePedersenProof(buf []byte) (*PedersenProof, error) {
	if len(buf) != PedersenProofSize {
		return nil, fmt.Errorf("%w: pedersen proof wants %d bytes, got %d", ErrProofLength, PedersenProofSize, len(buf))
	}
	yBar, err := DecodePoint(buf[:PointSize])
	if err != nil {
		return nil, err
	}
	if yBar.IsIdentity() {
		return nil, fmt.Errorf("%w: blinded key commitment", ErrIdentityPoint)
	}
	r, err := DecodePoint(buf[PointSize : 2*PointSize])
	if err != nil {
		return nil, err
	}
	ok, err := DecodePoint(buf[2*PointSize : 3*PointSize])
	if err != nil {
		return nil, err
	}
	s, err := new(Scalar).SetCanonicalBytes(buf[3*PointSize : 3*PointSize+ScalarSize])
	if err != nil {
		return nil, err
	}
	sb, err := new(Scalar).SetCanonicalBytes(buf[3*PointSize+ScalarSize:])
	if err != nil {
		return nil, err
	}
	return &PedersenProof{YBar: yBar, R: r, Ok: ok, S: s, Sb: sb}, nil
}

// PedersenProve evaluates the VRF and proves correctness against the blinded
// commitment Y_bar instead of the public key. The blinding factor is derived
// deterministically from the secret key and the input point and returned to
// the caller, who may disclose it to selectively de-anonymize the proof.
func PedersenProve(sk *SecretKey, input, ad []byte) (*Point, *PedersenProof, *Scalar, error) {
	if sk == nil {
		return nil, nil, nil, fmt.Errorf("%w: nil secret key", ErrScalarRange)
	}
	inputPoint := HashToCurve(input)
	ib := inputPoint.Bytes()
	gamma := new(Point).ScalarMult(inputPoint, &sk.scalar)

	blinding := deriveScalar(sk.Bytes(), PEDERSEN_BLIND_DOMAIN_TAG, ib)
	yBar := new(Point).ScalarMult(blindingBase, blinding)
	yBar.Add(yBar, sk.Public())

	k := NonceRFC8032(sk.Bytes(), ib)
	kb := deriveScalar(sk.Bytes(), PEDERSEN_NONCE_DOMAIN_TAG, ib)

	r := new(Point).ScalarBaseMult(k)
	var t Point
	t.ScalarMult(blindingBase, kb)
	r.Add(r, &t)
	okPoint := new(Point).ScalarMult(inputPoint, k)

	c := ChallengeRFC9381([][]byte{
		yBar.Bytes(),
		ib,
		gamma.Bytes(),
		r.Bytes(),
		okPoint.Bytes(),
	}, ad)

	s := new(Scalar).Mul(c, &sk.scalar)
	s.Add(s, k)
	sb := new(Scalar).Mul(c, blinding)
	sb.Add(sb, kb)

	proof := &PedersenProof{YBar: yBar, R: r, Ok: okPoint, S: s, Sb: sb}
	return gamma, proof, blinding, nil
}

// PedersenVerify checks both proof equations:
//
//	theta0: O_k + c*Gamma == s*I
//	theta1: R + c*Y_bar   == s*G + s_b*B
//
// Both are always evaluated; the outcome is their conjunction.
func PedersenVerify(input []byte, gamma *Point, proof *PedersenProof, ad []byte) (bool, error) {
	if gamma == nil || proof == nil || proof.YBar == nil || proof.R == nil ||
		proof.Ok == nil || proof.S == nil || proof.Sb == nil {
		return false, fmt.Errorf("%w: incomplete pedersen proof", ErrProofLength)
	}
	if proof.YBar.IsIdentity() {
		return false, fmt.Errorf("%w: blinded key commitment", ErrIdentityPoint)
	}
	inputPoint := HashToCurve(input)

	c := ChallengeRFC9381([][]byte{
		proof.YBar.Bytes(),
		inputPoint.Bytes(),
		gamma.Bytes(),
		proof.R.Bytes(),
		proof.Ok.Bytes(),
	}, ad)

	var lhs, rhs, t Point

	t.ScalarMult(gamma, c)
	lhs.Add(proof.Ok, &t)
	rhs.ScalarMult(inputPoint, proof.S)
	theta0 := subtle.ConstantTimeCompare(lhs.Bytes(), rhs.Bytes()) == 1

	t.ScalarMult(proof.YBar, c)
	lhs.Add(proof.R, &t)
	rhs.ScalarBaseMult(proof.S)
	t.ScalarMult(blindingBase, proof.Sb)
	rhs.Add(&rhs, &t)
	theta1 := subtle.ConstantTimeCompare(lhs.Bytes(), rhs.Bytes()) == 1

	trace("pedersen_verify", "theta0=%v theta1=%v", theta0, theta1)
	return theta0 && theta1, nil
}
