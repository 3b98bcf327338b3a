package vrf

import (
	"crypto/subtle"
	"fmt"
)

// IETFProofSize is the wire size of an IETF proof, c || s.
const IETFProofSize = 2 * ScalarSize

// IETFProof is the plain Schnorr-style proof: challenge and response.
type IETFProof struct {
	C *Scalar
	S *Scalar
}

func (p *IETFProof) Bytes() []byte {
	out := make([]byte, 0, IETFProofSize)
	out = append(out, p.C.Bytes()...)
	out = append(out, p.S.Bytes()...)
	return out
}

func DecodeIETFProof(buf []byte) (*IETFProof, error) {
	if len(buf) != IETFProofSize {
		return nil, fmt.Errorf("%w: ietf proof wants %d bytes, got %d", ErrProofLength, IETFProofSize, len(buf))
	}
	c, err := new(Scalar).SetCanonicalBytes(buf[:ScalarSize])
	if err != nil {
		return nil, err
	}
	s, err := new(Scalar).SetCanonicalBytes(buf[ScalarSize:])
	if err != nil {
		return nil, err
	}
	return &IETFProof{C: c, S: s}, nil
}

// IETFProve evaluates the VRF on input and produces the output point Gamma
// with its proof of correct evaluation.
func IETFProve(sk *SecretKey, input, ad []byte) (*Point, *IETFProof, error) {
	if sk == nil {
		return nil, nil, fmt.Errorf("%w: nil secret key", ErrScalarRange)
	}
	inputPoint := HashToCurve(input)
	gamma := new(Point).ScalarMult(inputPoint, &sk.scalar)

	k := NonceRFC8032(sk.Bytes(), inputPoint.Bytes())
	kG := new(Point).ScalarBaseMult(k)
	kI := new(Point).ScalarMult(inputPoint, k)

	pub := sk.Public()
	c := ChallengeRFC9381([][]byte{
		pub.Bytes(),
		inputPoint.Bytes(),
		gamma.Bytes(),
		kG.Bytes(),
		kI.Bytes(),
	}, ad)

	s := new(Scalar).Mul(c, &sk.scalar)
	s.Add(s, k)
	return gamma, &IETFProof{C: c, S: s}, nil
}

// IETFVerify checks the proof against the committed public key. A proof that
// fails the equations returns (false, nil); malformed inputs are errors.
func IETFVerify(pub *Point, input []byte, gamma *Point, proof *IETFProof, ad []byte) (bool, error) {
	if pub == nil || pub.IsIdentity() {
		return false, fmt.Errorf("%w: public key", ErrIdentityPoint)
	}
	if gamma == nil || proof == nil || proof.C == nil || proof.S == nil {
		return false, fmt.Errorf("%w: incomplete ietf proof", ErrProofLength)
	}
	inputPoint := HashToCurve(input)

	// U = s*G - c*Y, V = s*I - c*Gamma
	negC := new(Scalar).Neg(proof.C)
	var u, v, t Point
	u.ScalarBaseMult(proof.S)
	t.ScalarMult(pub, negC)
	u.Add(&u, &t)
	v.ScalarMult(inputPoint, proof.S)
	t.ScalarMult(gamma, negC)
	v.Add(&v, &t)

	rc := ChallengeRFC9381([][]byte{
		pub.Bytes(),
		inputPoint.Bytes(),
		gamma.Bytes(),
		u.Bytes(),
		v.Bytes(),
	}, ad)

	ok := subtle.ConstantTimeCompare(rc.Bytes(), proof.C.Bytes()) == 1
	trace("ietf_verify", "accept=%v", ok)
	return ok, nil
}
