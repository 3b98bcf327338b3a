package vrf

import (
	"crypto/sha512"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Elligator2 works on the Montgomery form B*y^2 = x^3 + A*x^2 + x of the
// curve. The parameters are derived from the Edwards (a, d) pair via
// A = 2(a+d)/(a-d) and B = 4/(a-d).
var (
	montgomeryA, montgomeryB = montgomeryParams()

	montgomeryBInv = func() fr.Element {
		var inv fr.Element
		inv.Inverse(&montgomeryB)
		return inv
	}()

	// ell2NonSquare is the smallest quadratic non-residue of the base field.
	ell2NonSquare = func() fr.Element {
		var z fr.Element
		for k := uint64(2); ; k++ {
			z.SetUint64(k)
			if z.Legendre() == -1 {
				return z
			}
		}
	}()
)

func montgomeryParams() (fr.Element, fr.Element) {
	var sum, diff, inv, a, b, four fr.Element
	sum.Add(&edwards.A, &edwards.D)
	diff.Sub(&edwards.A, &edwards.D)
	inv.Inverse(&diff)
	a.Double(&sum)
	a.Mul(&a, &inv)
	four.SetUint64(4)
	b.Mul(&four, &inv)
	return a, b
}

// HashToCurve deterministically maps an arbitrary byte string, including the
// empty one, to a point of the prime-order subgroup: domain-separated
// SHA-512 to a field element, Elligator2 to the full group, then cofactor
// clearing. Pure function, no failure mode.
func HashToCurve(msg []byte) *Point {
	h := sha512.New()
	h.Write([]byte(HASH_TO_CURVE_DOMAIN_TAG))
	h.Write(msg)
	u := fieldElementFromWide(h.Sum(nil))

	mx, my := mapToCurveELL2(&u)
	p := montgomeryToEdwards(&mx, &my)

	// cofactor 4
	p.inner.Double(&p.inner)
	p.inner.Double(&p.inner)
	return p
}

func fieldElementFromWide(buf []byte) fr.Element {
	v := new(big.Int).SetBytes(buf)
	v.Mod(v, baseFieldModulus)
	var e fr.Element
	e.SetBigInt(v)
	return e
}

// mapToCurveELL2 returns a Montgomery point for any field element u. Exactly
// one of the two candidate abscissas carries a square ordinate; the ordinate
// sign is normalized to even.
func mapToCurveELL2(u *fr.Element) (fr.Element, fr.Element) {
	var tv1, den, x1, x2, y fr.Element
	tv1.Square(u)
	tv1.Mul(&tv1, &ell2NonSquare)

	den.SetOne()
	den.Add(&den, &tv1)
	if den.IsZero() {
		den.SetOne()
	}
	den.Inverse(&den)
	x1.Neg(&montgomeryA)
	x1.Mul(&x1, &den)

	gx1 := evalMontgomery(&x1)
	if gx1.Legendre() != -1 {
		y.Sqrt(&gx1)
		normalizeOrdinate(&y)
		return x1, y
	}

	x2.Neg(&x1)
	x2.Sub(&x2, &montgomeryA)
	gx2 := evalMontgomery(&x2)
	y.Sqrt(&gx2)
	normalizeOrdinate(&y)
	return x2, y
}

// evalMontgomery computes (x^3 + A*x^2 + x) / B.
func evalMontgomery(x *fr.Element) fr.Element {
	var one, t, ax, gx fr.Element
	one.SetOne()
	t.Square(x)
	ax.Mul(&montgomeryA, x)
	t.Add(&t, &ax)
	t.Add(&t, &one)
	gx.Mul(x, &t)
	gx.Mul(&gx, &montgomeryBInv)
	return gx
}

func normalizeOrdinate(y *fr.Element) {
	if isOddFieldElement(y) {
		y.Neg(y)
	}
}

// montgomeryToEdwards applies the birational map x_e = x/y,
// y_e = (x-1)/(x+1), with the 0^-1 = 0 convention on the exceptional
// inputs. Exceptional images are small-order points; anything that falls
// off the curve collapses to the identity and is removed by the cofactor
// multiplication in the caller.
func montgomeryToEdwards(x, y *fr.Element) *Point {
	var one, inv, xe, num, den, ye fr.Element
	one.SetOne()
	inv.Inverse(y)
	xe.Mul(x, &inv)
	num.Sub(x, &one)
	den.Add(x, &one)
	den.Inverse(&den)
	ye.Mul(&num, &den)

	var p Point
	p.inner.X.Set(&xe)
	p.inner.Y.Set(&ye)
	if !p.isOnCurve() {
		return newIdentityPoint()
	}
	return &p
}
