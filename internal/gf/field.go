// Package gf implements arithmetic over GF(2^m), the finite field
// substrate for the RAID-6 engine's Q parity. Field elements are
// represented as non-negative *big.Int bit-vectors so that fields up
// to the tabulated degree 100 (see conway.go) are representable
// without word-size overflow; math/big is stdlib and there is no
// third-party GF(2^m)-for-arbitrary-m implementation anywhere in the
// dependency pack to reach for instead (klauspost/reedsolomon, the
// nearest relative, hardcodes GF(2^8) Cauchy matrices internally and
// does not expose a general field type).
package gf

import (
	"fmt"
	"math/big"

	"github.com/sirupsen/logrus"
	"github.com/vantyr-labs/raid6-engine/internal/raiderr"
)

// ArithVariant selects how Multiply/Inverse are computed: by
// shift-and-reduce arithmetic on every call, or by a precomputed
// lookup table. This is the "capabilities over inheritance" variant
// type called for in place of the original's attribute rebinding.
type ArithVariant int

const (
	// ArithAuto lets Field pick NaiveArith or LutArith based on m
	// (LUT when m < 10).
	ArithAuto ArithVariant = iota
	NaiveArith
	LutArith
)

// Field is GF(2^m) reduced modulo a fixed primitive (Conway)
// polynomial of degree m.
type Field struct {
	M         int
	Generator *big.Int

	variant ArithVariant
	lut     *lut
}

// New constructs GF(2^m). lutDir, if non-empty, is where a LutArith
// field persists its multiply/divide tables (see lutcache.go); pass
// "" to keep tables in-memory only.
func New(m int, variant ArithVariant, lutDir string) (*Field, error) {
	poly, ok := conwayPolynomial(m)
	if !ok {
		return nil, fmt.Errorf("gf: %w: no Conway polynomial tabulated for degree %d", raiderr.ErrInvalidArgument, m)
	}

	f := &Field{
		M:         m,
		Generator: new(big.Int).SetUint64(poly),
		variant:   variant,
	}

	useLUT := variant == LutArith || (variant == ArithAuto && m < 10)
	if useLUT {
		f.variant = LutArith
		built, err := loadOrBuildLUT(f, lutDir)
		if err != nil {
			return nil, fmt.Errorf("gf: building lookup tables for GF(2^%d): %w", m, err)
		}
		f.lut = built
	} else {
		f.variant = NaiveArith
	}

	logrus.Debugf("[gf] constructed GF(2^%d), generator=%s, arithmetic=%v", m, f.Generator.Text(2), f.variant)

	return f, nil
}

// Add is GF(2^m) addition: bitwise XOR.
func (f *Field) Add(x, y *big.Int) *big.Int {
	return new(big.Int).Xor(x, y)
}

// Subtract coincides with Add in characteristic 2.
func (f *Field) Subtract(x, y *big.Int) *big.Int {
	return f.Add(x, y)
}

// FindDegree returns the index of the most significant set bit of v,
// or 0 when v is zero.
func (f *Field) FindDegree(v *big.Int) int {
	if v.Sign() == 0 {
		return 0
	}
	return v.BitLen() - 1
}

// MultiplyWithoutReducing performs carry-less polynomial
// multiplication of f and v over GF(2): for each set bit i of v, XOR
// (f << i) into the accumulator. The result is not reduced modulo any
// generator.
func (fld *Field) MultiplyWithoutReducing(f, v *big.Int) *big.Int {
	result := new(big.Int)
	shifted := new(big.Int).Set(f)
	vBits := v.BitLen()
	for i := 0; i < vBits; i++ {
		if v.Bit(i) == 1 {
			result.Xor(result, shifted)
		}
		shifted.Lsh(shifted, 1)
	}
	return result
}

// FullDivision performs polynomial long division of f by v over
// GF(2), given their respective degrees, and returns (quotient,
// remainder) such that f = quotient*v + remainder (addition and
// multiplication both over GF(2), i.e. XOR and carry-less multiply).
func (fld *Field) FullDivision(f, v *big.Int, fDegree, vDegree int) (*big.Int, *big.Int) {
	quotient := new(big.Int)
	remainder := new(big.Int).Set(f)

	shiftedV := new(big.Int)
	for i := fDegree; i >= vDegree; i-- {
		if remainder.Bit(i) == 1 {
			quotient.SetBit(quotient, i-vDegree, 1)
			shiftedV.Lsh(v, uint(i-vDegree))
			remainder.Xor(remainder, shiftedV)
		}
	}
	return quotient, remainder
}

// Multiply returns f*v reduced modulo the field's generator.
func (fld *Field) Multiply(f, v *big.Int) *big.Int {
	if fld.variant == LutArith {
		return fld.lutMultiply(f, v)
	}
	return fld.naiveMultiply(f, v)
}

func (fld *Field) naiveMultiply(f, v *big.Int) *big.Int {
	product := fld.MultiplyWithoutReducing(f, v)
	_, remainder := fld.FullDivision(product, fld.Generator, fld.FindDegree(product), fld.M)
	return remainder
}

// Inverse returns the multiplicative inverse of f via the extended
// Euclidean algorithm on (f, generator). f must be non-zero; Inverse
// of zero is undefined.
func (fld *Field) Inverse(f *big.Int) (*big.Int, error) {
	if f.Sign() == 0 {
		return nil, fmt.Errorf("gf: %w: inverse of zero is undefined", raiderr.ErrInvalidArgument)
	}
	if fld.variant == LutArith {
		return fld.lutInverse(f)
	}
	_, x, _ := fld.extendedEuclid(f, fld.Generator, fld.FindDegree(f), fld.M)
	return x, nil
}

// extendedEuclid mirrors the original recursive ExtendedEuclid(a, b,
// aDegree, bDegree), returning the full Bezout triple (gcd, x, y) such
// that a*x + b*y = gcd (addition and multiplication both over GF(2),
// i.e. XOR and carry-less, unreduced polynomial multiply). The back
// substitution at each level needs the child's coefficient of *its*
// second argument as well as its first, which is why the triple form
// is required: a single-value recursion loses the y half and returns
// a wrong coefficient. Since f is coprime to the irreducible generator
// whenever f is non-zero, gcd is always 1 and x is f's inverse with
// degree < M, so x never needs reducing modulo the generator.
func (fld *Field) extendedEuclid(a, b *big.Int, aDegree, bDegree int) (gcd, x, y *big.Int) {
	if b.Sign() == 0 {
		return new(big.Int).Set(a), big.NewInt(1), big.NewInt(0)
	}
	q, r := fld.FullDivision(a, b, aDegree, bDegree)
	gcd, x1, y1 := fld.extendedEuclid(b, r, bDegree, fld.FindDegree(r))
	x = y1
	y = fld.Subtract(x1, fld.MultiplyWithoutReducing(q, y1))
	return gcd, x, y
}

// Divide returns f * v^-1. Dividing by zero is an invalid argument.
func (fld *Field) Divide(f, v *big.Int) (*big.Int, error) {
	inv, err := fld.Inverse(v)
	if err != nil {
		return nil, err
	}
	return fld.Multiply(f, inv), nil
}
