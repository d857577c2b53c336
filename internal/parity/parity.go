// Package parity implements the RAID-6 P/Q codec: computing the two
// parity values (P a byte, Q a GF(2^m) element) of a data column and recovering one or two missing
// entries (data, P, or Q) from the rest, over a caller-supplied
// GF(2^m) field. Every routine here operates on a single byte column;
// the stripe engine (internal/stripe) loops these over CHUNK_SIZE
// columns.
package parity

import (
	"fmt"
	"math/big"

	"github.com/vantyr-labs/raid6-engine/internal/gf"
	"github.com/vantyr-labs/raid6-engine/internal/raiderr"
)

// Codec computes and recovers P/Q parity over a single field.
type Codec struct {
	field *gf.Field
}

// New builds a Codec over field.
func New(field *gf.Field) *Codec {
	return &Codec{field: field}
}

func byteOf(x *big.Int) byte {
	return byte(x.Uint64())
}

func bigByte(x byte) *big.Int {
	return new(big.Int).SetUint64(uint64(x))
}

func bigU64(x uint64) *big.Int {
	return new(big.Int).SetUint64(x)
}

// coefficient returns 2^i reduced into the codec's field, the
// Vandermonde-style column coefficient used by ComputeQ,
// RecoverOneWithQ and RecoverTwo.
func (c *Codec) coefficient(i int) *big.Int {
	power := new(big.Int).Lsh(big.NewInt(1), uint(i))
	return c.field.Multiply(bigByte(1), power)
}

// ComputeP returns the XOR parity of cols = [d0, ..., d(D-1)].
func (c *Codec) ComputeP(cols []byte) byte {
	var p byte
	for _, d := range cols {
		p ^= d
	}
	return p
}

// ComputeQ returns d0 XOR (2^1 * d1) XOR ... XOR (2^(D-1) * d(D-1))
// in GF(2^m). Unlike P, Q is a full field element and routinely
// exceeds a byte once m > 8, so it is carried as uint64 rather than
// truncated.
func (c *Codec) ComputeQ(cols []byte) uint64 {
	acc := big.NewInt(0)
	for i, d := range cols {
		term := c.field.Multiply(c.coefficient(i), bigByte(d))
		acc = c.field.Add(acc, term)
	}
	return acc.Uint64()
}

// RecoverOneWithP reconstructs a single missing column from P and the
// remaining columns: P XOR (XOR of remaining).
func (c *Codec) RecoverOneWithP(remaining []byte, p byte) byte {
	result := p
	for _, d := range remaining {
		result ^= d
	}
	return result
}

// RecoverOneWithQ reconstructs all[k] from Q, given all other entries
// of all (all[k] itself is ignored). The recovered value is always a
// data byte, but q itself is a full field element and must not be
// truncated before this point.
func (c *Codec) RecoverOneWithQ(all []byte, q uint64, k int) (byte, error) {
	acc := bigU64(q)
	for i, d := range all {
		if i == k {
			continue
		}
		term := c.field.Multiply(c.coefficient(i), bigByte(d))
		acc = c.field.Add(acc, term)
	}
	coefK := c.coefficient(k)
	inv, err := c.field.Inverse(coefK)
	if err != nil {
		return 0, fmt.Errorf("parity: %w: cannot invert coefficient for column %d", raiderr.ErrInvalidArgument, k)
	}
	return byteOf(c.field.Multiply(inv, acc)), nil
}

// RecoverTwo reconstructs all[k1] and all[k2] from P, Q, and the
// remaining entries of all (entries k1, k2 of all are ignored). Both
// recovered values are data bytes, but q is a full field element.
func (c *Codec) RecoverTwo(all []byte, p byte, q uint64, k1, k2 int) (d1, d2 byte, err error) {
	A := bigByte(p)
	B := bigU64(q)
	for i, d := range all {
		if i == k1 || i == k2 {
			continue
		}
		A = c.field.Add(A, bigByte(d))
		term := c.field.Multiply(c.coefficient(i), bigByte(d))
		B = c.field.Add(B, term)
	}

	coef1 := c.coefficient(k1)
	coef2 := c.coefficient(k2)
	denom := c.field.Add(coef1, coef2)
	inv, invErr := c.field.Inverse(denom)
	if invErr != nil {
		return 0, 0, fmt.Errorf("parity: %w: columns %d and %d share a coefficient", raiderr.ErrInvalidArgument, k1, k2)
	}

	numerator := c.field.Add(c.field.Multiply(coef2, A), B)
	D1 := c.field.Multiply(inv, numerator)
	D2 := c.field.Add(A, D1)

	return byteOf(D1), byteOf(D2), nil
}
