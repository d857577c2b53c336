package gf_test

import (
	"math/big"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/vantyr-labs/raid6-engine/internal/gf"
)

func init() {
	logrus.SetLevel(logrus.DebugLevel)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

func b(x uint64) *big.Int {
	return new(big.Int).SetUint64(x)
}

func TestNewRejectsUnsupportedDegree(t *testing.T) {
	_, err := gf.New(41, gf.NaiveArith, "")
	assert.Error(t, err)
}

func TestAddIsXOR(t *testing.T) {
	f, err := gf.New(8, gf.NaiveArith, "")
	assert.NoError(t, err)
	assert.Equal(t, b(0x0f), f.Add(b(0x3), b(0xc)))
}

func TestMultiplyIdentity(t *testing.T) {
	for _, variant := range []gf.ArithVariant{gf.NaiveArith, gf.LutArith} {
		f, err := gf.New(8, variant, "")
		assert.NoError(t, err)
		for x := uint64(0); x < 256; x++ {
			assert.Equal(t, x, f.Multiply(b(x), b(1)).Uint64(), "x*1 should be x")
		}
	}
}

func TestMultiplyAgreesAcrossVariants(t *testing.T) {
	naive, err := gf.New(8, gf.NaiveArith, "")
	assert.NoError(t, err)
	lut, err := gf.New(8, gf.LutArith, "")
	assert.NoError(t, err)

	for x := uint64(0); x < 256; x += 7 {
		for y := uint64(0); y < 256; y += 11 {
			assert.Equal(t, naive.Multiply(b(x), b(y)).Uint64(), lut.Multiply(b(x), b(y)).Uint64())
		}
	}
}

func TestInverseRoundTrips(t *testing.T) {
	for _, variant := range []gf.ArithVariant{gf.NaiveArith, gf.LutArith} {
		f, err := gf.New(8, variant, "")
		assert.NoError(t, err)
		for x := uint64(1); x < 256; x++ {
			inv, err := f.Inverse(b(x))
			assert.NoError(t, err)
			assert.Equal(t, uint64(1), f.Multiply(b(x), inv).Uint64())
		}
	}
}

func TestInverseOfZeroErrors(t *testing.T) {
	f, err := gf.New(8, gf.NaiveArith, "")
	assert.NoError(t, err)
	_, err = f.Inverse(b(0))
	assert.Error(t, err)
}

func TestDivide(t *testing.T) {
	f, err := gf.New(8, gf.NaiveArith, "")
	assert.NoError(t, err)
	product := f.Multiply(b(37), b(211))
	quotient, err := f.Divide(product, b(211))
	assert.NoError(t, err)
	assert.Equal(t, uint64(37), quotient.Uint64())
}

func TestHigherDegreeField(t *testing.T) {
	f, err := gf.New(10, gf.NaiveArith, "")
	assert.NoError(t, err)
	inv, err := f.Inverse(b(513))
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), f.Multiply(b(513), inv).Uint64())
}

func TestSupportedDegree(t *testing.T) {
	assert.True(t, gf.SupportedDegree(8))
	assert.True(t, gf.SupportedDegree(100))
	assert.False(t, gf.SupportedDegree(41))
	assert.False(t, gf.SupportedDegree(0))
}
