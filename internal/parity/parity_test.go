package parity_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/vantyr-labs/raid6-engine/internal/gf"
	"github.com/vantyr-labs/raid6-engine/internal/parity"
)

func init() {
	logrus.SetLevel(logrus.DebugLevel)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

func newCodec(t *testing.T) *parity.Codec {
	t.Helper()
	field, err := gf.New(8, gf.LutArith, "")
	assert.NoError(t, err)
	return parity.New(field)
}

func TestComputePIsXOR(t *testing.T) {
	c := newCodec(t)
	cols := []byte{0x01, 0x02, 0x04, 0x08, 0x10, 0x20}
	var want byte
	for _, v := range cols {
		want ^= v
	}
	assert.Equal(t, want, c.ComputeP(cols))
}

func TestRecoverOneWithPRoundTrips(t *testing.T) {
	c := newCodec(t)
	cols := []byte{7, 99, 250, 3}
	p := c.ComputeP(cols)
	lostIdx := 2
	remaining := append(append([]byte{}, cols[:lostIdx]...), cols[lostIdx+1:]...)
	assert.Equal(t, cols[lostIdx], c.RecoverOneWithP(remaining, p))
}

func TestRecoverOneWithQRoundTrips(t *testing.T) {
	c := newCodec(t)
	cols := []byte{7, 99, 250, 3, 18}
	q := c.ComputeQ(cols)
	for lost := range cols {
		recovered, err := c.RecoverOneWithQ(cols, q, lost)
		assert.NoError(t, err)
		assert.Equal(t, cols[lost], recovered)
	}
}

func TestRecoverTwoRoundTrips(t *testing.T) {
	c := newCodec(t)
	cols := []byte{11, 22, 33, 44, 55, 66}
	p := c.ComputeP(cols)
	q := c.ComputeQ(cols)

	for k1 := 0; k1 < len(cols); k1++ {
		for k2 := k1 + 1; k2 < len(cols); k2++ {
			d1, d2, err := c.RecoverTwo(cols, p, q, k1, k2)
			assert.NoError(t, err)
			assert.Equal(t, cols[k1], d1, "k1=%d k2=%d", k1, k2)
			assert.Equal(t, cols[k2], d2, "k1=%d k2=%d", k1, k2)
		}
	}
}

func TestRecoverTwoZeroColumns(t *testing.T) {
	c := newCodec(t)
	cols := []byte{0, 0, 0, 0}
	p := c.ComputeP(cols)
	q := c.ComputeQ(cols)
	d1, d2, err := c.RecoverTwo(cols, p, q, 0, 1)
	assert.NoError(t, err)
	assert.Equal(t, byte(0), d1)
	assert.Equal(t, byte(0), d2)
}
