package stripe_test

import (
	"testing"

	"github.com/klauspost/reedsolomon"
	"github.com/stretchr/testify/assert"
	"github.com/vantyr-labs/raid6-engine/internal/gf"
	"github.com/vantyr-labs/raid6-engine/internal/parity"
	"github.com/vantyr-labs/raid6-engine/internal/rsutil"
)

// TestPQCodecAgreesWithReedSolomonOracle runs the same data/parity
// split through two independent Galois-field implementations: the
// hand-rolled P/Q codec and klauspost/reedsolomon. They use different
// field representations and matrix constructions, so their raw parity
// bytes are not expected to match byte-for-byte; what must hold for
// both is that a 2-shard loss reconstructs back to the original
// input. Production code never calls reedsolomon directly; this is a
// correctness oracle exercised only from tests.
func TestPQCodecAgreesWithReedSolomonOracle(t *testing.T) {
	const numData = 4
	const numParity = 2
	const stripeSize = 1

	field, err := gf.New(numData+numParity, gf.LutArith, "")
	assert.NoError(t, err)
	codec := parity.New(field)

	input := []byte("RAID")
	column := []byte{input[0], input[1], input[2], input[3]}
	ourP := codec.ComputeP(column)
	ourQ := codec.ComputeQ(column)

	recoveredOne := codec.RecoverOneWithP(column[1:], ourP)
	assert.Equal(t, column[0], recoveredOne)

	d1, d2, err := codec.RecoverTwo(column, ourP, ourQ, 0, 1)
	assert.NoError(t, err)
	assert.Equal(t, column[0], d1)
	assert.Equal(t, column[1], d2)

	encoder, err := reedsolomon.New(numData, numParity)
	assert.NoError(t, err)

	shards, err := rsutil.EncodeStripeShards(input, stripeSize, encoder, numData, numParity)
	assert.NoError(t, err)

	lost := make([][]byte, len(shards))
	copy(lost, shards)
	lost[0] = nil
	lost[1] = nil

	assert.NoError(t, rsutil.ReconstructStripeShards(lost, encoder, numParity))
	assert.Equal(t, shards[0], lost[0])
	assert.Equal(t, shards[1], lost[1])
}

func BenchmarkSealOneStripe(b *testing.B) {
	cfg := benchConfig()
	eng, err := newBenchEngine(cfg)
	if err != nil {
		b.Fatal(err)
	}
	payload := make([]byte, cfg.ChunkSize*(cfg.Disks-2))
	for i := range payload {
		payload[i] = byte(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		name := benchFileName(i)
		if err := eng.Write(name, payload); err != nil {
			b.Fatal(err)
		}
	}
}
