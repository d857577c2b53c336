package stripe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRotationCoversEveryDiskOnceTwo(t *testing.T) {
	n := 8
	for s := 0; s < 20; s++ {
		seen := make(map[int]bool)
		seen[physP(n, s)] = true
		seen[physQ(n, s)] = true
		for c := 0; c < n-2; c++ {
			seen[physData(n, s, c)] = true
		}
		assert.Len(t, seen, n, "stripe %d should touch every disk exactly once", s)
	}
}

func TestDataColumnOfInvertsPhysData(t *testing.T) {
	n := 10
	for s := 0; s < 15; s++ {
		for c := 0; c < n-2; c++ {
			disk := physData(n, s, c)
			assert.Equal(t, c, dataColumnOf(n, s, disk))
		}
	}
}

func TestIsPIsQAreMutuallyExclusive(t *testing.T) {
	n := 6
	for s := 0; s < 10; s++ {
		for d := 0; d < n; d++ {
			p := isP(n, s, d)
			q := isQ(n, s, d)
			assert.False(t, p && q, "disk %d at stripe %d can't be both P and Q", d, s)
		}
	}
}

func TestModWrapsNegative(t *testing.T) {
	assert.Equal(t, 3, mod(-1, 4))
	assert.Equal(t, 0, mod(8, 4))
	assert.Equal(t, 2, mod(2, 4))
}
