package gf

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// lut holds the precomputed multiply/divide tables for a small field
// (m < 10, so fieldSize <= 512), replacing per-call shift-and-reduce
// arithmetic with a table lookup. This is the Go-native analogue of
// the original's on-disk pickle cache, persisted with encoding/gob
// instead (stdlib serialization is the idiomatic choice here: this is
// a small internal cache file, not a wire format or user-facing
// artifact, so none of the pack's marshaling libraries — used
// elsewhere for config/wire formats — has a natural home here).
type lut struct {
	FieldSize int
	Mul       [][]uint16
	Div       [][]uint16 // Div[x][0] is unused/invalid; division by zero is a caller error
}

func (fld *Field) lutMultiply(f, v *big.Int) *big.Int {
	i := f.Uint64()
	j := v.Uint64()
	return new(big.Int).SetUint64(uint64(fld.lut.Mul[i][j]))
}

func (fld *Field) lutDivide(i, j uint64) uint16 {
	return fld.lut.Div[i][j]
}

func (fld *Field) lutInverse(f *big.Int) (*big.Int, error) {
	// Inverse(f) = Divide(1, f); the original's DoInverseForSmallField
	// is exactly this specialization.
	i := f.Uint64()
	v := fld.lutDivide(1, i)
	return new(big.Int).SetUint64(uint64(v)), nil
}

func lutCachePath(dir string, m int) string {
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, fmt.Sprintf("gf-lut-%d.gob", m))
}

// loadOrBuildLUT loads a persisted multiply/divide table for fld.M
// from lutDir if present, otherwise builds it with naive
// shift-and-reduce arithmetic and, if lutDir is non-empty, persists it
// for reuse by later constructions of the same field degree.
func loadOrBuildLUT(fld *Field, lutDir string) (*lut, error) {
	path := lutCachePath(lutDir, fld.M)

	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			var cached lut
			dec := gob.NewDecoder(bytes.NewReader(data))
			if err := dec.Decode(&cached); err == nil && cached.FieldSize == 1<<uint(fld.M) {
				logrus.Debugf("[gf] loaded cached LUT for GF(2^%d) from %s", fld.M, path)
				return &cached, nil
			}
			logrus.Warnf("[gf] discarding stale or unreadable LUT cache at %s", path)
		}
	}

	fieldSize := 1 << uint(fld.M)
	table := &lut{
		FieldSize: fieldSize,
		Mul:       make([][]uint16, fieldSize),
		Div:       make([][]uint16, fieldSize),
	}

	for i := 0; i < fieldSize; i++ {
		table.Mul[i] = make([]uint16, fieldSize)
		table.Div[i] = make([]uint16, fieldSize)
		bi := new(big.Int).SetInt64(int64(i))
		for j := 0; j < fieldSize; j++ {
			bj := new(big.Int).SetInt64(int64(j))
			table.Mul[i][j] = uint16(fld.naiveMultiply(bi, bj).Uint64())
			if j == 0 {
				table.Div[i][j] = 0 // division by zero: caller must never invoke this
				continue
			}
			invJ, err := fld.naiveInverse(bj)
			if err != nil {
				return nil, err
			}
			table.Div[i][j] = uint16(fld.naiveMultiply(bi, invJ).Uint64())
		}
	}

	if path != "" {
		if err := os.MkdirAll(lutDir, 0o755); err == nil {
			if f, err := os.Create(path); err == nil {
				enc := gob.NewEncoder(f)
				if err := enc.Encode(table); err != nil {
					logrus.Warnf("[gf] failed to persist LUT cache at %s: %v", path, err)
				}
				f.Close()
			}
		}
	}

	return table, nil
}

// naiveInverse computes an inverse with the extended Euclidean
// algorithm, independent of fld.variant; used only while building the
// LUT (the LUT itself doesn't exist yet to recurse into).
func (fld *Field) naiveInverse(f *big.Int) (*big.Int, error) {
	_, x, _ := fld.extendedEuclid(f, fld.Generator, fld.FindDegree(f), fld.M)
	return x, nil
}
