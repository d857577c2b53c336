package stripe

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/vantyr-labs/raid6-engine/internal/raiderr"
)

// maxStripe returns the highest stripe index the array has touched.
// When the cursor sits at column 0 of its stripe, that stripe has not
// been started yet, so the last complete stripe is the one before it.
func (e *Engine) maxStripe() int {
	if e.curColumn > 0 {
		return e.curStripe
	}
	return e.curStripe - 1
}

// Reconstruct regenerates the content of one or two lost disks across
// every stripe written so far, dispatching per stripe to the
// appropriate one-disk or two-disk recovery case. Disk directories for
// the lost disks are recreated first. More than two simultaneous
// losses exceed RAID-6's redundancy and are unrecoverable.
func (e *Engine) Reconstruct(lostDisks []int) error {
	if len(lostDisks) == 0 {
		return nil
	}
	if len(lostDisks) > 2 {
		return fmt.Errorf("stripe: %w: %d disks lost simultaneously, at most 2 are recoverable", raiderr.ErrUnrecoverableCorruption, len(lostDisks))
	}

	lost := append([]int(nil), lostDisks...)
	sort.Ints(lost)

	for _, d := range lost {
		_ = e.fs.RemoveAll(diskDir(e.cfg.Root, d))
		if err := e.fs.MkdirAll(diskDir(e.cfg.Root, d)); err != nil {
			return fmt.Errorf("stripe: %w: recreating disk_%d: %v", raiderr.ErrIO, d, err)
		}
	}

	last := e.maxStripe()
	if last < 0 {
		return nil
	}

	logrus.Warnf("[stripe] reconstructing disks %v across stripes 0..%d", lost, last)

	var err error
	if len(lost) == 1 {
		err = e.reconstructOne(lost[0], last)
	} else {
		err = e.reconstructTwo(lost[0], lost[1], last)
	}
	if err != nil {
		return err
	}
	return e.checkpoint()
}

func (e *Engine) reconstructOne(lostDisk, last int) error {
	n := e.cfg.Disks
	d := e.dataWidth
	size := e.cfg.ChunkSize

	for s := 0; s <= last; s++ {
		dataCols, p, q, err := e.readStripe(s, []int{lostDisk}, false)
		if err != nil {
			return err
		}

		switch {
		case p != nil && q != nil:
			// lostDisk held a data column.
			c := dataColumnOf(n, s, lostDisk)
			recovered := make([]byte, size)
			for i := 0; i < size; i++ {
				remaining := make([]byte, 0, d-1)
				for cc := 0; cc < d; cc++ {
					if cc == c {
						continue
					}
					remaining = append(remaining, colByteOrZero(dataCols, cc, i))
				}
				recovered[i] = e.codec.RecoverOneWithP(remaining, p[i])
			}
			util := e.utilAt(s, lostDisk)
			if err := e.writeChunk(lostDisk, s, padTo(recovered[:clamp(util, size)], size)); err != nil {
				return err
			}
			e.setUtil(s, lostDisk, util)

		case p == nil:
			// lostDisk held P.
			p := make([]byte, size)
			for i := 0; i < size; i++ {
				column := make([]byte, d)
				for c := 0; c < d; c++ {
					column[c] = colByteOrZero(dataCols, c, i)
				}
				p[i] = e.codec.ComputeP(column)
			}
			if err := e.writeChunk(lostDisk, s, p); err != nil {
				return err
			}
			e.setUtil(s, lostDisk, size)

		default: // q == nil
			q := make([]uint64, size)
			for i := 0; i < size; i++ {
				column := make([]byte, d)
				for c := 0; c < d; c++ {
					column[c] = colByteOrZero(dataCols, c, i)
				}
				q[i] = e.codec.ComputeQ(column)
			}
			if err := e.writeWideChunk(lostDisk, s, q); err != nil {
				return err
			}
			e.setUtil(s, lostDisk, size)
		}
	}
	return nil
}

func (e *Engine) reconstructTwo(l1, l2, last int) error {
	n := e.cfg.Disks
	d := e.dataWidth
	size := e.cfg.ChunkSize

	for s := 0; s <= last; s++ {
		dataCols, p, q, err := e.readStripe(s, []int{l1, l2}, false)
		if err != nil {
			return err
		}

		switch {
		case p == nil && q == nil:
			// both parity disks lost: just reseal from live data.
			if err := e.seal(s); err != nil {
				return err
			}

		case p != nil && q != nil:
			// two data columns lost.
			k1 := dataColumnOf(n, s, l1)
			k2 := dataColumnOf(n, s, l2)
			rec1 := make([]byte, size)
			rec2 := make([]byte, size)
			for i := 0; i < size; i++ {
				column := make([]byte, d)
				for c := 0; c < d; c++ {
					column[c] = colByteOrZero(dataCols, c, i)
				}
				v1, v2, err := e.codec.RecoverTwo(column, p[i], q[i], k1, k2)
				if err != nil {
					return fmt.Errorf("stripe: recovering stripe %d: %w", s, err)
				}
				rec1[i], rec2[i] = v1, v2
			}
			u1, u2 := e.utilAt(s, l1), e.utilAt(s, l2)
			if err := e.writeChunk(l1, s, padTo(rec1[:clamp(u1, size)], size)); err != nil {
				return err
			}
			if err := e.writeChunk(l2, s, padTo(rec2[:clamp(u2, size)], size)); err != nil {
				return err
			}
			e.setUtil(s, l1, u1)
			e.setUtil(s, l2, u2)

		default:
			// one parity disk and one data disk lost.
			var parityDisk, dataDisk int
			if p == nil {
				parityDisk, dataDisk = pick(isP(n, s, l1), l1, l2)
			} else {
				parityDisk, dataDisk = pick(isQ(n, s, l1), l1, l2)
			}
			k := dataColumnOf(n, s, dataDisk)
			recovered := make([]byte, size)

			if p == nil {
				for i := 0; i < size; i++ {
					all := make([]byte, d)
					for c := 0; c < d; c++ {
						all[c] = colByteOrZero(dataCols, c, i)
					}
					v, err := e.codec.RecoverOneWithQ(all, q[i], k)
					if err != nil {
						return fmt.Errorf("stripe: recovering stripe %d: %w", s, err)
					}
					recovered[i] = v
				}
			} else {
				for i := 0; i < size; i++ {
					remaining := make([]byte, 0, d-1)
					for c := 0; c < d; c++ {
						if c == k {
							continue
						}
						remaining = append(remaining, colByteOrZero(dataCols, c, i))
					}
					recovered[i] = e.codec.RecoverOneWithP(remaining, p[i])
				}
			}

			util := e.utilAt(s, dataDisk)
			if err := e.writeChunk(dataDisk, s, padTo(recovered[:clamp(util, size)], size)); err != nil {
				return err
			}
			e.setUtil(s, dataDisk, util)

			// recompute the lost parity chunk from the now-complete
			// data columns, including the value just recovered.
			full := make([][]byte, d)
			copy(full, dataCols)
			full[k] = recovered

			if p == nil {
				parity := make([]byte, size)
				for i := 0; i < size; i++ {
					column := make([]byte, d)
					for c := 0; c < d; c++ {
						column[c] = colByteOrZero(full, c, i)
					}
					parity[i] = e.codec.ComputeP(column)
				}
				if err := e.writeChunk(parityDisk, s, parity); err != nil {
					return err
				}
			} else {
				parity := make([]uint64, size)
				for i := 0; i < size; i++ {
					column := make([]byte, d)
					for c := 0; c < d; c++ {
						column[c] = colByteOrZero(full, c, i)
					}
					parity[i] = e.codec.ComputeQ(column)
				}
				if err := e.writeWideChunk(parityDisk, s, parity); err != nil {
					return err
				}
			}
			e.setUtil(s, parityDisk, size)
		}
	}
	return nil
}

func pick(firstIsParity bool, l1, l2 int) (parityDisk, dataDisk int) {
	if firstIsParity {
		return l1, l2
	}
	return l2, l1
}

func clamp(n, max int) int {
	if n < 0 {
		return 0
	}
	if n > max {
		return max
	}
	return n
}
