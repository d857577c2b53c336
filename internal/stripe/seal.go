package stripe

import "github.com/sirupsen/logrus"

// seal recomputes and writes both parity chunks of stripe s from
// whatever data currently sits on disk. A data column whose chunk file
// does not exist yet (never written) contributes an all-zero column,
// so a stripe can be sealed before every one of its data columns has
// been filled.
func (e *Engine) seal(s int) error {
	n := e.cfg.Disks
	d := e.dataWidth
	cols := make([][]byte, d)

	for c := 0; c < d; c++ {
		disk := physData(n, s, c)
		data, err := e.readChunk(disk, s)
		if err != nil {
			continue // never written: leave cols[c] nil, treated as zero
		}
		cols[c] = data
	}

	p := make([]byte, e.cfg.ChunkSize)
	q := make([]uint64, e.cfg.ChunkSize)
	for i := 0; i < e.cfg.ChunkSize; i++ {
		column := make([]byte, d)
		for c := 0; c < d; c++ {
			column[c] = colByteOrZero(cols, c, i)
		}
		p[i] = e.codec.ComputeP(column)
		q[i] = e.codec.ComputeQ(column)
	}

	pDisk := physP(n, s)
	qDisk := physQ(n, s)
	if err := e.writeChunk(pDisk, s, p); err != nil {
		return err
	}
	if err := e.writeWideChunk(qDisk, s, q); err != nil {
		return err
	}
	e.setUtil(s, pDisk, e.cfg.ChunkSize)
	e.setUtil(s, qDisk, e.cfg.ChunkSize)

	logrus.Debugf("[stripe] sealed stripe %d: P=disk_%d Q=disk_%d", s, pDisk, qDisk)
	return nil
}
