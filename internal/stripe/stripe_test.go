package stripe_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/vantyr-labs/raid6-engine/internal/config"
	"github.com/vantyr-labs/raid6-engine/internal/gf"
	"github.com/vantyr-labs/raid6-engine/internal/stripe"
	"github.com/vantyr-labs/raid6-engine/internal/stripefs"
)

func init() {
	logrus.SetLevel(logrus.DebugLevel)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

func newTestEngine(t *testing.T) *stripe.Engine {
	t.Helper()
	cfg := config.ArrayConfig{
		Disks:        8,
		ChunkSize:    4,
		Root:         "disks",
		VerifyOnRead: true,
		Arith:        gf.ArithAuto,
	}
	e, err := stripe.New(cfg, stripefs.NewMem())
	assert.NoError(t, err)
	return e
}

func TestWriteReadRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	payload := []byte("HelloRAIDSystem12345678")

	assert.NoError(t, e.Write("greeting", payload))
	got, err := e.Read("greeting")
	assert.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestWriteAcrossMultipleStripes(t *testing.T) {
	e := newTestEngine(t)
	// data width = 6 columns * 4 bytes/chunk = 24 bytes per stripe.
	payload := make([]byte, 100)
	for i := range payload {
		payload[i] = byte(i % 251)
	}

	assert.NoError(t, e.Write("big", payload))
	got, err := e.Read("big")
	assert.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestReadUnknownNameErrors(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Read("nope")
	assert.Error(t, err)
}

func TestDeleteThenWriteReusesFreedExtents(t *testing.T) {
	e := newTestEngine(t)
	assert.NoError(t, e.Write("a", make([]byte, 400)))
	assert.NoError(t, e.Delete("a"))

	assert.NoError(t, e.Write("b", make([]byte, 400)))
	got, err := e.Read("b")
	assert.NoError(t, err)
	assert.Equal(t, make([]byte, 400), got)
}

func TestUpdateFromFileReplacesContent(t *testing.T) {
	fs := stripefs.NewMem()
	w, err := fs.CreateWrite("/src/doc")
	assert.NoError(t, err)
	_, err = w.Write([]byte("version two, a bit longer"))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())

	// The engine only ever touches cfg.Root paths for its own chunks,
	// so reusing the same fake filesystem for the external source file
	// is representative of a single-filesystem deployment.
	e := mustEngineWithFS(t, fs)
	assert.NoError(t, e.Write("doc", []byte("version one")))
	assert.NoError(t, e.UpdateFromFile("/src/doc", "doc"))

	got, err := e.Read("doc")
	assert.NoError(t, err)
	assert.Equal(t, []byte("version two, a bit longer"), got)
}

func mustEngineWithFS(t *testing.T, fs *stripefs.MemFileSystem) *stripe.Engine {
	t.Helper()
	cfg := config.ArrayConfig{
		Disks:        8,
		ChunkSize:    4,
		Root:         "disks",
		VerifyOnRead: true,
		Arith:        gf.ArithAuto,
	}
	e, err := stripe.New(cfg, fs)
	assert.NoError(t, err)
	return e
}

func TestListFiles(t *testing.T) {
	e := newTestEngine(t)
	assert.NoError(t, e.Write("b", []byte("x")))
	assert.NoError(t, e.Write("a", []byte("y")))
	assert.Equal(t, []string{"a", "b"}, e.ListFiles())
}

func TestReconstructOneDataDisk(t *testing.T) {
	e := newTestEngine(t)
	payload := []byte("HelloRAIDSystem12345678")
	assert.NoError(t, e.Write("greeting", payload))

	assert.NoError(t, e.Reconstruct([]int{2}))

	got, err := e.Read("greeting")
	assert.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestReconstructTwoDataDisks(t *testing.T) {
	e := newTestEngine(t)
	payload := []byte("HelloRAIDSystem12345678")
	assert.NoError(t, e.Write("greeting", payload))

	assert.NoError(t, e.Reconstruct([]int{1, 3}))

	got, err := e.Read("greeting")
	assert.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestReconstructDataAndParity(t *testing.T) {
	e := newTestEngine(t)
	payload := []byte("HelloRAIDSystem12345678")
	assert.NoError(t, e.Write("greeting", payload))

	assert.NoError(t, e.Reconstruct([]int{0, 6})) // one data column plus a parity slot

	got, err := e.Read("greeting")
	assert.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestReconstructRejectsMoreThanTwoDisks(t *testing.T) {
	e := newTestEngine(t)
	assert.NoError(t, e.Write("greeting", []byte("hi")))
	err := e.Reconstruct([]int{0, 1, 2})
	assert.Error(t, err)
}

// TestReconstructTwoDataDisksWideField covers N=10, where Q is a full
// GF(2^10) element that overflows a byte (coefficient(7) * 4 alone is 512);
// the N=8 recovery tests above never exercise that width.
func TestReconstructTwoDataDisksWideField(t *testing.T) {
	cfg := config.ArrayConfig{
		Disks:        10,
		ChunkSize:    4,
		Root:         "disks",
		VerifyOnRead: true,
		Arith:        gf.ArithAuto,
	}
	e, err := stripe.New(cfg, stripefs.NewMem())
	assert.NoError(t, err)

	payload := make([]byte, 200)
	for i := range payload {
		payload[i] = byte(i % 251)
	}
	assert.NoError(t, e.Write("greeting", payload))

	assert.NoError(t, e.Reconstruct([]int{1, 3}))

	got, err := e.Read("greeting")
	assert.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestScrubDetectsNothingOnHealthyStripe(t *testing.T) {
	e := newTestEngine(t)
	assert.NoError(t, e.Write("greeting", []byte("hi there")))
	assert.NoError(t, e.Scrub(0))
}
