package stripe_test

import (
	"fmt"

	"github.com/vantyr-labs/raid6-engine/internal/config"
	"github.com/vantyr-labs/raid6-engine/internal/gf"
	"github.com/vantyr-labs/raid6-engine/internal/stripe"
	"github.com/vantyr-labs/raid6-engine/internal/stripefs"
)

func benchConfig() config.ArrayConfig {
	cfg := config.DefaultArrayConfig()
	cfg.Disks = 8
	cfg.ChunkSize = 64
	cfg.Root = "bench-disks"
	cfg.Arith = gf.ArithAuto
	return cfg
}

func newBenchEngine(cfg config.ArrayConfig) (*stripe.Engine, error) {
	return stripe.New(cfg, stripefs.NewMem())
}

func benchFileName(i int) string {
	return fmt.Sprintf("bench-file-%d", i)
}
