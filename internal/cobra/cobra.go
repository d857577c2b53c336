// Package cobra wires the RAID-6 engine to a command-line interface,
// one subcommand per internal/stripe.Engine operation, in the same
// rootCmd/subcommand-tree shape as the teacher's original CLI.
package cobra

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vantyr-labs/raid6-engine/internal/config"
	"github.com/vantyr-labs/raid6-engine/internal/gf"
	"github.com/vantyr-labs/raid6-engine/internal/stripe"
	"github.com/vantyr-labs/raid6-engine/internal/stripefs"
)

var (
	flagDisks        int
	flagChunkSize    int
	flagRoot         string
	flagVerifyOnRead bool
	flagJournalPath  string
)

var rootCmd = &cobra.Command{
	Use:   "raid6",
	Short: "Simulate a RAID-6 block storage array over local disk directories",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version info",
	Run: func(cmd *cobra.Command, args []string) {
		logrus.Infof("Version: %s", config.Version)
	},
}

func arrayConfig() config.ArrayConfig {
	cfg := config.DefaultArrayConfig()
	cfg.Disks = flagDisks
	cfg.ChunkSize = flagChunkSize
	cfg.Root = flagRoot
	cfg.VerifyOnRead = flagVerifyOnRead
	cfg.JournalPath = flagJournalPath
	cfg.Arith = gf.ArithAuto
	return cfg
}

func newEngine() (*stripe.Engine, error) {
	return stripe.New(arrayConfig(), stripefs.NewOS())
}

var writeCmd = &cobra.Command{
	Use:   "write <name> <path>",
	Short: "Write a local file's content into the array under a name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		return e.WriteFromFile(args[1], args[0])
	},
}

var readCmd = &cobra.Command{
	Use:   "read <name> <path>",
	Short: "Read a name out of the array into a local file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		return e.ReadToFile(args[0], args[1])
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a name, releasing its extents to the free list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		return e.Delete(args[0])
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <name> <path>",
	Short: "Replace a name's content with a local file's",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		return e.UpdateFromFile(args[1], args[0])
	},
}

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List every live name in the array",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		for _, name := range e.ListFiles() {
			fmt.Println(name)
		}
		return nil
	},
}

var recoverCmd = &cobra.Command{
	Use:   "recover <disk> [disk]",
	Short: "Reconstruct one or two lost disks from parity",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		disks := make([]int, len(args))
		for i, a := range args {
			if _, err := fmt.Sscanf(a, "%d", &disks[i]); err != nil {
				return fmt.Errorf("recover: invalid disk index %q: %w", a, err)
			}
		}
		return e.Reconstruct(disks)
	},
}

var scrubCmd = &cobra.Command{
	Use:   "scrub <stripe>",
	Short: "Verify a stripe's P/Q against its data columns without repairing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		var stripeIndex int
		if _, err := fmt.Sscanf(args[0], "%d", &stripeIndex); err != nil {
			return fmt.Errorf("scrub: invalid stripe index %q: %w", args[0], err)
		}
		return e.Scrub(stripeIndex)
	},
}

func InitCLI() *cobra.Command {
	rootCmd.PersistentFlags().IntVar(&flagDisks, "disks", 8, "number of simulated disks (N)")
	rootCmd.PersistentFlags().IntVar(&flagChunkSize, "chunk-size", 128, "bytes per stripe chunk")
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", "disks", "root directory holding the simulated disk directories")
	rootCmd.PersistentFlags().BoolVar(&flagVerifyOnRead, "verify-on-read", true, "attempt automatic recovery on a failed disk read")
	rootCmd.PersistentFlags().StringVar(&flagJournalPath, "journal", "", "path to a metadata journal file (empty disables it)")

	rootCmd.AddCommand(versionCmd, writeCmd, readCmd, deleteCmd, updateCmd, lsCmd, recoverCmd, scrubCmd)

	return rootCmd
}

func ExecuteCmd() error {
	return InitCLI().Execute()
}
