package cmd

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCfg = defaultRunConfig()

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a workload through the cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSimulation(runCfg, cmd.OutOrStdout())
	},
}

// runSimulation runs one workload and prints the reports to out.
func runSimulation(cfg runConfig, out io.Writer) (err error) {
	if err := cfg.validate(); err != nil {
		return err
	}

	spec, err := cfg.workloadSpec()
	if err != nil {
		return err
	}

	gen, err := spec.Build()
	if err != nil {
		return err
	}

	if log2 := spec.BlockSizeLog2(); log2 != cfg.Log2BlockSize {
		logrus.Infof("Using the %d-byte blocks of %s",
			uint64(1)<<log2, cfg.workloadName())
		cfg.Log2BlockSize = log2
	}

	s, err := newSimulation(cfg)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := s.close(); err == nil {
			err = closeErr
		}
	}()

	if err := s.startMonitor(); err != nil {
		logrus.Warnf("cannot open browser: %v", err)
	}

	logrus.Infof("Running %s (%d accesses) on a %dx%d %s cache",
		cfg.workloadName(), spec.Accesses(), cfg.NumSets, cfg.NumWays,
		cfg.Policy)

	if err := s.run(gen, spec.Accesses()); err != nil {
		return err
	}

	if cfg.Checkpoint != "" {
		if err := s.checkpoint(cfg.Checkpoint); err != nil {
			return err
		}

		logrus.Infof("Checkpoint written to %s", cfg.Checkpoint)
	}

	return s.report(out)
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runCfg.Policy, "policy", runCfg.Policy,
		"Replacement policy (shipd, lru)")
	f.IntVar(&runCfg.NumSets, "sets", runCfg.NumSets, "Number of sets")
	f.IntVar(&runCfg.NumWays, "ways", runCfg.NumWays, "Associativity")
	f.IntVar(&runCfg.Log2BlockSize, "log2-block-size", runCfg.Log2BlockSize,
		"Log2 of the cache line size in bytes; a workload file that sets "+
			"log2_block_size overrides it")
	f.StringVar(&runCfg.WorkloadFile, "workload", "",
		"YAML workload file; overrides --pattern")
	f.StringVar(&runCfg.Pattern, "pattern", runCfg.Pattern,
		"Built-in workload (stream, loop, random, mixed)")
	f.IntVar(&runCfg.Accesses, "accesses", runCfg.Accesses,
		"Number of accesses of the built-in workload")
	f.Int64Var(&runCfg.Seed, "seed", runCfg.Seed,
		"Seed of the built-in workload")
	f.StringVar(&runCfg.RecordPath, "record", "",
		"Record epochs and the run summary into this SQLite file")
	f.IntVar(&runCfg.MonitorPort, "monitor", runCfg.MonitorPort,
		"Serve the monitor on this port (0 for a random port, -1 to disable)")
	f.BoolVar(&runCfg.OpenBrowser, "open-browser", false,
		"Open the monitor in a browser")
	f.StringVar(&runCfg.Checkpoint, "checkpoint", "",
		"Write the cache and policy state to this file after the run")
	f.StringVar(&runCfg.Restore, "restore", "",
		"Restore the cache and policy state from this file before the run")

	rootCmd.AddCommand(runCmd)
}
