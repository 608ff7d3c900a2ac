package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sarchlab/shipd/mem/cache/workload"
	"github.com/spf13/pflag"
)

const envPrefix = "LLCSIM_"

// envName returns the environment variable that sets the flag name, for
// example LLCSIM_OPEN_BROWSER for --open-browser.
func envName(flag string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

func envLookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// applyEnv sets every flag that was not given on the command line from its
// environment variable, if that variable exists.
func applyEnv(flags *pflag.FlagSet, lookup func(string) (string, bool)) error {
	var err error

	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed || f.Name == "env-file" || f.Name == "help" {
			return
		}

		value, ok := lookup(envName(f.Name))
		if !ok {
			return
		}

		if setErr := f.Value.Set(value); setErr != nil {
			err = fmt.Errorf("%s: %w", envName(f.Name), setErr)
		}
	})

	return err
}

// runConfig is everything the run command needs.
type runConfig struct {
	Policy        string
	NumSets       int
	NumWays       int
	Log2BlockSize int
	WorkloadFile  string
	Pattern       string
	Accesses      int
	Seed          int64
	RecordPath    string
	MonitorPort   int
	OpenBrowser   bool
	Checkpoint    string
	Restore       string
}

func defaultRunConfig() runConfig {
	return runConfig{
		Policy:        "shipd",
		NumSets:       2048,
		NumWays:       16,
		Log2BlockSize: workload.DefaultLog2BlockSize,
		Pattern:       "mixed",
		Accesses:      1000000,
		Seed:          1,
		MonitorPort:   -1,
	}
}

func (c runConfig) validate() error {
	if c.Policy != "shipd" && c.Policy != "lru" {
		return fmt.Errorf("unknown policy %q; valid: shipd, lru", c.Policy)
	}

	if c.NumSets <= 0 || c.NumWays <= 0 {
		return fmt.Errorf("cache needs at least one set and one way, got %dx%d",
			c.NumSets, c.NumWays)
	}

	if c.Log2BlockSize < 0 || c.Log2BlockSize >= 64 {
		return fmt.Errorf("log2 block size %d out of range", c.Log2BlockSize)
	}

	if c.Policy == "lru" && (c.Checkpoint != "" || c.Restore != "") {
		return fmt.Errorf("checkpoints are only supported with the shipd policy")
	}

	if c.OpenBrowser && c.MonitorPort < 0 {
		return fmt.Errorf("--open-browser needs --monitor")
	}

	return nil
}

// workloadSpec loads the workload file if one is set and falls back to the
// built-in pattern otherwise. A spec without a block size takes the one of
// the run.
func (c runConfig) workloadSpec() (*workload.Spec, error) {
	var (
		spec *workload.Spec
		err  error
	)

	if c.WorkloadFile != "" {
		spec, err = workload.LoadSpec(c.WorkloadFile)
	} else {
		spec, err = workload.Preset(c.Pattern, c.Accesses, c.Seed)
	}

	if err != nil {
		return nil, err
	}

	if spec.Log2BlockSize == nil {
		log2 := c.Log2BlockSize
		spec.Log2BlockSize = &log2
	}

	return spec, nil
}

func (c runConfig) workloadName() string {
	if c.WorkloadFile != "" {
		return c.WorkloadFile
	}

	return c.Pattern
}
