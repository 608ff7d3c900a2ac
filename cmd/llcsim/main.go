// Command llcsim runs synthetic workloads through a last-level cache with a
// selectable replacement policy.
package main

import (
	"github.com/sarchlab/shipd/cmd/llcsim/cmd"
	"github.com/tebeka/atexit"
)

func main() {
	if err := cmd.Execute(); err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
