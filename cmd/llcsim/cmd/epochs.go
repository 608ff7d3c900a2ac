package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/sarchlab/shipd/datarecording"
	"github.com/sarchlab/shipd/mem/trace"
	"github.com/spf13/cobra"
)

var phaseChangesOnly bool

var epochsCmd = &cobra.Command{
	Use:   "epochs FILE",
	Short: "List the epochs recorded by run --record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, err := datarecording.NewReader(args[0])
		if err != nil {
			return err
		}
		defer reader.Close()

		reader.MapTable(trace.EpochTable, trace.EpochEntry{})

		params := datarecording.QueryParams{OrderBy: "Policy, Epoch"}
		if phaseChangesOnly {
			params.Where = "PhaseChange = ?"
			params.Args = []any{true}
		}

		results, _, err := reader.Query(cmd.Context(), trace.EpochTable, params)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w,
			"POLICY\tEPOCH\tMISS RATE\tSTREAM HIT RATIO\tPHASE CHANGE\tTHRESHOLD")

		for _, r := range results {
			e := r.(*trace.EpochEntry)
			fmt.Fprintf(w, "%s\t%d\t%.4f\t%.4f\t%t\t%d -> %d\n",
				e.Policy, e.Epoch, e.MissRate, e.StreamHitRatio,
				e.PhaseChange, e.OldThreshold, e.NewThreshold)
		}

		return w.Flush()
	},
}

func init() {
	epochsCmd.Flags().BoolVar(&phaseChangesOnly, "phase-changes", false,
		"Only list epochs that detected a phase change")

	rootCmd.AddCommand(epochsCmd)
}
