package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/onconet/healthai/internal/application/analytics"
)

// NewStatsCmd returns the cohort statistics subcommand tree.
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Cohort-level statistics tables",
	}

	cmd.AddCommand(
		newStatsShowCmd(),
		newStatsLocalCmd(),
	)
	return cmd
}

// stageCountTable adapts the reshaped count rows to table output.
type stageCountTable struct {
	Rows []analytics.CountRow `json:"rows"`
}

func (t stageCountTable) TableHeaders() []string {
	return []string{"CATEGORY", "ORGANIZATION", "COUNT"}
}

func (t stageCountTable) TableRows() [][]string {
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = []string{r.Category, strconv.Itoa(r.Organization), strconv.Itoa(r.Count)}
	}
	return rows
}

func newStatsShowCmd() *cobra.Command {
	var axis string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the federated statistics tables for one stage axis",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
			defer cancel()

			view, err := cliCtx.Service.Statistics(ctx, axis)
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat == "table" {
				return printResult(cmd, cliCtx, stageCountTable{Rows: view.StageCounts})
			}
			return printResult(cmd, cliCtx, view)
		},
	}
	cmd.Flags().StringVar(&axis, "axis", "t", "stage axis to break down (t, n, m)")
	return cmd
}

func newStatsLocalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "local",
		Short: "Compute statistics from the locally configured dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
			defer cancel()

			centres, err := cliCtx.Service.LocalStatistics(ctx)
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx, centres)
		},
	}
}

//Personal.AI order the ending
