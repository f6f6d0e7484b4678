package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewAnalyticsCmd returns the per-patient analytics subcommand tree.
func NewAnalyticsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Per-patient analytics against cached task results",
	}

	cmd.AddCommand(
		newProfileCmd(),
		newPredictCmd(),
		newStagesCmd(),
	)
	return cmd
}

// stageFlags registers the three stage label flags on cmd.
func stageFlags(cmd *cobra.Command, t, n, m *string) {
	cmd.Flags().StringVar(t, "t", "", "tumor stage label (e.g. T1)")
	cmd.Flags().StringVar(n, "n", "", "node stage label (e.g. N0)")
	cmd.Flags().StringVar(m, "m", "", "metastasis stage label (e.g. M0)")
	_ = cmd.MarkFlagRequired("t")
	_ = cmd.MarkFlagRequired("n")
	_ = cmd.MarkFlagRequired("m")
}

func newProfileCmd() *cobra.Command {
	var t, n, m string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Resolve the survival profile of the most similar patient cluster",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
			defer cancel()

			view, err := cliCtx.Service.SimilarityProfile(ctx, t, n, m)
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx, view)
		},
	}
	stageFlags(cmd, &t, &n, &m)
	return cmd
}

func newPredictCmd() *cobra.Command {
	var t, n, m string

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Evaluate the fitted survival model on a patient stage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
			defer cancel()

			view, err := cliCtx.Service.PredictSurvival(ctx, t, n, m)
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx, view)
		},
	}
	stageFlags(cmd, &t, &n, &m)
	return cmd
}

func newStagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List the valid stage labels per axis",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			labels, err := cliCtx.Service.StageLabels()
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx, labels)
		},
	}
}

//Personal.AI order the ending
