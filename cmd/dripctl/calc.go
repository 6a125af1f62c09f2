package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/drip"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/service"
)

type calcOptions struct {
	price         float64
	required      int64
	budget        float64
	bufferPercent float64
	bufferShares  int64
}

func newCalcCmd() *cobra.Command {
	opts := calcOptions{}

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Check whether a budget reaches an instrument's DRIP threshold",
		Example: `  dripctl calc --price 82.45 --required 25 --budget 2000
  dripctl calc --price 47.32 --required 50 --budget 0 --buffer-percent 0 --buffer-shares 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalc(cmd, opts)
		},
	}

	cmd.Flags().Float64Var(&opts.price, "price", 0, "price per share")
	cmd.Flags().Int64Var(&opts.required, "required", 0, "shares required by the DRIP")
	cmd.Flags().Float64Var(&opts.budget, "budget", 0, "amount available to invest")
	cmd.Flags().Float64Var(&opts.bufferPercent, "buffer-percent", drip.DefaultBufferPercent, "recommended buffer as a percentage of required shares")
	cmd.Flags().Int64Var(&opts.bufferShares, "buffer-shares", 0, "fixed number of extra shares to recommend")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("required")

	return cmd
}

func runCalc(cmd *cobra.Command, opts calcOptions) error {
	policy, err := drip.NewBufferPolicy(opts.bufferPercent, opts.bufferShares)
	if err != nil {
		return err
	}

	result, err := service.NewCalculatorService(drip.NewCalculator(policy), nil).Calculate(opts.price, opts.required, opts.budget)
	if err != nil {
		return err
	}

	eligible := "no"
	if result.Eligible {
		eligible = "yes"
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Affordable shares:\t%d of %d\n", result.AffordableShares, result.RequiredShares)
	fmt.Fprintf(w, "DRIP eligible:\t%s\n", eligible)
	fmt.Fprintf(w, "Shortfall:\t%s\n", result.ShortfallDisplay)
	fmt.Fprintf(w, "Minimum investment:\t%s\n", result.MinimumInvestmentDisplay)
	fmt.Fprintf(w, "Recommended shares:\t%d\n", result.RecommendedShares)
	fmt.Fprintf(w, "Recommended investment:\t$%.2f\n", result.RecommendedInvestment)
	return w.Flush()
}
