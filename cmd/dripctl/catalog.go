package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/database"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/drip"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/model"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/repository"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/service"
)

func newCatalogCmd() *cobra.Command {
	var (
		dbPath string
		sector string
	)

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the active catalog with minimum DRIP investments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			db, err := database.Setup(ctx, dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := repository.NewInstrumentRepository(db)
			calc := service.NewCalculatorService(drip.NewCalculator(drip.DefaultPolicy()), repo)

			instruments, err := repo.Search(ctx, model.InstrumentFilter{
				Sector: sector,
				SortBy: model.SortBySymbol,
				Order:  model.OrderAsc,
			})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SYMBOL\tNAME\tPRICE\tREQUIRED\tRECOMMENDED\tMINIMUM")
			for _, in := range instruments {
				s := calc.Summarize(in)
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
					s.Symbol,
					s.Name,
					drip.FormatCurrency(decimal.NewFromFloat(s.Price)),
					s.RequiredShares,
					s.RecommendedShares,
					drip.FormatCurrency(decimal.NewFromFloat(s.MinimumInvestment)),
				)
			}
			return w.Flush()
		},
	}

	addDBFlag(cmd, &dbPath)
	cmd.Flags().StringVar(&sector, "sector", "", "only list instruments in this sector")
	return cmd
}
