package main

import (
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/tickworks/internal/simulate"
	"github.com/napolitain/tickworks/internal/tick"
)

func simulateCmd() *cobra.Command {
	var p simulate.Params
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a single machine until a condition holds",
		Example: `  tickworks simulate --recipe copper_smelting --fill 4 --until 'Outputs["copper"] >= 4'
  tickworks simulate --recipe steel_smelting --fill 3 --max-ticks 100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := cfg.Simulate
			flags := cmd.Flags()
			if flags.Changed("recipe") {
				sc.Recipe = p.Recipe
			}
			if flags.Changed("fill") {
				sc.Fill = p.Fill
			}
			if flags.Changed("until") {
				sc.Until = p.Until
			}
			if flags.Changed("max-ticks") {
				sc.MaxTicks = p.MaxTicks
			}
			return runSimulate(simulate.Params{
				Recipe:   sc.Recipe,
				Fill:     sc.Fill,
				Until:    sc.Until,
				MaxTicks: sc.MaxTicks,
			})
		},
	}
	cmd.Flags().StringVarP(&p.Recipe, "recipe", "r", "", "Recipe to run")
	cmd.Flags().Uint32Var(&p.Fill, "fill", 1, "Cycles of input loaded before the first tick")
	cmd.Flags().StringVarP(&p.Until, "until", "u", "", "Stop condition over Tick, Banked, Inputs and Outputs")
	cmd.Flags().Uint64Var(&p.MaxTicks, "max-ticks", 10_000, "Tick budget")
	return cmd
}

func runSimulate(p simulate.Params) error {
	banner()
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	rep, err := simulate.Run(cat, p, tick.WithLogger(logger), tick.WithLogging(cfg.TickLog))
	if err != nil {
		return err
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Slot", "Resource", "Amount"}),
	)
	for _, b := range rep.Inputs {
		_ = table.Append([]string{"input", b.Resource, humanize.Comma(int64(b.Amount))})
	}
	for _, b := range rep.Outputs {
		_ = table.Append([]string{"output", b.Resource, humanize.Comma(int64(b.Amount))})
	}
	_ = table.Render()

	status := color.New(color.FgGreen, color.Bold)
	verdict := "condition held"
	if !rep.Held {
		status = color.New(color.FgYellow, color.Bold)
		verdict = "budget reached"
	}
	status.Printf("\n%s: %s after %s ticks, %s cycles, %s ticks banked\n",
		rep.Recipe, verdict,
		humanize.Comma(int64(rep.Ticks)),
		humanize.Comma(int64(rep.Cycles)),
		humanize.Comma(int64(rep.Banked)),
	)
	return nil
}
