package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/tickworks/internal/game"
	"github.com/napolitain/tickworks/internal/resource"
	"github.com/napolitain/tickworks/internal/solver"
	"github.com/napolitain/tickworks/internal/tick"
)

func playCmd() *cobra.Command {
	var (
		mode   string
		budget uint64
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game mode with its built-in strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("mode") {
				cfg.Mode = mode
			}
			if cmd.Flags().Changed("budget") {
				cfg.Budget = budget
			}
			return runPlay()
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Game mode: tutorial or standard (default from config)")
	cmd.Flags().Uint64Var(&budget, "budget", 0, "Tick budget of the strategy (default from config)")
	return cmd
}

func runPlay() error {
	banner()
	infoColor := color.New(color.FgYellow)
	successColor := color.New(color.FgGreen, color.Bold)

	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	m, err := cat.Mode(cfg.Mode)
	if err != nil {
		return err
	}
	s := solver.NewSolver(cat, solver.WithBudget(cfg.Budget), solver.WithLogger(logger))
	strategy, err := s.Strategy(cfg.Mode)
	if err != nil {
		return err
	}

	if !cfg.Quiet {
		infoColor.Printf("Playing %s, victory is %s\n\n", m.Name, m.Victory)
	}

	withSummary := func(c *tick.Clock, start *game.Starting) (*tick.Clock, resource.Bundle, error) {
		if !cfg.Quiet {
			infoColor.Println("📦 Starting with:")
			for _, line := range start.Summary() {
				fmt.Printf("   • %s\n", line)
			}
			fmt.Println()
		}
		return strategy(c, start)
	}

	h := game.NewHarness(game.WithLogger(logger), game.WithTickLog(cfg.TickLog))
	res, err := h.Play(m, withSummary)
	if err != nil {
		return err
	}

	if !cfg.Quiet {
		printActions(s.Actions)
	}
	successColor.Printf("\n✓ %s won at tick %s\n", res.Mode, humanize.Comma(int64(res.Ticks)))
	return nil
}

func printActions(actions []solver.Action) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"#", "Tick", "Action", "Detail"}),
	)
	for i, a := range actions {
		row := []string{
			fmt.Sprintf("%d", i+1),
			humanize.Comma(int64(a.Tick)),
			strings.ToUpper(string(a.Kind)),
			a.Detail,
		}
		_ = table.Append(row)
	}
	_ = table.Render()
}
