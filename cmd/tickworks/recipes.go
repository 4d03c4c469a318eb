package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/tickworks/internal/models"
	"github.com/napolitain/tickworks/internal/recipe"
	"github.com/napolitain/tickworks/internal/resource"
)

func recipesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recipes",
		Short: "List recipes, build costs and modes of the game data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecipes()
		},
	}
}

func runRecipes() error {
	banner()
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	infoColor := color.New(color.FgYellow)

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Recipe", "Building", "Ticks", "Inputs", "Outputs", "Flags"}),
	)
	for _, r := range cat.Recipes() {
		var flags []string
		if r.Handcraft {
			flags = append(flags, "handcraft")
		}
		if cat.Locked(r.Name) {
			flags = append(flags, "locked")
		}
		row := []string{
			r.Name,
			string(r.Category),
			humanize.Comma(int64(r.CycleTime)),
			formatItems(r.Inputs),
			formatItems(r.Outputs),
			strings.Join(flags, ", "),
		}
		_ = table.Append(row)
	}
	_ = table.Render()

	if cfg.Quiet {
		return nil
	}
	fmt.Println()
	infoColor.Println("Build costs:")
	for _, bt := range models.AllBuildingTypes() {
		fmt.Printf("   • %-9s %s\n", bt, formatCosts(cat.Cost(bt)))
	}
	infoColor.Println("Modes:")
	for _, name := range cat.ModeNames() {
		m, err := cat.Mode(name)
		if err != nil {
			return err
		}
		fmt.Printf("   • %-9s victory %s\n", name, m.Victory)
	}
	return nil
}

func formatItems(items []recipe.Item) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return strings.Join(parts, " + ")
}

func formatCosts(costs []resource.Cost) string {
	if len(costs) == 0 {
		return "free"
	}
	parts := make([]string, len(costs))
	for i, c := range costs {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}
