package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/napolitain/tickworks/internal/catalog"
	"github.com/napolitain/tickworks/internal/config"
	"github.com/napolitain/tickworks/internal/logging"
)

var (
	configFile string
	dataFile   string
	logLevel   string
	tickLog    bool
	quiet      bool

	cfg    *config.Config
	logger *log.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tickworks",
		Short: "Discrete-tick factory simulator",
		Long: `Simulates mining, smelting, assembling and research chains on a
logical clock and plays the built-in game modes to victory.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "Path to YAML config file")
	flags.StringVarP(&dataFile, "data", "d", "", "Path to game data YAML (default: embedded data)")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.BoolVar(&tickLog, "tick-log", false, "Log every clock advance")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Minimal output")

	rootCmd.AddCommand(playCmd(), recipesCmd(), simulateCmd())
	return rootCmd
}

// setup loads the config file and lets explicitly set flags override it.
func setup(cmd *cobra.Command, args []string) error {
	cfg = config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("config %s: %w", configFile, err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Data = dataFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("tick-log") {
		cfg.TickLog = tickLog
	}
	if flags.Changed("quiet") {
		cfg.Quiet = quiet
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	l, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

func loadCatalog() (*catalog.Catalog, error) {
	cat, err := catalog.Load(cfg.Data)
	if err != nil {
		return nil, fmt.Errorf("loading game data: %w", err)
	}
	return cat, nil
}

func banner() {
	if cfg.Quiet {
		return
	}
	titleColor := color.New(color.FgCyan, color.Bold)
	titleColor.Println("\n╭───────────────────────────╮")
	titleColor.Println("│  tickworks                │")
	titleColor.Println("│  discrete-tick factories  │")
	titleColor.Println("╰───────────────────────────╯")
	fmt.Println()
}
