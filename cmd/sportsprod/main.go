package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sportsprod/erp/pkg/config"
	"github.com/sportsprod/erp/pkg/interfaces/cli/commands"
	"github.com/sportsprod/erp/pkg/logging"
)

var flags struct {
	format       string
	outputDir    string
	scenarioFile string
	envFile      string
	verbose      bool
}

var (
	cfg    *config.Config
	logger *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:           "sportsprod",
	Short:         "Scenario planning for the SportsProd launch",
	Long:          "Cost curves, COGS, inventory, marketing CAC, deposit and raise modelling across planning scenarios.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, argv []string) error {
		var envFiles []string
		if flags.envFile != "" {
			envFiles = append(envFiles, flags.envFile)
		}

		var err error
		cfg, err = config.LoadConfig(envFiles...)
		if err != nil {
			return err
		}

		level := cfg.LogLevel
		if flags.verbose {
			level = "debug"
		}
		logger, err = logging.New(level, cfg.LogFormat)
		if err != nil {
			return err
		}

		if flags.scenarioFile == "" {
			flags.scenarioFile = cfg.ScenarioFile
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.format, "format", "text", "Output format: text, json, yaml, csv")
	pf.StringVar(&flags.outputDir, "output", "", "Output directory for results (optional)")
	pf.StringVar(&flags.scenarioFile, "scenarios", "", "Scenario YAML file (default from SPORTSPROD_SCENARIO_FILE)")
	pf.StringVar(&flags.envFile, "env", "", "Env file to load (default .env)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(
		newReportCmd(),
		newCompareCmd(),
		newListCmd(),
		newCostCmd(),
		newCOGSCmd(),
		newInventoryCmd(),
		newMarketingCmd(),
		newDepositCmd(),
		newRaiseCmd(),
		newToolingCmd(),
		newGenerateCmd(),
		newServeCmd(),
	)
}

// newApp builds the CLI application from the resolved flags
func newApp() (*commands.App, error) {
	return newAppWithRetention(0)
}

// newAppWithRetention is newApp for long-running processes that must bound
// the events kept in memory
func newAppWithRetention(eventRetention int) (*commands.App, error) {
	return commands.NewApp(commands.Config{
		ScenarioFile:   flags.scenarioFile,
		OutputDir:      flags.outputDir,
		Format:         flags.format,
		Verbose:        flags.verbose,
		EventRetention: eventRetention,
	}, logger, os.Stdout)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
