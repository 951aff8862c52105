package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"knower/internal/config"
	"knower/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string
	debugLogs  bool

	// Loaded configuration, available to every subcommand
	cfg *config.Config

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "knower",
	Short: "knower - epistemic tableau prover",
	Long: `knower proves formulas of first-order epistemic logic by refutation:
the negated goal is expanded in a tableau, and a proof is found when
every branch closes on a contradiction.

The language covers predicates, equality, the boolean connectives,
bounded universal quantification, and a knows(agent, F) modality with
arbitrary nesting.

Examples:
  knower prove "p | ~p"
  knower prove --axiom "forall X: p(X)" "p(a) & p(b)"
  knower run problems/socks.yaml
  knower watch problems/`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		path := configPath
		if path == "" {
			path = os.Getenv("KNOWER_CONFIG")
		}
		if path == "" {
			path = config.DefaultPath()
		}
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
		if debugLogs {
			cfg.Logging.DebugMode = true
			cfg.Logging.Level = "debug"
		}
		return logging.Initialize(cfg.Logging)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Shutdown()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ./knower.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugLogs, "debug-logs", false, "Write per-category debug logs")

	rootCmd.AddCommand(proveCmd)
	rootCmd.AddCommand(runProblemsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
