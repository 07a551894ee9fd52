// Package cli wires the ocode command tree: the interactive chat loop,
// single-shot runs, and the cache, stats, and models utilities.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ocode-ai/ocode/internal/config"
)

var (
	// Global flags
	configPath  string
	modelName   string
	autoApprove bool
	verbose     bool
	resumeLast  bool

	// Logger
	logger *zap.Logger

	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ocode",
	Short: "ocode - local AI coding assistant backed by Ollama",
	Long: `ocode is a terminal coding assistant that runs entirely against a
local Ollama instance.

It detects tool intents in plain English (reading files, git queries,
code search, shell commands), executes them behind a permission gate,
and falls back to the model for everything conversational.

Run without arguments to start the interactive chat loop.`,
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
			path = config.DefaultPath()
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if modelName != "" {
			cfg.Model.Name = modelName
		}
		if autoApprove {
			cfg.Permissions.AutoApprove = true
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.ocode/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&modelName, "model", "m", "", "override the configured model")
	rootCmd.PersistentFlags().BoolVarP(&autoApprove, "yes", "y", false, "auto-approve all tool operations")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Flags().BoolVarP(&resumeLast, "resume", "r", false, "continue from the most recent session")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
