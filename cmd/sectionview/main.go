// Command sectionview displays building models with interactive section
// planes.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/sectionview/internal/config"
	"github.com/Faultbox/sectionview/internal/logger"
)

var (
	flags *config.Flags
	cfg   *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sectionview",
	Short: "Building model viewer with section planes",
	Long: `sectionview loads a building model, outlines its structural elements and
cuts it with axis-aligned section planes whose cut faces are capped.`,
	Version:       "0.3.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(flags)
		if err != nil {
			return err
		}

		var file logger.FileConfig
		if cfg.Logging.LogFile != "" {
			file = logger.DefaultFileConfig(cfg.Logging.LogFile)
		}
		if err := logger.InitWithOptions(logger.Options{
			Level:   cfg.Logging.Level,
			File:    file,
			Console: true,
			JSON:    cfg.Logging.JSON,
			Writer:  os.Stderr,
		}); err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		logger.Log.Debug("config loaded", zap.Any("config", cfg))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	flags = config.BindFlags(rootCmd.PersistentFlags())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Log.Error("command failed", zap.Error(err))
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
