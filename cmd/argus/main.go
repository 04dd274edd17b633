package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/argus-ci/argus-cli/internal/config"
	"github.com/argus-ci/argus-cli/internal/logger"
	"github.com/argus-ci/argus-cli/internal/telemetry"
)

var (
	configFile string

	// Signal-aware context for graceful cancellation
	rootCtx    context.Context
	rootCancel context.CancelFunc

	// appLog is the shared stderr logger; publish output goes to stdout.
	appLog = logger.Default()
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("Config file (default: %s in the project root)", config.FileName))
	rootCmd.PersistentFlags().Bool("debug", false, "Verbose output, no interactive elements")

	// Add --version flag to root command (same behavior as version subcommand)
	rootCmd.Flags().BoolP("version", "V", false, "Print version information")
}

var rootCmd = &cobra.Command{
	Use:   "argus",
	Short: "argus - Publish Storybooks for visual review",
	Long: `Argus captures your Storybook and publishes it for visual review.
It works out how your Storybook is built or served, pins the run to a commit
and branch, and hands the resolved plan to the publish pipeline.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Handle --version flag on root command
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("argus version %s (%s)\n", Version, Build)
			return
		}
		// No subcommand - show help
		_ = cmd.Help() // Help() always returns nil for cobra commands
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupSignalContext()

		if err := config.Initialize(configFile); err != nil {
			FatalError("failed to load configuration: %v", err)
		}

		applyVerbosity(cmd)

		if err := telemetry.Init(rootCtx, "argus", Version); err != nil {
			WarnError("failed to initialize telemetry: %v", err)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		telemetry.Shutdown(ctx)

		// Cancel the signal context to clean up resources
		if rootCancel != nil {
			rootCancel()
		}
	},
}

func setupSignalContext() {
	rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// applyVerbosity propagates --debug to the logger so all subsequent output
// respects the user's preference. Piped output drops color codes.
func applyVerbosity(cmd *cobra.Command) {
	if boolFlag(cmd, "debug") {
		appLog.SetVerbose(true)
		appLog.SetInteractive(false)
		if used := config.ConfigFileUsed(); used != "" {
			appLog.Debugf("Loaded configuration from %s", used)
		}
	}
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		appLog.SetInteractive(false)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
