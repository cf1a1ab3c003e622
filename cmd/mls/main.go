package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suykerbuyk/mlsummary/internal/config"
	"github.com/suykerbuyk/mlsummary/internal/help"
	"github.com/suykerbuyk/mlsummary/internal/logging"
)

// errReported means the failure was already shown to the user; main only
// sets the exit code.
var errReported = errors.New("reported")

var (
	cfg       config.Config
	logger    *zap.Logger
	vaultFlag string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:               "mls",
	Short:             help.TopLevel.Synopsis,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&vaultFlag, "vault", "", "vault directory (overrides vault_path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), help.FormatUsage(help.TopLevel, help.Subcommands))
	})
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "mls: %v\n", err)
		}
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = loaded
	if vaultFlag != "" {
		abs, err := filepath.Abs(vaultFlag)
		if err != nil {
			return fmt.Errorf("resolve vault: %w", err)
		}
		cfg.VaultPath = abs
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	logger, err = logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.Debug("config loaded", zap.String("vault", cfg.VaultPath), zap.String("model", cfg.LLM.Model))
	return nil
}

// newCommand builds a cobra command whose --help text comes from h.
func newCommand(h help.Command, use string, run func(*cobra.Command, []string) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: h.Brief,
		Long:  h.Description,
		RunE:  run,
	}
	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		fmt.Fprint(c.OutOrStdout(), help.FormatTerminal(h))
	})
	return cmd
}
