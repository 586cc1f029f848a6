package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"txtsync/internal/app"
	"txtsync/internal/fetch"
	"txtsync/pkg/logging"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (invalid configuration, runtime failure).
	ExitCodeError = 1
	// ExitCodeUsage indicates invalid arguments or flags.
	ExitCodeUsage = 2
)

// Flags shared by every command.
var (
	rootDebug     bool
	rootLogFormat string
)

// Flags of the supervising root command.
var (
	rootHTTPTimeout    time.Duration
	rootUserAgent      string
	rootMetricsAddress string
)

// rootCmd supervises the configuration files given as arguments until the
// process is terminated.
var rootCmd = &cobra.Command{
	Use:   "txtsync [flags] CONFIG...",
	Short: "Keep text files in sync with remote sources",
	Long: `txtsync assembles text files such as ads.txt from remote HTTP sources and
keeps them in sync.

Each CONFIG file lists one or more destinations and their sources. txtsync
rewrites a destination whenever its sources change, on every update interval,
and whenever the file or one of its parent directories is modified or removed
by someone else. Edits to a CONFIG file are picked up without a restart.

Sources that cannot be fetched are listed in an Error block of the generated
file; when a previous copy is cached it is used and listed in a Warning block.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage:      true,
	Args:              requireConfigArgs,
	PersistentPreRunE: initLogging,
	RunE:              runRoot,
}

// usageError marks errors caused by how the command was invoked.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func requireConfigArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return &usageError{msg: fmt.Sprintf("at least one configuration file is required\n\nUsage:\n  %s", cmd.UseLine())}
	}
	return nil
}

func initLogging(cmd *cobra.Command, args []string) error {
	format, err := logging.ParseFormat(rootLogFormat)
	if err != nil {
		return &usageError{msg: err.Error()}
	}

	level := logging.LevelInfo
	if rootDebug {
		level = logging.LevelDebug
	}
	logging.Init(level, cmd.ErrOrStderr(), format)
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	if rootHTTPTimeout <= 0 {
		return &usageError{msg: fmt.Sprintf("--http-timeout must be positive, got %s", rootHTTPTimeout)}
	}

	cfg := app.NewConfig(rootDebug, args)
	cfg.LogFormat, _ = logging.ParseFormat(rootLogFormat)
	cfg.LogOutput = cmd.ErrOrStderr()
	cfg.HTTPTimeout = rootHTTPTimeout
	cfg.UserAgent = rootUserAgent
	cfg.MetricsAddress = rootMetricsAddress

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "txtsync version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	var usage *usageError
	if errors.As(err, &usage) {
		return ExitCodeUsage
	}
	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCheckCmd())

	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&rootLogFormat, "log-format", string(logging.FormatText), "Log format (text, json)")

	rootCmd.Flags().DurationVar(&rootHTTPTimeout, "http-timeout", fetch.DefaultHTTPTimeout, "Timeout for a single source request")
	rootCmd.Flags().StringVar(&rootUserAgent, "user-agent", fetch.DefaultUserAgent, "User-Agent sent to sources")
	rootCmd.Flags().StringVar(&rootMetricsAddress, "metrics-address", "", "Serve Prometheus metrics on this address, e.g. :9090 (disabled when empty)")
}
