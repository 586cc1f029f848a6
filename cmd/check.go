package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"txtsync/internal/config"
	"txtsync/internal/formatting"
	"txtsync/pkg/logging"
)

type checkOptions struct {
	output  string
	noColor bool
}

// newCheckCmd creates the command that validates configuration files without
// fetching anything or touching destinations.
func newCheckCmd() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check CONFIG...",
		Short: "Validate configuration files and list their destinations",
		Long: `Parses each CONFIG file the same way the supervisor does and prints the
destinations, update intervals and sources it describes.

Invalid files are reported on stderr with suggestions; the command exits
non-zero if any file is invalid.

Examples:
  txtsync check /etc/txtsync/ads.yaml
  txtsync check -o json a.yaml b.yaml`,
		Args: requireConfigArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", string(formatting.FormatTable), "Output format (table, json, yaml)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored table output")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *checkOptions) error {
	format, err := formatting.ParseOutputFormat(opts.output)
	if err != nil {
		return &usageError{msg: err.Error()}
	}

	var views []formatting.DestinationView
	invalid := 0
	for _, path := range args {
		doc, err := config.LoadFile(path)
		if err != nil {
			invalid++
			var pe *config.ParseError
			if errors.As(err, &pe) {
				fmt.Fprintln(cmd.ErrOrStderr(), pe.DetailedError())
			} else {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}
			continue
		}
		logging.Debug("Check", "%s: %d destinations", path, len(doc))
		views = append(views, formatting.Views(path, doc)...)
	}

	formatter := formatting.NewFactory().CreateFormatter(formatting.Options{
		Format: format,
		Color:  !opts.noColor,
	})
	if err := formatter.FormatDestinations(cmd.OutOrStdout(), views); err != nil {
		return err
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d configuration files are invalid", invalid, len(args))
	}
	return nil
}
