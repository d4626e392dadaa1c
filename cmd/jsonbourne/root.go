package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/rbaliyan/jsonbourne"
	"github.com/spf13/cobra"
)

// RootOptions defines the flags shared by every subcommand
type RootOptions struct {
	Backend  string
	LogLevel string

	lib    *jsonbourne.Lib
	logger *slog.Logger
}

// AddFlags registers the persistent flags on cmd
func (o *RootOptions) AddFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.Backend, "backend", o.Backend,
		"JSON backend to use (json, sonic, goccy, jsoniter, segmentio). Defaults to the preferred available one.")
	flags.StringVar(&o.LogLevel, "log-level", o.LogLevel, "Log level: debug, info, warn or error.")
}

// setup builds the logger and Lib once flags are parsed.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.LogLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", o.LogLevel, err)
	}
	o.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	opts := []jsonbourne.Option{jsonbourne.WithLogger(o.logger)}
	if o.Backend != "" {
		opts = append(opts, jsonbourne.WithBackend(o.Backend))
	}
	o.lib = jsonbourne.New(opts...)
	if o.Backend != "" && o.lib.Which() != o.Backend {
		return &jsonbourne.BackendUnavailableError{Name: o.Backend}
	}
	return nil
}

// NewRootCommand creates the jsonbourne command tree
func NewRootCommand() *cobra.Command {
	o := &RootOptions{LogLevel: "warn"}
	cmd := &cobra.Command{
		Use:          "jsonbourne",
		Short:        "Format JSON with a selectable backend",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.setup(cmd)
		},
	}
	o.AddFlags(cmd)

	cmd.AddCommand(
		newFmtCommand(o),
		newWhichCommand(o),
		newBackendsCommand(o),
		newVersionCommand(),
		newServeCommand(o),
	)
	return cmd
}

func newWhichCommand(o *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "which",
		Short: "Print the selected backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), o.lib.Which())
			return err
		},
	}
}

func newBackendsCommand(o *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List compiled-in backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := o.lib.Registry()
			for _, name := range r.Names() {
				var marks []string
				if name == o.lib.Which() {
					marks = append(marks, "selected")
				}
				if !o.lib.Usable(name) {
					marks = append(marks, "unusable")
				}
				line := name
				if len(marks) > 0 {
					line += " (" + strings.Join(marks, ", ") + ")"
				}
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), jsonbourne.Version)
			return err
		},
	}
}
