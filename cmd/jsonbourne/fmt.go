package main

import (
	"fmt"
	"io"

	"github.com/rbaliyan/jsonbourne"
	"github.com/spf13/cobra"
)

// FmtOptions defines the flags of the fmt command
type FmtOptions struct {
	Compact  bool
	SortKeys bool
	JSONC    bool
	Lines    bool
	Output   string
}

// AddFlags registers the fmt flags on cmd
func (f *FmtOptions) AddFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.BoolVarP(&f.Compact, "compact", "c", f.Compact, "Write compact output instead of indented.")
	flags.BoolVarP(&f.SortKeys, "sort-keys", "s", f.SortKeys, "Sort object keys.")
	flags.BoolVar(&f.JSONC, "jsonc", f.JSONC, "Accept comments and trailing commas.")
	flags.BoolVar(&f.Lines, "lines", f.Lines, "Read and write JSON Lines.")
	flags.StringVarP(&f.Output, "output", "o", f.Output,
		"Write to a file instead of stdout. .zst and .gz paths are compressed.")
}

func newFmtCommand(o *RootOptions) *cobra.Command {
	f := &FmtOptions{}
	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Reformat JSON from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.run(cmd, o.lib, args)
		},
	}
	f.AddFlags(cmd)
	return cmd
}

func (f *FmtOptions) run(cmd *cobra.Command, lib *jsonbourne.Lib, args []string) error {
	decOpts := []jsonbourne.DecodeOption{jsonbourne.WithUseNumber()}
	if f.JSONC {
		decOpts = append(decOpts, jsonbourne.WithJSONC())
	}
	if f.Lines {
		decOpts = append(decOpts, jsonbourne.WithLines())
	}

	var (
		v   any
		err error
	)
	if len(args) == 1 && args[0] != "-" {
		v, err = lib.ReadFile(cmd.Context(), args[0], decOpts...)
	} else {
		var data []byte
		if data, err = io.ReadAll(cmd.InOrStdin()); err != nil {
			return err
		}
		v, err = lib.Loads(data, decOpts...)
	}
	if err != nil {
		return err
	}

	encOpts := []jsonbourne.EncodeOption{jsonbourne.WithAppendNewline()}
	if !f.Compact {
		encOpts = append(encOpts, jsonbourne.WithPretty())
	}
	if f.SortKeys {
		encOpts = append(encOpts, jsonbourne.WithSortKeys())
	}

	if f.Output != "" {
		if f.Lines {
			values, _ := v.([]any)
			_, err = lib.WriteLinesFile(cmd.Context(), f.Output, values, encOpts...)
		} else {
			_, err = lib.WriteFile(cmd.Context(), f.Output, v, encOpts...)
		}
		return err
	}

	var out []byte
	if f.Lines {
		values, _ := v.([]any)
		out, err = lib.DumpsLines(values, encOpts...)
	} else {
		out, err = lib.Dumpb(v, encOpts...)
	}
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
