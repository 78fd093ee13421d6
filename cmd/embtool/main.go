package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/necropreneur/embedding-inspector/internal/app"
	"github.com/necropreneur/embedding-inspector/internal/inspector"
)

func main() {
	deps, err := app.Build("embtool")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := newRootCmd(deps).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(deps app.Deps) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "embtool",
		Short:         "Inspect, mix, and save text-to-image embeddings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		inspectCmd(deps),
		listCmd(deps),
		tokenizeCmd(deps),
		mixCmd(deps),
	)

	return rootCmd
}

func inspectCmd(deps app.Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <text>",
		Short: "Show metadata, values, and nearest neighbors of an embedding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := deps.Inspector.Inspect(cmd.Context(), args[0])
			if err != nil {
				if isOperational(err) {
					fmt.Fprintln(cmd.OutOrStdout(), err.Error())
					return nil
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func listCmd(deps app.Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List embeddings loaded from the embeddings directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), deps.Inspector.ListLoaded())
			return nil
		},
	}
}

func tokenizeCmd(deps app.Deps) *cobra.Command {
	var sendToMix bool
	cmd := &cobra.Command{
		Use:   "tokenize <text>",
		Short: "Tokenize text into vocabulary IDs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := deps.Inspector.MiniTokenize(args[0], sendToMix, nil, false)
			if err != nil {
				if isOperational(err) {
					fmt.Fprintln(cmd.OutOrStdout(), err.Error())
					return nil
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Tokens)
			if sendToMix {
				for i, slot := range res.Slots {
					fmt.Fprintf(cmd.OutOrStdout(), "slot %d: %s\n", i, slot)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&sendToMix, "send-to-mix", false, "Show the mixer slots the IDs would fill")
	return cmd
}

func mixCmd(deps app.Deps) *cobra.Command {
	var (
		names      []string
		weights    []float32
		multiplier float32
		concat     bool
		filename   string
		overwrite  bool
		step       string
	)
	cmd := &cobra.Command{
		Use:   "mix",
		Short: "Mix up to six embeddings and save the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(names) == 0 {
				return fmt.Errorf("at least one --name is required")
			}
			if len(names) > inspector.MaxNumMix {
				return fmt.Errorf("at most %d --name flags are allowed", inspector.MaxNumMix)
			}
			if strings.TrimSpace(filename) == "" {
				return fmt.Errorf("--filename is required")
			}

			entries := make([]inspector.MixEntry, len(names))
			for i, name := range names {
				weight := float32(1.0)
				if i < len(weights) {
					weight = weights[i]
				}
				entries[i] = inspector.MixEntry{Name: name, Weight: weight}
			}
			spec := inspector.MixSpec{
				Entries:    entries,
				Multiplier: multiplier,
				Concat:     concat,
			}

			report, err := deps.Inspector.Save(cmd.Context(), spec, filename, overwrite, step)
			if err != nil {
				if isOperational(err) {
					if report == "" {
						report = err.Error()
					}
					fmt.Fprintln(cmd.OutOrStdout(), report)
					return nil
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&names, "name", nil, "Embedding name or #ID to mix (repeatable, up to 6)")
	cmd.Flags().Float32SliceVar(&weights, "weight", nil, "Weight for each --name in order (default 1.0)")
	cmd.Flags().Float32Var(&multiplier, "multiplier", 1.0, "Global multiplier applied to the result")
	cmd.Flags().BoolVar(&concat, "concat", false, "Concatenate rows instead of summing")
	cmd.Flags().StringVar(&filename, "filename", "", "Filename to save under the embeddings directory")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing file")
	cmd.Flags().StringVar(&step, "step", "", "Optional training step to record")
	return cmd
}

// taxonomy failures are user-facing output, not command errors
func isOperational(err error) bool {
	for _, sentinel := range []error{
		inspector.ErrResolution,
		inspector.ErrEmptyTokenization,
		inspector.ErrDimensionMismatch,
		inspector.ErrNothingToMix,
		inspector.ErrFileExists,
		inspector.ErrSave,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
