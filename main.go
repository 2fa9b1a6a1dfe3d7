package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var jsonOutput bool

func readSource(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading script: %w", err)
	}
	return string(data), nil
}

func printFindings(w io.Writer, errors, warnings []FindingData) {
	for _, e := range errors {
		if e.Line > 0 {
			fmt.Fprintf(w, "error: line %d: %s\n", e.Line, e.Message)
		} else {
			fmt.Fprintf(w, "error: %s\n", e.Message)
		}
	}
	for _, warn := range warnings {
		fmt.Fprintf(w, "warning: %s\n", warn.Message)
	}
}

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [script]",
		Short: "Evaluate a script, build its parts, and print the production report",
		Long: `Evaluate a Burin script into a part plan, validate the plan, build
every part with the geometry backend, and print the production report.
Reads from stdin when no script path is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(args)
			if err != nil {
				return err
			}

			result := NewApp().Evaluate(source)
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			printFindings(cmd.ErrOrStderr(), result.Errors, result.Warnings)
			if len(result.Errors) > 0 {
				return fmt.Errorf("evaluation failed with %d error(s)", len(result.Errors))
			}
			fmt.Fprint(cmd.OutOrStdout(), result.Report)
			for _, m := range result.Meshes {
				fmt.Fprintf(cmd.OutOrStdout(), "part %s: %d vertices, %d triangles\n",
					m.PartName, len(m.Vertices)/3, len(m.Indices)/3)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the full result as JSON")
	return cmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [script]",
		Short: "Evaluate and validate a script without building geometry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(args)
			if err != nil {
				return err
			}

			result := NewApp().Check(source)
			printFindings(cmd.ErrOrStderr(), result.Errors, result.Warnings)
			if len(result.Errors) > 0 {
				return fmt.Errorf("check failed with %d error(s)", len(result.Errors))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d nodes\n", result.Nodes)
			return nil
		},
	}
}

func main() {
	root := &cobra.Command{
		Use:           "burin",
		Short:         "Burin evaluates part scripts into validated plans and solid geometry",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newEvalCmd(), newCheckCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
