package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"biscuit-hq/bakery/pkg/cli"
	"biscuit-hq/bakery/pkg/datalog/parser"
	"biscuit-hq/bakery/pkg/playground"
)

var lintFlags struct {
	file   string
	dir    string
	format string
}

// lintFinding is one positioned parse failure in a linted file.
type lintFinding struct {
	File     string                    `json:"file"`
	Message  string                    `json:"message"`
	Position playground.SourcePosition `json:"position"`
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate Datalog files",
	Long: `Validate Datalog source files for syntax errors.

Each file is parsed as one block; every failure is reported with its
line and column range.

Examples:
  # Lint a single file
  bakery lint --file policy.datalog

  # Lint a directory
  bakery lint --dir policies/

  # JSON output for CI
  bakery lint --file policy.datalog --format json`,
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "file to validate")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of files to validate")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

func runLint(cmd *cobra.Command, args []string) error {
	if lintFlags.file == "" && lintFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}

	var files []string
	if lintFlags.file != "" {
		files = append(files, lintFlags.file)
	}
	if lintFlags.dir != "" {
		matches, err := filepath.Glob(filepath.Join(lintFlags.dir, "*.datalog"))
		if err != nil {
			return fmt.Errorf("listing files: %w", err)
		}
		files = append(files, matches...)
	}

	var findings []lintFinding
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return cli.NewCommandError("lint", err)
		}
		src := string(data)
		_, failures := parser.Parse(src)
		for _, failure := range failures {
			findings = append(findings, lintFinding{
				File:     file,
				Message:  failure.Error(),
				Position: playground.ResolvePosition(src, failure.Span),
			})
		}
	}

	if lintFlags.format == "json" {
		if err := cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, findings); err != nil {
			return err
		}
	} else {
		for _, f := range findings {
			fmt.Printf("%s:%d:%d: %s\n", f.File, f.Position.LineStart+1, f.Position.ColumnStart+1, f.Message)
		}
		fmt.Printf("%d file(s) checked, %d problem(s)\n", len(files), len(findings))
	}

	if len(findings) > 0 {
		return fmt.Errorf("lint found %d problem(s)", len(findings))
	}
	return nil
}
