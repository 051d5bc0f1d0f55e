package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "bakery",
	Short: "Bakery - Biscuit token playground service",
	Long: `Bakery is a playground service for Biscuit authorization tokens.

It builds tokens from Datalog source blocks, runs a verifier against
them, and reports positioned pass/fail annotations for every editor:
  - Token building with authority and extension blocks
  - Verifier execution with checks and allow/deny policies
  - Positioned parse errors and check markers per editor pane
  - Shareable snippets and a sample gallery`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
