package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"biscuit-hq/bakery/pkg/cli"
	"biscuit-hq/bakery/pkg/playground"
)

var execFlags struct {
	blocks   []string
	verifier string
	query    string
	format   string
}

var execCmd = &cobra.Command{
	Use:   "exec",
	Short: "Execute a playground session from the command line",
	Long: `Execute a playground session without starting the server.

The first --block is the token's authority block; each further --block
becomes an extension block. The result is the same document the HTTP
API returns.

Examples:
  # Build a token and verify it
  bakery exec --block 'user("alice");' --verifier 'allow if user("alice");'

  # Add an extension block and a query
  bakery exec \
    --block 'user("alice");' \
    --block 'check if operation("read");' \
    --verifier 'operation("read"); allow if user("alice");' \
    --query 'data($name) <- user($name)'

  # JSON output for scripting
  bakery exec --verifier 'allow if true;' --format json`,
	RunE: runExec,
}

func init() {
	rootCmd.AddCommand(execCmd)

	execCmd.Flags().StringArrayVarP(&execFlags.blocks, "block", "b", nil, "token block source (repeatable, authority first)")
	execCmd.Flags().StringVar(&execFlags.verifier, "verifier", "", "verifier source")
	execCmd.Flags().StringVarP(&execFlags.query, "query", "q", "", "query to run after verification")
	execCmd.Flags().StringVar(&execFlags.format, "format", "json", "output format: text, json")
}

func runExec(cmd *cobra.Command, args []string) error {
	if len(execFlags.blocks) == 0 && execFlags.verifier == "" {
		return fmt.Errorf("at least one --block or a --verifier must be specified")
	}

	req := &playground.Request{TokenBlocks: execFlags.blocks}
	if execFlags.verifier != "" {
		req.VerifierCode = &execFlags.verifier
	}
	if execFlags.query != "" {
		req.Query = &execFlags.query
	}

	result, err := playground.New().Execute(cmd.Context(), req)
	if err != nil {
		return cli.NewCommandError("exec", err)
	}

	formatter := cli.NewFormatter(cli.OutputFormat(execFlags.format))
	if execFlags.format == "text" {
		fmt.Print(result.TokenContent)
		if result.VerifierResult != nil {
			fmt.Println(*result.VerifierResult)
		}
		return nil
	}
	return formatter.FormatTo(os.Stdout, result)
}
