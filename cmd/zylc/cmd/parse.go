package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zylang-project/zylang/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a source file and print its AST (debug aid)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parsed, p, err := parser.ParseFile(args[0])
		if err != nil {
			for _, e := range p.Errors() {
				fmt.Fprintln(os.Stderr, e.Format(isColorTerminal()))
			}
			return fmt.Errorf("parsing failed")
		}
		fmt.Println(parsed.Program.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
