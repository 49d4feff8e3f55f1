package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/zylang-project/zylang/internal/analysis"
	"github.com/zylang-project/zylang/internal/parser"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Run the AnalysisPass and print its flags and reassignment set (debug aid)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parsed, p, err := parser.ParseFile(args[0])
		if err != nil {
			for _, e := range p.Errors() {
				fmt.Fprintln(os.Stderr, e.Format(isColorTerminal()))
			}
			return fmt.Errorf("parsing failed")
		}

		result := analysis.Run(parsed.Program)

		fmt.Printf("needs_runtime:   %v\n", result.NeedsRuntime)
		fmt.Printf("needs_allocator: %v\n", result.NeedsAllocator)

		names := make([]string, 0, len(result.Reassigned))
		for name := range result.Reassigned {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Printf("reassigned:      %v\n", names)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
