package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zylang-project/zylang/internal/analysis"
	"github.com/zylang-project/zylang/internal/codegen"
	"github.com/zylang-project/zylang/internal/parser"
)

var emitCmd = &cobra.Command{
	Use:   "emit <file>",
	Short: "Run the full parse+analyze+emit pipeline and print the generated Zig source (debug aid)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		generated, _, err := generateFrom(args[0])
		if err != nil {
			return err
		}
		fmt.Print(generated)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(emitCmd)
}

// generateFrom runs Parser -> AnalysisPass -> CodeEmitter for path,
// printing every accumulated parse error to stderr on failure. It returns
// the generated source and the name stem (source filename without
// extension) the build driver uses to name a promoted binary.
func generateFrom(path string) (string, string, error) {
	parsed, p, err := parser.ParseFile(path)
	if err != nil {
		for _, e := range p.Errors() {
			fmt.Fprintln(os.Stderr, e.Format(isColorTerminal()))
		}
		return "", "", fmt.Errorf("parsing failed")
	}

	result := analysis.Run(parsed.Program)

	generated, err := codegen.Emit(parsed.Program, result)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return "", "", err
	}

	return generated, stemOf(path), nil
}
