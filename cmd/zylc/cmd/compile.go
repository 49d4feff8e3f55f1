package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zylang-project/zylang/internal/build"
	"github.com/zylang-project/zylang/internal/config"
)

var (
	runtimeSearchPaths []string
	keepTemp           bool
)

// compileCmd is the end-user entry point named in spec §6: "compile
// <source_path> [<output_path>]".
var compileCmd = &cobra.Command{
	Use:   "compile <source> [output]",
	Short: "Compile a zylang source file to a native executable",
	Long: `Compile runs the full pipeline: parse the source, run the
AnalysisPass, emit Zig source, inline the support runtime if needed, and
invoke zig build-exe to produce a stand-alone binary.

Examples:
  zylc compile script.zy
  zylc compile script.zy ./bin/script
  zylc compile script.zy --runtime-path ./vendor/runtime.zig`,
	Args: cobra.RangeArgs(1, 2),
	RunE: compileScript,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringArrayVar(&runtimeSearchPaths, "runtime-path", nil,
		"additional candidate path(s) to search for the zylang runtime source, checked before the built-in list")
	compileCmd.Flags().BoolVar(&keepTemp, "keep-temp", false,
		"preserve the build driver's temporary directory instead of deleting it (debugging aid)")
}

func compileScript(cmd *cobra.Command, args []string) error {
	sourcePath := args[0]
	outputPath := ""
	if len(args) == 2 {
		outputPath = args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", configPath, err)
	}

	generated, stem, err := generateFrom(sourcePath)
	if err != nil {
		return err
	}

	driver := build.NewDriver()
	driver.Log = log
	driver.Optimize = cfg.Build.Optimize
	driver.OutputDir = cfg.Build.OutputDir
	driver.KeepTemp = keepTemp
	driver.RuntimeSearchPath = append(append([]string{}, runtimeSearchPaths...), cfg.Build.RuntimePaths...)

	binaryPath, err := driver.Compile(context.Background(), generated, stem, outputPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return fmt.Errorf("compilation failed")
	}

	fmt.Printf("Compiled %s -> %s\n", sourcePath, binaryPath)
	return nil
}
