package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose    bool
	configPath string
	log        = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "zylc",
	Short: "zylang ahead-of-time transpiler",
	Long: `zylc compiles a strict subset of Python to a stand-alone native
executable.

It parses the source subset into an AST, runs a two-pass analysis to
determine mutability and which expressions need the heap-allocated string
runtime, emits equivalent Zig source, and hands that source to the zig
compiler to produce a binary with no script runtime dependency.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		} else {
			log.SetLevel(logrus.WarnLevel)
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "zylang.toml", "project configuration file")
}
