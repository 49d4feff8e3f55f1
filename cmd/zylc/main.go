// Command zylc is the zylang transpiler's CLI entry point.
package main

import (
	"os"

	"github.com/zylang-project/zylang/cmd/zylc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
