// Package main provides the xray CLI: structural x-rays of model
// checkpoint files and Mermaid flowcharts of x-ray reports.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const version = "v0.2.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "xray",
		Short:         "Structural x-rays of neural network checkpoints",
		Long:          "xray dumps the module hierarchy, parameter shapes and config of a model checkpoint,\nand renders x-ray reports as Mermaid flowcharts.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newDumpCmd())
	root.AddCommand(newVizCmd())
	return root
}

// confirm prints the success line naming an output file.
func confirm(path string) {
	fmt.Printf("Wrote: %s\n", color.GreenString(path))
}
