package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rrroooyyywang/Model-Xray/diagram"
	"github.com/rrroooyyywang/Model-Xray/internal/config"
)

func newVizCmd() *cobra.Command {
	var (
		reportPath string
		outPath    string
		maxDepth   int
		rootLabel  string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "viz",
		Short: "Render an x-ray report as a Mermaid flowchart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("max-depth") {
				maxDepth = cfg.MaxDepth
			}
			if !cmd.Flags().Changed("root-label") {
				rootLabel = cfg.RootLabel
			}
			if maxDepth < 1 {
				return fmt.Errorf("--max-depth must be >= 1, got %d", maxDepth)
			}

			text, err := os.ReadFile(reportPath) //nolint:gosec // G304: report path comes from the CLI user.
			if err != nil {
				return fmt.Errorf("read report: %w", err)
			}

			body, err := diagram.Render(string(text), diagram.Options{
				MaxDepth:  maxDepth,
				RootLabel: rootLabel,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", reportPath, err)
			}

			out, err := os.Create(outPath) //nolint:gosec // G304: output path comes from the CLI user.
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			if err := diagram.WriteDocument(out, body); err != nil {
				_ = out.Close()
				return fmt.Errorf("write diagram: %w", err)
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("close output: %w", err)
			}

			confirm(outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "", "x-ray report file to visualize")
	cmd.Flags().StringVar(&outPath, "out", "", "output markdown file")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 3, "leaf depth of the chart")
	cmd.Flags().StringVar(&rootLabel, "root-label", "Model", "label of the synthetic root node")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath+" when present)")
	_ = cmd.MarkFlagRequired("report")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
