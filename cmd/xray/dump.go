package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rrroooyyywang/Model-Xray/internal/config"
	"github.com/rrroooyyywang/Model-Xray/internal/inspect"
	"github.com/rrroooyyywang/Model-Xray/internal/loader"
	"github.com/rrroooyyywang/Model-Xray/internal/report"
)

func newDumpCmd() *cobra.Command {
	var (
		modelPath  string
		outPath    string
		formatName string
		maxModules int
		maxParams  int
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "X-ray a checkpoint file into a text report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("max-modules") {
				maxModules = cfg.MaxModules
			}
			if !cmd.Flags().Changed("max-params") {
				maxParams = cfg.MaxParams
			}

			format, err := loader.ParseFormat(formatName)
			if err != nil {
				return err
			}

			model, err := loader.OpenFormat(modelPath, format)
			if err != nil {
				return fmt.Errorf("open model %s: %w", modelPath, err)
			}
			defer func() {
				_ = model.Close()
			}()

			rep := inspect.BuildReport(model)
			limits := report.Limits{MaxModules: maxModules, MaxParams: maxParams}

			if outPath == "" {
				return rep.Write(os.Stdout, limits)
			}

			out, err := os.Create(outPath) //nolint:gosec // G304: output path comes from the CLI user.
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			if err := rep.Write(out, limits); err != nil {
				_ = out.Close()
				return fmt.Errorf("write report: %w", err)
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("close output: %w", err)
			}

			confirm(outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&modelPath, "model", "", "model checkpoint file (.safetensors, .gguf, .onnx)")
	cmd.Flags().StringVar(&outPath, "out", "", "output report path (stdout when omitted)")
	cmd.Flags().StringVar(&formatName, "format", "auto", "checkpoint format (auto|safetensors|gguf|onnx)")
	cmd.Flags().IntVar(&maxModules, "max-modules", 0, "cap the named_modules section (0 = unlimited)")
	cmd.Flags().IntVar(&maxParams, "max-params", 0, "cap the named_parameters section (0 = unlimited)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath+" when present)")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}
