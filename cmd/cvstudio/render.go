package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmoreno/cv-studio/internal/latex"
	"github.com/dmoreno/cv-studio/internal/types"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a CV JSON file to LaTeX",
	Long:  "Generates the LaTeX document for a CV without going through the HTTP API. Useful for checking a design offline.",
	RunE:  runRender,
}

var (
	renderCVFile     string
	renderDesignFile string
	renderOutFile    string
)

func init() {
	renderCmd.Flags().StringVarP(&renderCVFile, "cv", "c", "", "Path to CV JSON file (required)")
	renderCmd.Flags().StringVarP(&renderDesignFile, "design", "d", "", "Path to design JSON file (optional, defaults apply)")
	renderCmd.Flags().StringVarP(&renderOutFile, "out", "o", "", "Path to output .tex file (default: stdout)")
	_ = renderCmd.MarkFlagRequired("cv")
	rootCmd.AddCommand(renderCmd)
}

func runRender(_ *cobra.Command, _ []string) error {
	cvContent, err := os.ReadFile(renderCVFile)
	if err != nil {
		return fmt.Errorf("failed to read CV file: %w", err)
	}
	var cv types.CvData
	if err := json.Unmarshal(cvContent, &cv); err != nil {
		return fmt.Errorf("failed to unmarshal CV JSON: %w", err)
	}

	var design *types.CvDesignConfig
	if renderDesignFile != "" {
		designContent, err := os.ReadFile(renderDesignFile)
		if err != nil {
			return fmt.Errorf("failed to read design file: %w", err)
		}
		design = &types.CvDesignConfig{}
		if err := json.Unmarshal(designContent, design); err != nil {
			return fmt.Errorf("failed to unmarshal design JSON: %w", err)
		}
	}

	document := latex.Generate(&cv, design)

	if renderOutFile == "" {
		fmt.Print(document)
		return nil
	}
	if err := os.WriteFile(renderOutFile, []byte(document), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", renderOutFile)
	return nil
}
