package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/calibrate"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/plan"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/preview"
)

var previewOut string

var previewCmd = &cobra.Command{
	Use:   "preview <plan.svg> <elements.json>",
	Short: "Render a raster preview of a saved element set",
	Long: `Render the placed elements of a plan into a PNG. The plan document is
only used to calibrate the canvas; the drawn content comes from the
elements file produced by a save.

Examples:
  planctl preview plan.svg elements.json
  planctl preview -o out.png plan.svg elements.json`,
	Args: cobra.ExactArgs(2),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVarP(&previewOut, "out", "o", "preview.png",
		"output PNG path")
}

func runPreview(cmd *cobra.Command, args []string) error {
	document, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read plan: %w", err)
	}

	elementsJSON, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read elements: %w", err)
	}
	var els plan.Elements
	if err := json.Unmarshal(elementsJSON, &els); err != nil {
		return fmt.Errorf("failed to parse elements: %w", err)
	}

	cal := calibrate.FromSVG(document, 0)
	if verbose {
		fmt.Printf("Scale %.2f units/m, canvas %.0fx%.0f, %d elements\n",
			cal.UnitsPerMeter, cal.CanvasWidth, cal.CanvasHeight, els.Count())
	}

	png, err := preview.Render(els, cal.CanvasWidth, cal.CanvasHeight, cal.WallStroke)
	if err != nil {
		return fmt.Errorf("failed to render preview: %w", err)
	}
	if err := os.WriteFile(previewOut, png, 0o644); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}

	fmt.Printf("Wrote %s (%d bytes)\n", previewOut, len(png))
	return nil
}
