package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/calibrate"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/svgdoc"
)

var envelopeWidth float64

var calibrateCmd = &cobra.Command{
	Use:   "calibrate <plan.svg>",
	Short: "Measure the drawing scale of a plan document",
	Long: `Parse a plan SVG and report the drawing scale in native units per
meter, together with the inferred wall stroke width and the nudge step
derived from them.

Examples:
  planctl calibrate plan.svg
  planctl calibrate --envelope 12 plan.svg`,
	Args: cobra.ExactArgs(1),
	RunE: runCalibrate,
}

func init() {
	rootCmd.AddCommand(calibrateCmd)

	calibrateCmd.Flags().Float64VarP(&envelopeWidth, "envelope", "e", 0,
		"known envelope width in meters, used when no dimension label is found")
}

func runCalibrate(cmd *cobra.Command, args []string) error {
	filename := args[0]

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read plan: %w", err)
	}

	if verbose {
		doc, err := svgdoc.Parse(data)
		if err != nil {
			return fmt.Errorf("failed to parse plan: %w", err)
		}
		fmt.Printf("Parsed %s: %d rects, %d texts, %d paths (canvas %.0fx%.0f)\n\n",
			filename, len(doc.Rects), len(doc.Texts), len(doc.Paths), doc.Width, doc.Height)
	}

	cal := calibrate.FromSVG(data, envelopeWidth)

	fmt.Printf("Scale:       %.2f units/m\n", cal.UnitsPerMeter)
	fmt.Printf("Wall stroke: %.2f units\n", cal.WallStroke)
	fmt.Printf("Wall clear:  %.2f units\n", cal.WallClear)
	fmt.Printf("Nudge step:  %.2f units\n", cal.NudgeStep)
	fmt.Printf("Canvas:      %.0f x %.0f\n", cal.CanvasWidth, cal.CanvasHeight)
	return nil
}
