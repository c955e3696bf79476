package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "planctl",
	Short: "Floor plan inspection tools",
	Long: `Offline tools for working with floor plan documents: measure the
drawing scale of an SVG plan and render raster previews of saved
element sets.

Examples:
  planctl calibrate plan.svg                 # Measure the drawing scale
  planctl calibrate --envelope 12 plan.svg   # With a known envelope width
  planctl preview plan.svg elements.json     # Render a preview PNG`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
