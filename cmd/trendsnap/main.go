// Command trendsnap replays a chart definition against the simulated
// channels on a virtual clock and saves the result as PNG or XLSX.
package main

import (
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/spf13/cobra"

	"trendscope/app"
	"trendscope/chart"
	"trendscope/gfx"
	"trendscope/internal/buildinfo"
	"trendscope/internal/simrun"
)

var (
	defPath  string
	width    int
	height   int
	duration time.Duration

	pngOut  string
	xlsxOut string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "trendsnap",
		Short:   "Render strip chart snapshots from simulated channels",
		Version: buildinfo.String(),
		// Errors are printed once by main.
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&defPath, "def", "", "Chart definition JSON (default: built-in demo)")
	rootCmd.PersistentFlags().IntVar(&width, "width", 640, "Chart width in pixels")
	rootCmd.PersistentFlags().IntVar(&height, "height", 360, "Chart height in pixels")
	rootCmd.PersistentFlags().DurationVar(&duration, "duration", 45*time.Second, "Virtual time to run before the snapshot")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Write the chart as a PNG image",
		Args:  cobra.NoArgs,
		RunE:  runRender,
	}
	renderCmd.Flags().StringVarP(&pngOut, "output", "o", "trend.png", "Output PNG path")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the sampled history as an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}
	exportCmd.Flags().StringVarP(&xlsxOut, "output", "o", "trend.xlsx", "Output XLSX path")

	defCmd := &cobra.Command{
		Use:   "definition",
		Short: "Print the effective chart definition as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := app.LoadDefinition(app.Config{DefinitionPath: defPath})
			if err != nil {
				return err
			}
			return d.Encode(cmd.OutOrStdout())
		},
	}

	rootCmd.AddCommand(renderCmd, exportCmd, defCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// session builds a chart from the definition flags and runs it for the
// configured virtual duration.
func session(cmd *cobra.Command) (*chart.Chart, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d", width, height)
	}
	d, err := app.LoadDefinition(app.Config{DefinitionPath: defPath})
	if err != nil {
		return nil, err
	}

	font := gfx.NewFaceFont(nil)
	c := chart.New(font, gfx.ImageFactory(font))
	if err := d.Apply(c); err != nil {
		return nil, err
	}
	c.SetGeometry(width, height)

	s := simrun.Start(c)
	for _, err := range s.Unknown {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
	}
	s.Advance(duration)
	return c, nil
}

func runRender(cmd *cobra.Command, _ []string) error {
	c, err := session(cmd)
	if err != nil {
		return err
	}
	img := gfx.NewImage(width, height, gfx.NewFaceFont(nil))
	c.Paint(img)

	f, err := os.Create(pngOut)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := png.Encode(f, img.RGBA()); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", pngOut, width, height)
	return nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	c, err := session(cmd)
	if err != nil {
		return err
	}
	wb, err := simrun.Workbook(c)
	if err != nil {
		return err
	}
	defer wb.Close()
	if err := wb.SaveAs(xlsxOut); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d columns)\n", xlsxOut, c.Capacity())
	return nil
}
