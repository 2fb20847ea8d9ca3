package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/bedcolor/internal/adapter"
	"github.com/inodb/bedcolor/internal/bed"
	"github.com/inodb/bedcolor/internal/output"
)

func newColorCmd() *cobra.Command {
	var (
		af           adapterFlags
		outputFile   string
		outputFormat string
		workers      int
	)

	cmd := &cobra.Command{
		Use:   "color [flags] <input-file>",
		Short: "Compute a display color for every feature in a BED file",
		Long: `Parse a BED file and write every feature with its display color.

Color policies:
  RgbAlpha          itemRgb with alpha = score/1000, "red" without itemRgb or score
  CategoricalType   "red" for CDS, "green" for exon, "purple" otherwise
  Fixed             the color given by --fixed-color`,
		Example: `  bedcolor color junctions.bed
  bedcolor color --color-policy CategoricalType -f jsonl genes.bed
  bedcolor color --color-policy Fixed --fixed-color steelblue -o out.tsv peaks.bed.gz
  cat junctions.bed | bedcolor color --on-malformed abort -`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := af.newAdapter(cmd)
			if err != nil {
				return err
			}

			var out io.Writer = os.Stdout
			if outputFile != "" {
				f, err := os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			w, err := newFeatureWriter(outputFormat, out)
			if err != nil {
				return usageError{err}
			}

			return colorFile(a, args[0], w, workers)
		},
	}

	af.register(cmd)
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tab", "Output format: tab, jsonl")
	cmd.Flags().IntVar(&workers, "workers", 0, "Coloring workers (default: number of CPUs)")

	return cmd
}

func newFeatureWriter(format string, out io.Writer) (adapter.FeatureWriter, error) {
	switch format {
	case "tab":
		return output.NewTabWriter(out), nil
	case "jsonl":
		return output.NewJSONLWriter(out), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// colorFile runs the coloring pipeline over one input file.
func colorFile(a *adapter.Adapter, path string, w adapter.FeatureWriter, workers int) error {
	p, err := a.Parse(bed.FileSource(path))
	if err != nil {
		return err
	}
	defer p.Close()

	summary, err := a.ColorAll(p, w, workers)
	if output.IsBrokenPipe(err) {
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("colored features",
		zap.String("input", path),
		zap.Stringer("policy", a.Policy().Kind()),
		zap.Int("features", summary.Features),
		zap.Int("skipped", len(summary.Skipped)))
	return nil
}
