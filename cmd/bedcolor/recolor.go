package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/bedcolor/internal/adapter"
	"github.com/inodb/bedcolor/internal/bed"
	"github.com/inodb/bedcolor/internal/color"
	"github.com/inodb/bedcolor/internal/output"
)

func newRecolorCmd() *cobra.Command {
	var (
		af         adapterFlags
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "recolor [flags] <input-file>...",
		Short: "Give each input file its own itemRgb and concatenate the records",
		Long: `Assign every input file a distinct color and write all records to one BED
stream. The group of a file is its base name up to the first '.', e.g.
"Stem_C.junctions.bed" belongs to group "Stem_C". Each record's itemRgb is set
to the group color and its name is prefixed with "<group>_".`,
		Example: `  bedcolor recolor Muscle_1.junctions.bed Stem_B.junctions.bed -o all_celltypes.bed`,
		Args:    minimumArgs(1),
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

			err = recolor(a, args, out)
			if output.IsBrokenPipe(err) {
				return nil
			}
			return err
		},
	}

	af.registerOnMalformed(cmd)
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

// groupName returns the file base name up to the first '.'.
func groupName(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i > 0 {
		return base[:i]
	}
	return base
}

// recolor writes the records of every path, colored by group, to out.
func recolor(a *adapter.Adapter, paths []string, out io.Writer) error {
	groups := make([]string, len(paths))
	for i, p := range paths {
		groups[i] = groupName(p)
	}
	palette := color.GroupPalette(groups)

	w := bed.NewWriter(out)
	for i, path := range paths {
		group := groups[i]
		rgb := palette[group]

		p, err := a.Parse(bed.FileSource(path))
		if err != nil {
			return err
		}

		n := 0
		for f, err := range p.All() {
			if err != nil {
				p.Close()
				return err
			}
			if err := w.Write(f.WithNamePrefix(group).WithItemRGB(rgb)); err != nil {
				p.Close()
				return fmt.Errorf("write feature: %w", err)
			}
			n++
		}
		skipped := len(p.Diagnostics())
		p.Close()

		logger.Info("recolored file",
			zap.String("input", path),
			zap.String("group", group),
			zap.String("itemRgb", rgb.String()),
			zap.Int("features", n),
			zap.Int("skipped", skipped))
	}

	return w.Flush()
}
