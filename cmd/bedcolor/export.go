package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/bedcolor/internal/bed"
	"github.com/inodb/bedcolor/internal/duckdb"
)

func newExportCmd() *cobra.Command {
	var (
		af      adapterFlags
		dbPath  string
		force   bool
		workers int
	)

	cmd := &cobra.Command{
		Use:   "export [flags] <input-file>...",
		Short: "Store colored features in a DuckDB database",
		Long: `Parse BED files, color every feature and store the result in the
"features" table of a DuckDB database. Files whose size and modification
time match an earlier export are skipped unless --force is given.`,
		Example: `  bedcolor export --db features.duckdb junctions.bed
  bedcolor export --db features.duckdb --color-policy CategoricalType --force genes.bed`,
		Args: minimumArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := af.newAdapter(cmd)
			if err != nil {
				return err
			}

			store, err := duckdb.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, path := range args {
				fp, err := duckdb.StatFile(path)
				if err != nil {
					return err
				}

				if !force {
					fresh, err := store.SourceFresh(fp)
					if err != nil {
						return err
					}
					if fresh {
						logger.Info("source unchanged, skipping", zap.String("input", path))
						continue
					}
				}

				p, err := a.Parse(bed.FileSource(path))
				if err != nil {
					return err
				}
				summary, err := a.ColorAll(p, duckdb.NewSink(store, path), workers)
				p.Close()
				if err != nil {
					// Batches already written would be a partial export.
					if derr := store.DiscardSource(path); derr != nil {
						logger.Warn("discarding partial export failed",
							zap.String("input", path), zap.Error(derr))
					}
					return err
				}

				if err := store.RecordSource(fp, summary.Features, len(summary.Skipped)); err != nil {
					return err
				}
				logger.Info("exported features",
					zap.String("input", path),
					zap.String("db", dbPath),
					zap.Int("features", summary.Features),
					zap.Int("skipped", len(summary.Skipped)))
			}
			return nil
		},
	}

	af.register(cmd)
	cmd.Flags().StringVar(&dbPath, "db", "bedcolor.duckdb", "DuckDB database file")
	cmd.Flags().BoolVar(&force, "force", false, "Export even if the source is unchanged")
	cmd.Flags().IntVar(&workers, "workers", 0, "Coloring workers (default: number of CPUs)")

	return cmd
}
