package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/bedcolor/internal/bed"
)

// FeatureRow is a colored feature together with the file it came from.
type FeatureRow struct {
	Source  string
	Feature *bed.Feature
	Color   string
}

// nullable returns nil (SQL NULL) unless ok.
func nullable[T any](v T, ok bool) any {
	if !ok {
		return nil
	}
	return v
}

// WriteFeatures batch-inserts features into DuckDB using the Appender API.
func (s *Store) WriteFeatures(rows []FeatureRow) error {
	if len(rows) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "features")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range rows {
		f := r.Feature
		if err := appender.AppendRow(
			r.Source, int64(f.Line), f.Chrom, f.Start, f.End,
			nullable(f.Name, f.Name != ""),
			nullable(int64(f.Score), f.HasScore),
			nullable(f.Strand.String(), f.Strand != bed.StrandAbsent),
			nullable(f.ThickStart, f.HasThick),
			nullable(f.ThickEnd, f.HasThick),
			nullable(f.ItemRGB.String(), f.HasRGB),
			int64(f.BlockCount()),
			nullable(f.Type, f.Type != ""),
			r.Color,
			bed.Format(f),
		); err != nil {
			return fmt.Errorf("append feature: %w", err)
		}
	}

	return appender.Flush()
}

// ClearSource removes all features exported from source.
func (s *Store) ClearSource(source string) error {
	_, err := s.db.Exec("DELETE FROM features WHERE source = ?", source)
	return err
}

// FeatureCount returns the number of stored features.
func (s *Store) FeatureCount() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM features").Scan(&n); err != nil {
		return 0, fmt.Errorf("count features: %w", err)
	}
	return n, nil
}

// FeaturesByChrom returns the features stored for chrom ordered by source,
// start and line.
func (s *Store) FeaturesByChrom(chrom string) ([]FeatureRow, error) {
	rows, err := s.db.Query(`SELECT source, line, color, record
		FROM features
		WHERE chrom = ?
		ORDER BY source, chrom_start, line`, chrom)
	if err != nil {
		return nil, fmt.Errorf("query features: %w", err)
	}
	defer rows.Close()

	var out []FeatureRow
	for rows.Next() {
		var (
			r      FeatureRow
			line   int64
			record string
		)
		if err := rows.Scan(&r.Source, &line, &r.Color, &record); err != nil {
			return nil, fmt.Errorf("scan feature: %w", err)
		}
		f, perr := bed.ParseLine(record, int(line))
		if perr != nil {
			return nil, fmt.Errorf("decode stored feature: %w", perr)
		}
		r.Feature = f
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate features: %w", err)
	}
	return out, nil
}

// ColorCounts returns how many stored features carry each color.
func (s *Store) ColorCounts() (map[string]int, error) {
	rows, err := s.db.Query("SELECT color, COUNT(*) FROM features GROUP BY color")
	if err != nil {
		return nil, fmt.Errorf("query colors: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			c string
			n int
		)
		if err := rows.Scan(&c, &n); err != nil {
			return nil, fmt.Errorf("scan color: %w", err)
		}
		counts[c] = n
	}
	return counts, rows.Err()
}
