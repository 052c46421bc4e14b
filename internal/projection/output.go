package projection

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// DefaultOutputPath is where the dashboard expects the projection table.
const DefaultOutputPath = "data_feed/projections.csv"

// csvHeader fixes the output column order.
var csvHeader = []string{
	"player",
	"team",
	"opponent",
	"projected_points",
	"recent_points",
	"projected_rebounds",
	"recent_rebounds",
	"projected_assists",
	"recent_assists",
}

// WriteCSV writes the projection table, creating the parent directory if
// needed. Rows are written in the order given (already sorted by projected
// points).
func WriteCSV(path string, projections []Projection) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, p := range projections {
		record := []string{
			p.Player,
			p.Team,
			p.Opponent,
			formatStat(p.ProjectedPoints),
			formatStat(p.RecentPoints),
			formatStat(p.ProjectedRebounds),
			formatStat(p.RecentRebounds),
			formatStat(p.ProjectedAssists),
			formatStat(p.RecentAssists),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing row for %s: %w", p.Player, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}

	return nil
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
