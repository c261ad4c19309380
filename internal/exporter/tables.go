package exporter

import (
	"context"
	"fmt"

	"ssicli/internal/ssi"
)

// TemporalTable renders temporal buckets as CSV headers and records
func TemporalTable(buckets []ssi.TemporalBucket) ([]string, [][]string) {
	headers := []string{
		"period", "infections", "procedures", "rate", "ci_low", "ci_high",
		"rolling_rate", "low_volume", "outlier",
	}
	records := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		records = append(records, []string{
			b.Period,
			formatInt(b.Rate.Numerator),
			formatInt(b.Rate.Denominator),
			formatRate(b.Rate.Rate),
			formatRate(b.Rate.CILow),
			formatRate(b.Rate.CIHigh),
			formatRate(b.Rolling.Rate),
			formatBool(b.LowVolume),
			formatBool(b.Outlier),
		})
	}
	return headers, records
}

// CategoryTable renders category buckets as CSV headers and records
func CategoryTable(buckets []ssi.CategoryBucket) ([]string, [][]string) {
	headers := []string{
		"category", "infections", "procedures", "rate", "ci_low", "ci_high",
		"infection_share", "low_volume", "alert",
	}
	records := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		records = append(records, []string{
			b.Category,
			formatInt(b.Rate.Numerator),
			formatInt(b.Rate.Denominator),
			formatRate(b.Rate.Rate),
			formatRate(b.Rate.CILow),
			formatRate(b.Rate.CIHigh),
			formatRate(b.InfectionShare),
			formatBool(b.LowVolume),
			formatBool(b.Alert),
		})
	}
	return headers, records
}

// ParetoTable renders the Pareto ranking as CSV headers and records
func ParetoTable(entries []ssi.ParetoEntry) ([]string, [][]string) {
	headers := []string{"category", "infections", "procedures", "cumulative_pct", "vital"}
	records := make([][]string, 0, len(entries))
	for _, e := range entries {
		records = append(records, []string{
			e.Category,
			formatInt(e.Infections),
			formatInt(e.Procedures),
			fmt.Sprintf("%.2f", e.CumulativePct),
			formatBool(e.Vital),
		})
	}
	return headers, records
}

// TestsTable renders the statistical test battery as CSV headers and records
func TestsTable(analysis *ssi.Analysis) ([]string, [][]string) {
	headers := []string{"test", "statistic", "p_value", "significant", "detail"}
	var records [][]string

	if c := analysis.Comparison; c != nil {
		detail := fmt.Sprintf("pre %d/%d vs post %d/%d, cutover %s",
			c.Pre.Infections, c.Pre.Procedures,
			c.Post.Infections, c.Post.Procedures,
			c.Cutover.Format("2006-01-02"))
		records = append(records, []string{
			c.ZTest.Name,
			fmt.Sprintf("%.4f", c.ZTest.Statistic),
			formatPValue(c.ZTest.PValue),
			formatBool(c.ZTest.Significant),
			detail,
		})
		records = append(records, []string{
			c.ChiSquare.Name,
			fmt.Sprintf("%.4f", c.ChiSquare.Statistic),
			formatPValue(c.ChiSquare.PValue),
			formatBool(c.ChiSquare.Significant),
			detail,
		})
	}

	if tr := analysis.Trend; tr != nil {
		records = append(records, []string{
			tr.Name,
			fmt.Sprintf("%.4f", tr.Statistic),
			formatPValue(tr.PValue),
			formatBool(tr.Significant),
			fmt.Sprintf("slope %.6f, direction %s, r_squared %.4f", tr.Slope, tr.Direction, tr.RSquared),
		})
	}

	return headers, records
}

type reportTable struct {
	name    string
	headers []string
	records [][]string
}

// ExportAnalysis writes the full report set: the CSV tables and the
// executive summary markdown. Returns the paths written.
func (w *Writer) ExportAnalysis(ctx context.Context, analysis *ssi.Analysis) ([]string, error) {
	var tables []reportTable

	headers, records := TemporalTable(analysis.Monthly)
	tables = append(tables, reportTable{"temporal_monthly.csv", headers, records})

	headers, records = TemporalTable(analysis.Quarterly)
	tables = append(tables, reportTable{"temporal_quarterly.csv", headers, records})

	headers, records = CategoryTable(analysis.Categories)
	tables = append(tables, reportTable{"categories.csv", headers, records})

	headers, records = ParetoTable(analysis.Pareto)
	tables = append(tables, reportTable{"pareto.csv", headers, records})

	headers, records = TestsTable(analysis)
	tables = append(tables, reportTable{"tests.csv", headers, records})

	var paths []string
	for _, table := range tables {
		path, err := w.WriteCSV(ctx, table.name, WriteOptions{
			Headers:   table.headers,
			Records:   table.records,
			BOMPrefix: true,
		})
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", table.name, err)
		}
		paths = append(paths, path)
	}

	summaryPath, err := w.WriteFile(ctx, "executive_summary.md", []byte(ExecutiveSummary(analysis)))
	if err != nil {
		return nil, fmt.Errorf("export executive summary: %w", err)
	}
	paths = append(paths, summaryPath)

	return paths, nil
}
