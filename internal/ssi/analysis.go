package ssi

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Comparison holds the pre/post cutover test battery.
type Comparison struct {
	Cutover   time.Time    `json:"cutover"`
	Pre       GroupCounts  `json:"pre"`
	Post      GroupCounts  `json:"post"`
	PreRate   RateEstimate `json:"pre_rate"`
	PostRate  RateEstimate `json:"post_rate"`
	ZTest     TestResult   `json:"z_test"`
	ChiSquare TestResult   `json:"chi_square"`
}

// Analysis is the complete result set for one batch run. It is computed
// once from the normalized records and is immutable afterwards.
type Analysis struct {
	RunID       string           `json:"run_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Params      Params           `json:"params"`
	RecordCount int              `json:"record_count"`
	Overall     RateEstimate     `json:"overall"`
	Monthly     []TemporalBucket `json:"monthly"`
	Quarterly   []TemporalBucket `json:"quarterly"`
	Categories  []CategoryBucket `json:"categories"`
	Pareto      []ParetoEntry    `json:"pareto"`
	Comparison  *Comparison      `json:"comparison,omitempty"`
	Trend       *TrendResult     `json:"trend,omitempty"`
}

// CompareAt splits the records at the cutover date and runs the two-group
// test battery on the halves.
func CompareAt(records []CanonicalRecord, cutover time.Time, params Params) (*Comparison, error) {
	pre, post := SplitAt(records, cutover)

	zTest, chiTest, err := CompareGroups(pre, post, params)
	if err != nil {
		return nil, err
	}

	return &Comparison{
		Cutover:   cutover,
		Pre:       pre,
		Post:      post,
		PreRate:   WilsonRate(pre.Infections, pre.Procedures),
		PostRate:  WilsonRate(post.Infections, post.Procedures),
		ZTest:     zTest,
		ChiSquare: chiTest,
	}, nil
}

// Analyze runs the full metric and test battery over normalized records.
// The comparison and trend sections are omitted, not failed, when the data
// cannot support them.
func Analyze(ctx context.Context, logger *slog.Logger, records []CanonicalRecord, params Params) (*Analysis, error) {
	if !params.IsValid() {
		return nil, fmt.Errorf("invalid analysis parameters")
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no records to analyze")
	}

	analysis := &Analysis{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Params:      params,
		RecordCount: len(records),
		Overall:     OverallRate(records),
		Monthly:     TemporalMetrics(records, GranularityMonth, params),
		Quarterly:   TemporalMetrics(records, GranularityQuarter, params),
	}
	analysis.Categories = CategoryMetrics(records, params)
	analysis.Pareto = Pareto(analysis.Categories, params)

	comparison, err := CompareAt(records, MedianDate(records), params)
	if err != nil {
		logger.WarnContext(ctx, "comparison skipped", slog.String("reason", err.Error()))
	} else {
		analysis.Comparison = comparison
	}

	trend, err := TrendTest(analysis.Monthly, params)
	if err != nil {
		logger.WarnContext(ctx, "trend test skipped", slog.String("reason", err.Error()))
	} else {
		analysis.Trend = &trend
	}

	logger.InfoContext(ctx, "analysis complete",
		slog.String("run_id", analysis.RunID),
		slog.Int("records", analysis.RecordCount),
		slog.Int("monthly_buckets", len(analysis.Monthly)),
		slog.Int("categories", len(analysis.Categories)))

	return analysis, nil
}
