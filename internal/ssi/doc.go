// Package ssi implements the metrics and statistics core for surgical site
// infection (SSI) surveillance over tabular clinical data.
//
// The package takes raw rows as they come out of a CSV or Excel reader,
// infers which columns carry the date, outcome, category and (optionally)
// procedure volume, cleans them into a canonical record set, and computes
// rate tables, alerts and hypothesis tests over that set.
//
// # Pipeline
//
// Data flows strictly one way through four stages:
//
//  1. ResolveColumns classifies raw column names and sample values into a
//     RoleMapping, or fails with a SchemaError when no date or outcome
//     column can be found.
//  2. Normalizer.Normalize converts raw rows into CanonicalRecords using the
//     mapping. Rows without a parseable date or a resolvable outcome are
//     dropped and counted; the rejected-row count is a diagnostic, never an
//     error.
//  3. OverallRate, TemporalMetrics, CategoryMetrics and Pareto derive the
//     aggregate tables: Wilson 95% intervals, monthly/quarterly buckets with
//     3-period rolling rates and 2-SD outlier flags, category rates with
//     alert flags and Pareto ranking.
//  4. CompareGroups and TrendTest run the pre/post two-proportion z-test,
//     the Pearson chi-square test and the OLS trend regression over grouped
//     counts and temporal buckets.
//
// # Usage Example
//
//	mapping, err := ssi.ResolveColumns(columns, sample)
//	if err != nil {
//	    log.Fatal(err) // SchemaError: required role unmatched
//	}
//
//	normalizer := ssi.NewNormalizer(slog.Default())
//	records, rejected := normalizer.Normalize(ctx, rows, mapping)
//
//	params := ssi.DefaultParams()
//	overall := ssi.OverallRate(records)
//	monthly := ssi.TemporalMetrics(records, ssi.GranularityMonth, params)
//
//	pre, post := ssi.SplitAt(records, ssi.MedianDate(records))
//	zTest, chiTest, err := ssi.CompareGroups(pre, post, params)
//
// # Input modes
//
// Individual-level datasets carry one procedure per row with a boolean
// outcome flag; pre-aggregated datasets carry infection and procedure counts
// per row. The resolver detects the mode from the outcome values and the
// presence of a volume column, and both modes converge on the same
// CanonicalRecord shape and the same downstream rate computation.
//
// # Determinism
//
// Every computation in this package is pure and single-threaded: column
// matching evaluates a fixed priority list, configuration arrives as an
// explicit Params value, and derived tables are recomputed from scratch on
// each run. Re-running with the same input always produces the same output
// and fails the same way.
package ssi
