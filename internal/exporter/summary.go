package exporter

import (
	"fmt"
	"strings"

	"ssicli/internal/ssi"
)

// ExecutiveSummary renders the analysis as a human-readable markdown report
func ExecutiveSummary(analysis *ssi.Analysis) string {
	var b strings.Builder

	b.WriteString("# Executive Summary: Surgical Site Infection (SSI) Monitoring\n\n")
	fmt.Fprintf(&b, "Run `%s`, generated %s.\n\n",
		analysis.RunID, analysis.GeneratedAt.Format("2006-01-02 15:04 MST"))

	b.WriteString("## Overall Performance\n\n")
	fmt.Fprintf(&b, "- **Total Procedures**: %d\n", analysis.Overall.Denominator)
	fmt.Fprintf(&b, "- **Total Infections**: %d\n", analysis.Overall.Numerator)
	fmt.Fprintf(&b, "- **Overall SSI Rate**: %s (%s)\n",
		formatRate(analysis.Overall.Rate), formatPct(analysis.Overall.Rate))
	fmt.Fprintf(&b, "- **95%% Confidence Interval**: [%s, %s]\n\n",
		formatRate(analysis.Overall.CILow), formatRate(analysis.Overall.CIHigh))

	b.WriteString("## Temporal Trends\n\n")
	fmt.Fprintf(&b, "- **Monthly Periods**: %d\n", len(analysis.Monthly))
	if outliers := outlierPeriods(analysis.Monthly); len(outliers) > 0 {
		fmt.Fprintf(&b, "- **Outlier Periods**: %s\n", strings.Join(outliers, ", "))
	} else {
		b.WriteString("- **Outlier Periods**: none\n")
	}
	if tr := analysis.Trend; tr != nil {
		fmt.Fprintf(&b, "- **Trend Direction**: %s\n", strings.ToUpper(tr.Direction))
		fmt.Fprintf(&b, "- **Trend Significance**: %s (p=%s)\n",
			significanceLabel(tr.Significant), formatPValue(tr.PValue))
	} else {
		b.WriteString("- **Trend**: insufficient data\n")
	}
	b.WriteString("\n")

	b.WriteString("## High-Risk Categories\n\n")
	b.WriteString("### Categories by SSI Rate\n")
	for i, c := range analysis.Categories {
		if i >= 10 {
			break
		}
		flags := categoryFlags(c)
		fmt.Fprintf(&b, "- **%s**: %s (%d/%d procedures)%s\n",
			c.Category, formatRate(c.Rate.Rate), c.Rate.Numerator, c.Rate.Denominator, flags)
	}
	b.WriteString("\n")

	b.WriteString("## Pareto Analysis\n\n")
	vital := vitalCategories(analysis.Pareto)
	if len(vital) > 0 {
		fmt.Fprintf(&b, "- **Vital few (~%.0f%% of infections)**: %s\n\n",
			analysis.Params.ParetoThreshold*100, strings.Join(vital, ", "))
	} else {
		b.WriteString("- **Vital few**: none (no infections recorded)\n\n")
	}

	b.WriteString("## Pre vs Post Comparison\n\n")
	if c := analysis.Comparison; c != nil {
		fmt.Fprintf(&b, "- **Cutover Date**: %s\n", c.Cutover.Format("2006-01-02"))
		fmt.Fprintf(&b, "- **Pre SSI Rate**: %s (%d/%d procedures)\n",
			formatRate(c.PreRate.Rate), c.Pre.Infections, c.Pre.Procedures)
		fmt.Fprintf(&b, "- **Post SSI Rate**: %s (%d/%d procedures)\n",
			formatRate(c.PostRate.Rate), c.Post.Infections, c.Post.Procedures)
		fmt.Fprintf(&b, "- **Two-Proportion Z-Test**: z=%.4f, p=%s, significant: %s\n",
			c.ZTest.Statistic, formatPValue(c.ZTest.PValue), yesNo(c.ZTest.Significant))
		fmt.Fprintf(&b, "- **Chi-Square Test**: chi2=%.4f, p=%s, significant: %s\n",
			c.ChiSquare.Statistic, formatPValue(c.ChiSquare.PValue), yesNo(c.ChiSquare.Significant))
	} else {
		b.WriteString("- Insufficient data for a pre/post comparison\n")
	}
	b.WriteString("\n")

	b.WriteString("## Monitoring Thresholds\n\n")
	fmt.Fprintf(&b, "- **Volume Floor**: %d procedures for reliable rates\n", analysis.Params.VolumeFloor)
	fmt.Fprintf(&b, "- **Outlier/Alert Rule**: rate above mean + %.1f standard deviations\n",
		analysis.Params.AlertSDMultiplier)
	fmt.Fprintf(&b, "- **Rolling Window**: %d periods\n", analysis.Params.RollingWindow)
	fmt.Fprintf(&b, "- **Significance Level**: alpha=%.2f\n", analysis.Params.Alpha)

	b.WriteString("\n---\n*Report generated by the SSI analytics pipeline*\n")
	return b.String()
}

func outlierPeriods(buckets []ssi.TemporalBucket) []string {
	var periods []string
	for _, b := range buckets {
		if b.Outlier {
			periods = append(periods, b.Period)
		}
	}
	return periods
}

func vitalCategories(entries []ssi.ParetoEntry) []string {
	var categories []string
	for _, e := range entries {
		if e.Vital {
			categories = append(categories, e.Category)
		}
	}
	return categories
}

func categoryFlags(c ssi.CategoryBucket) string {
	var flags []string
	if c.Alert {
		flags = append(flags, "ALERT")
	}
	if c.LowVolume {
		flags = append(flags, "low volume")
	}
	if len(flags) == 0 {
		return ""
	}
	return " [" + strings.Join(flags, ", ") + "]"
}

func significanceLabel(significant bool) string {
	if significant {
		return "Statistically significant"
	}
	return "Not statistically significant"
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
