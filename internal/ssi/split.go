package ssi

import (
	"sort"
	"time"
)

// Group names used for the pre/post initiative comparison
const (
	GroupPre  = "pre"
	GroupPost = "post"
)

// MedianDate returns the median observation date of the record set, the
// default cut point for the pre/post initiative split. For an even number of
// records it returns the midpoint between the two central dates. The zero
// time is returned for an empty set.
func MedianDate(records []CanonicalRecord) time.Time {
	if len(records) == 0 {
		return time.Time{}
	}

	dates := make([]time.Time, len(records))
	for i, r := range records {
		dates[i] = r.Date
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	mid := len(dates) / 2
	if len(dates)%2 == 1 {
		return dates[mid]
	}
	lo, hi := dates[mid-1], dates[mid]
	return lo.Add(hi.Sub(lo) / 2)
}

// SplitAt divides the record set into pre and post groups at the cutover
// date. Records on or after the cutover fall into the post group.
func SplitAt(records []CanonicalRecord, cutover time.Time) (pre, post GroupCounts) {
	pre.Name = GroupPre
	post.Name = GroupPost

	for _, r := range records {
		if r.Date.Before(cutover) {
			pre.Infections += r.Infections
			pre.Procedures += r.Procedures
		} else {
			post.Infections += r.Infections
			post.Procedures += r.Procedures
		}
	}
	return pre, post
}
