// Package edm implements energy-divergence breakout detection over ordered
// numeric series. Four searches share one estimator: Multi and Percent
// recursively partition a series into segments separated by accepted change
// points, while Tail and Single scan once and report the strongest candidate
// split together with its divergence statistic.
//
// All searches are pure functions of their inputs: the series is never
// mutated, no state is carried between calls, and identical inputs always
// produce identical results.
package edm

// NoSplit is the sentinel location reported when a search has no candidate
// split to return.
const NoSplit = -1

// BestSplit identifies the strongest candidate split found by the tail and
// single searches. Significant reports whether the divergence statistic
// cleared the caller's significance level; the numerically best candidate is
// reported either way. Location is NoSplit when the series admits no
// candidate at all.
type BestSplit struct {
	Location    int     `json:"location"`
	Statistic   float64 `json:"statistic"`
	Significant bool    `json:"significant"`
}
