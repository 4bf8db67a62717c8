//
// Copyright (C) 2024 Matthew Penner
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package sites

import (
	"github.com/Matt115A/NuCSI/lib/align"
	"github.com/Matt115A/NuCSI/lib/circular"
)

// Config selects the multiple-testing corrections to apply and the
// significance threshold. Both corrections default on.
type Config struct {
	Alpha      float64
	Bonferroni bool
	BH         bool
}

// DefaultConfig returns the standard analysis configuration.
func DefaultConfig() Config {
	return Config{Alpha: 0.05, Bonferroni: true, BH: true}
}

// Record is the per-position significance result of one frequency table.
type Record struct {
	Position    int
	Observed    int
	Expected    float64
	RawP        float64
	BonferroniP float64
	BHQ         float64
	Significant bool
}

// TableResult is the analysis of one frequency table (fragment starts or
// fragment ends) against the uniform null.
type TableResult struct {
	Counts     []int
	Records    []Record
	ChiSquareP float64
}

// Tally counts fragment start and end positions over [0, length). The sum of
// each table equals the number of fragments.
func Tally(length int, intervals []align.Interval) (startCounts, endCounts []int, err error) {
	if err = circular.CheckLength(length); err != nil {
		return
	}
	startCounts = make([]int, length)
	endCounts = make([]int, length)
	for _, iv := range intervals {
		if err = circular.CheckPos(iv.Start, length); err != nil {
			return
		}
		if err = circular.CheckPos(iv.End, length); err != nil {
			return
		}
		startCounts[iv.Start]++
		endCounts[iv.End]++
	}
	return
}

// TestUniform scores one count table against the uniform null.
//
// Null formulation: each position is tested with a one-sided binomial test
// against rate 1/length (see BinomTest); the global chi-square statistic over
// all positions is reported once per table, not per position. This choice is
// fixed for both start and end tables.
//
// A table with zero observations is a valid degenerate input: every position
// gets expected 0, p-values of 1 and no significance flag, without invoking
// the test.
func TestUniform(counts []int, n int, cfg Config) TableResult {
	length := len(counts)
	records := make([]Record, length)
	if n == 0 {
		for i := range records {
			records[i] = Record{Position: i, RawP: 1, BonferroniP: 1, BHQ: 1}
		}
		return TableResult{Counts: counts, Records: records, ChiSquareP: 1}
	}
	expected := float64(n) / float64(length)
	raw := make([]float64, length)
	for i, o := range counts {
		raw[i] = BinomTest(o, n, 1/float64(length))
	}
	bon := Bonferroni(raw)
	bh := BenjaminiHochberg(raw)
	for i := range records {
		records[i] = Record{
			Position:    i,
			Observed:    counts[i],
			Expected:    expected,
			RawP:        raw[i],
			BonferroniP: bon[i],
			BHQ:         bh[i],
			Significant: significant(bon[i], bh[i], cfg),
		}
	}
	return TableResult{Counts: counts, Records: records, ChiSquareP: ChiSquareUniform(counts, n)}
}

// significant applies the configured threshold. With both corrections
// selected the flag follows BH, the less conservative of the two; the
// per-method counts in the summary keep the Bonferroni view.
func significant(bon, bh float64, cfg Config) bool {
	if cfg.BH {
		return bh <= cfg.Alpha
	}
	if cfg.Bonferroni {
		return bon <= cfg.Alpha
	}
	return false
}

// Analyze tallies fragment start and end positions and tests both tables.
func Analyze(length int, intervals []align.Interval, cfg Config) (start, end TableResult, n int, err error) {
	startCounts, endCounts, err := Tally(length, intervals)
	if err != nil {
		return
	}
	n = len(intervals)
	start = TestUniform(startCounts, n, cfg)
	end = TestUniform(endCounts, n, cfg)
	return
}
