//
// Copyright (C) 2024 Matthew Penner
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package report

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/Matt115A/NuCSI/lib/align"
	"github.com/Matt115A/NuCSI/lib/circular"
	"github.com/Matt115A/NuCSI/lib/coverage"
	"github.com/Matt115A/NuCSI/lib/sites"
)

// InconsistentReferenceError reports component outputs computed against
// different reference lengths. This is a caller-level bug, not a data issue.
type InconsistentReferenceError struct {
	Ref       string
	Component string
	Want      int
	Got       int
}

func (e *InconsistentReferenceError) Error() string {
	return fmt.Sprintf("reference %s: %s computed for length %d, want %d", e.Ref, e.Component, e.Got, e.Want)
}

// Summary holds the per-reference scalar results.
type Summary struct {
	Ref                        string  `json:"reference"`
	Length                     int     `json:"reference_length"`
	Fragments                  int     `json:"fragments"`
	MeanCoverage               float64 `json:"mean_coverage"`
	MedianCoverage             float64 `json:"median_coverage"`
	MinCoveragePosition        int     `json:"min_coverage_position"`
	MinCoverage                int     `json:"min_coverage"`
	SharpestDropPosition       int     `json:"sharpest_drop_position"`
	SharpestDropDelta          int     `json:"sharpest_drop_delta"`
	TopStartPosition           int     `json:"top_start_position"`
	TopStartCount              int     `json:"top_start_count"`
	TopStartFraction           float64 `json:"top_start_fraction"`
	TopEndPosition             int     `json:"top_end_position"`
	TopEndCount                int     `json:"top_end_count"`
	TopEndFraction             float64 `json:"top_end_fraction"`
	SignificantStartBonferroni int     `json:"significant_start_bonferroni"`
	SignificantStartBH         int     `json:"significant_start_bh"`
	SignificantEndBonferroni   int     `json:"significant_end_bonferroni"`
	SignificantEndBH           int     `json:"significant_end_bh"`
	ChiSquarePStart            float64 `json:"chi_square_p_start"`
	ChiSquarePEnd              float64 `json:"chi_square_p_end"`
	Alpha                      float64 `json:"alpha"`
}

// Result is the complete analysis bundle for one reference and one sample.
type Result struct {
	Ref        align.Reference
	Coverage   []int
	Candidates []coverage.Candidate
	Zoom       circular.Window
	Start      sites.TableResult
	End        sites.TableResult
	Summary    Summary
}

// Aggregate merges the profiler, drop-off and frequency analyzer outputs for
// one reference into a Result. Pure merge plus summary scalars, no
// recomputation of any statistic.
func Aggregate(ref align.Reference, cov []int, candidates []coverage.Candidate, zoom circular.Window, start, end sites.TableResult, n int, cfg sites.Config) (*Result, error) {
	if len(cov) != ref.Length {
		return nil, &InconsistentReferenceError{Ref: ref.Name, Component: "coverage profile", Want: ref.Length, Got: len(cov)}
	}
	if zoom.Length != ref.Length {
		return nil, &InconsistentReferenceError{Ref: ref.Name, Component: "zoom window", Want: ref.Length, Got: zoom.Length}
	}
	if len(start.Records) != ref.Length {
		return nil, &InconsistentReferenceError{Ref: ref.Name, Component: "start table", Want: ref.Length, Got: len(start.Records)}
	}
	if len(end.Records) != ref.Length {
		return nil, &InconsistentReferenceError{Ref: ref.Name, Component: "end table", Want: ref.Length, Got: len(end.Records)}
	}

	s := Summary{
		Ref:             ref.Name,
		Length:          ref.Length,
		Fragments:       n,
		ChiSquarePStart: start.ChiSquareP,
		ChiSquarePEnd:   end.ChiSquareP,
		Alpha:           cfg.Alpha,
	}

	covFloat := make([]float64, len(cov))
	for i, c := range cov {
		covFloat[i] = float64(c)
	}
	s.MeanCoverage, _ = stats.Mean(covFloat)
	s.MedianCoverage, _ = stats.Median(covFloat)

	s.MinCoveragePosition, s.MinCoverage = argminInt(cov)
	if len(candidates) > 0 {
		drop := candidates[0]
		for _, c := range candidates[1:] {
			if c.Delta < drop.Delta || (c.Delta == drop.Delta && c.Position < drop.Position) {
				drop = c
			}
		}
		s.SharpestDropPosition = drop.Position
		s.SharpestDropDelta = drop.Delta
	}

	s.TopStartPosition, s.TopStartCount = argmaxInt(start.Counts)
	s.TopEndPosition, s.TopEndCount = argmaxInt(end.Counts)
	if n > 0 {
		s.TopStartFraction = float64(s.TopStartCount) / float64(n)
		s.TopEndFraction = float64(s.TopEndCount) / float64(n)
	}

	s.SignificantStartBonferroni, s.SignificantStartBH = countSignificant(start.Records, cfg.Alpha)
	s.SignificantEndBonferroni, s.SignificantEndBH = countSignificant(end.Records, cfg.Alpha)

	return &Result{
		Ref:        ref,
		Coverage:   cov,
		Candidates: candidates,
		Zoom:       zoom,
		Start:      start,
		End:        end,
		Summary:    s,
	}, nil
}

func countSignificant(records []sites.Record, alpha float64) (bonferroni, bh int) {
	for _, r := range records {
		if r.Expected == 0 {
			continue
		}
		if r.BonferroniP <= alpha {
			bonferroni++
		}
		if r.BHQ <= alpha {
			bh++
		}
	}
	return
}

func argminInt(values []int) (pos, val int) {
	val = values[0]
	for i, v := range values {
		if v < val {
			pos, val = i, v
		}
	}
	return
}

func argmaxInt(values []int) (pos, val int) {
	val = values[0]
	for i, v := range values {
		if v > val {
			pos, val = i, v
		}
	}
	return
}
