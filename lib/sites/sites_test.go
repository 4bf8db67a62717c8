//
// Copyright (C) 2024 Matthew Penner
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package sites

import (
	"reflect"
	"testing"

	"github.com/Matt115A/NuCSI/lib/align"
)

func TestTally(t *testing.T) {
	intervals := []align.Interval{
		{Start: 2, End: 5},
		{Start: 8, End: 2},
		{Start: 2, End: 2},
	}
	startCounts, endCounts, err := Tally(10, intervals)
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{0, 0, 2, 0, 0, 0, 0, 0, 1, 0}; !reflect.DeepEqual(startCounts, want) {
		t.Errorf("start counts %v, want %v", startCounts, want)
	}
	if want := []int{0, 0, 2, 0, 0, 1, 0, 0, 0, 0}; !reflect.DeepEqual(endCounts, want) {
		t.Errorf("end counts %v, want %v", endCounts, want)
	}
	var sumStart, sumEnd int
	for i := range startCounts {
		sumStart += startCounts[i]
		sumEnd += endCounts[i]
	}
	if sumStart != len(intervals) || sumEnd != len(intervals) {
		t.Errorf("table sums %d/%d, want %d", sumStart, sumEnd, len(intervals))
	}
}

func TestTallyInvalid(t *testing.T) {
	if _, _, err := Tally(10, []align.Interval{{Start: 10, End: 2}}); err == nil {
		t.Error("expected error for out-of-range start")
	}
	if _, _, err := Tally(0, nil); err == nil {
		t.Error("expected error for zero-length reference")
	}
}

func TestTestUniformSkewed(t *testing.T) {
	// One position holds 60 of 100 observations over 5 positions: it must
	// carry the smallest raw and adjusted p-values and the only flag.
	counts := []int{10, 10, 10, 10, 60}
	res := TestUniform(counts, 100, DefaultConfig())
	if len(res.Records) != 5 {
		t.Fatalf("got %d records", len(res.Records))
	}
	for i, r := range res.Records {
		if r.Expected != 20 {
			t.Errorf("position %d: expected %g, want 20", i, r.Expected)
		}
		if i == 4 {
			continue
		}
		if res.Records[4].RawP >= r.RawP {
			t.Errorf("raw p at 4 (%g) not below position %d (%g)", res.Records[4].RawP, i, r.RawP)
		}
		if res.Records[4].BonferroniP >= r.BonferroniP {
			t.Errorf("Bonferroni p at 4 (%g) not below position %d (%g)", res.Records[4].BonferroniP, i, r.BonferroniP)
		}
		if res.Records[4].BHQ >= r.BHQ {
			t.Errorf("BH q at 4 (%g) not below position %d (%g)", res.Records[4].BHQ, i, r.BHQ)
		}
		if r.Significant {
			t.Errorf("position %d flagged significant", i)
		}
	}
	if !res.Records[4].Significant {
		t.Error("position 4 not flagged significant")
	}
	for i, r := range res.Records {
		if r.BHQ > r.BonferroniP {
			t.Errorf("position %d: BH %g > Bonferroni %g", i, r.BHQ, r.BonferroniP)
		}
	}
	if res.ChiSquareP > 1e-6 {
		t.Errorf("table chi-square p = %g, want < 1e-6", res.ChiSquareP)
	}
}

func TestTestUniformDegenerate(t *testing.T) {
	res := TestUniform([]int{0, 0, 0, 0}, 0, DefaultConfig())
	for i, r := range res.Records {
		if r.Expected != 0 || r.RawP != 1 || r.BonferroniP != 1 || r.BHQ != 1 || r.Significant {
			t.Errorf("position %d: degenerate record %+v", i, r)
		}
	}
	if res.ChiSquareP != 1 {
		t.Errorf("degenerate chi-square p = %g, want 1", res.ChiSquareP)
	}
}

func TestAnalyze(t *testing.T) {
	intervals := []align.Interval{{Start: 2, End: 5}, {Start: 8, End: 2}}
	start, end, n, err := Analyze(10, intervals, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("n = %d, want 2", n)
	}
	if start.Counts[2] != 1 || start.Counts[8] != 1 {
		t.Errorf("start counts %v", start.Counts)
	}
	if end.Counts[5] != 1 || end.Counts[2] != 1 {
		t.Errorf("end counts %v", end.Counts)
	}
}

func TestAnalyzeEmptyBatch(t *testing.T) {
	start, end, n, err := Analyze(5, nil, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("n = %d, want 0", n)
	}
	for _, res := range []TableResult{start, end} {
		for i, r := range res.Records {
			if r.Significant {
				t.Errorf("position %d flagged significant on empty batch", i)
			}
		}
	}
}

func TestTestUniformDeterministic(t *testing.T) {
	counts := []int{3, 0, 0, 7, 0, 3, 1, 0, 0, 1}
	first := TestUniform(counts, 15, DefaultConfig())
	second := TestUniform(counts, 15, DefaultConfig())
	if !reflect.DeepEqual(first, second) {
		t.Error("analysis not deterministic")
	}
}
