//
// Copyright (C) 2024 Matthew Penner
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package coverage

import (
	"errors"
	"reflect"
	"testing"
)

func TestDropOffSingleCandidate(t *testing.T) {
	// Minimum and sharpest drop coincide at position 3.
	cov := []int{100, 100, 100, 5, 100, 100}
	candidates, window, err := DropOff(cov, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d: %v", len(candidates), candidates)
	}
	c := candidates[0]
	if c.Position != 3 || c.Coverage != 5 || c.Delta != -95 || c.Rank != 1 {
		t.Errorf("candidate %+v", c)
	}
	if window.Start != 1 || window.End != 5 || window.Center != 3 {
		t.Errorf("window [%d, %d] center %d, want [1, 5] center 3", window.Start, window.End, window.Center)
	}
}

func TestDropOffWindowWrap(t *testing.T) {
	cov := []int{5, 100, 100, 100, 100, 100, 100, 100}
	candidates, window, err := DropOff(cov, 2)
	if err != nil {
		t.Fatal(err)
	}
	if candidates[0].Position != 0 {
		t.Errorf("top candidate at %d, want 0", candidates[0].Position)
	}
	if window.Start != 6 || window.End != 2 {
		t.Errorf("window [%d, %d], want wrapped [6, 2]", window.Start, window.End)
	}
	if got := window.Positions(); !reflect.DeepEqual(got, []int{6, 7, 0, 1, 2}) {
		t.Errorf("window positions %v", got)
	}
}

func TestDropOffDisagreeingMetrics(t *testing.T) {
	// Sharpest drop at 1 (delta -5), coverage minimum at 3 (delta -4, first
	// of the tied zeros).
	cov := []int{9, 4, 4, 0, 0, 0, 9}
	candidates, window, err := DropOff(cov, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %v", candidates)
	}
	if candidates[0].Position != 1 || candidates[0].Delta != -5 || candidates[0].Rank != 1 {
		t.Errorf("rank 1 candidate %+v, want sharpest drop at 1", candidates[0])
	}
	if candidates[1].Position != 3 || candidates[1].Delta != -4 || candidates[1].Rank != 2 {
		t.Errorf("rank 2 candidate %+v, want minimum at 3", candidates[1])
	}
	// Lowest coverage is primary for window centering.
	if window.Center != 3 {
		t.Errorf("window centered on %d, want minimum position 3", window.Center)
	}
}

func TestDropOffTieBreak(t *testing.T) {
	// Two equal minima and equal drops: smallest index wins.
	cov := []int{8, 2, 8, 2, 8, 8}
	candidates, window, err := DropOff(cov, 1)
	if err != nil {
		t.Fatal(err)
	}
	if candidates[0].Position != 1 {
		t.Errorf("top candidate at %d, want 1", candidates[0].Position)
	}
	if window.Center != 1 {
		t.Errorf("window centered on %d, want 1", window.Center)
	}
}

func TestDropOffEmpty(t *testing.T) {
	_, _, err := DropOff(nil, 5)
	var emptyErr EmptyCoverageError
	if !errors.As(err, &emptyErr) {
		t.Errorf("expected EmptyCoverageError, got %v", err)
	}
}

func TestDropOffDeterministic(t *testing.T) {
	cov := []int{9, 4, 4, 0, 0, 0, 9}
	first, w1, err := DropOff(cov, 3)
	if err != nil {
		t.Fatal(err)
	}
	second, w2, err := DropOff(cov, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) || w1 != w2 {
		t.Errorf("drop-off not deterministic: %v / %v vs %v / %v", first, w1, second, w2)
	}
}
