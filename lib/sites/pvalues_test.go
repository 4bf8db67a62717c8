//
// Copyright (C) 2024 Matthew Penner
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package sites

import (
	"math"
	"testing"
)

func TestBinomTest(t *testing.T) {
	if got := BinomTest(0, 100, 0.2); got != 1 {
		t.Errorf("BinomTest(0, 100, 0.2) = %g, want 1", got)
	}
	if got := BinomTest(5, 0, 0.2); got != 1 {
		t.Errorf("BinomTest(5, 0, 0.2) = %g, want 1", got)
	}
	if got := BinomTest(101, 100, 0.2); got != 0 {
		t.Errorf("BinomTest(101, 100, 0.2) = %g, want 0", got)
	}
	// Expected count is 20: observing >= 60 is essentially impossible,
	// observing >= 10 is near certain.
	if got := BinomTest(60, 100, 0.2); got > 1e-10 {
		t.Errorf("BinomTest(60, 100, 0.2) = %g, want < 1e-10", got)
	}
	if got := BinomTest(10, 100, 0.2); got < 0.99 {
		t.Errorf("BinomTest(10, 100, 0.2) = %g, want > 0.99", got)
	}
	// Upper-tail p-values decrease as the observed count grows.
	prev := 1.0
	for k := 1; k <= 100; k += 9 {
		p := BinomTest(k, 100, 0.2)
		if p > prev {
			t.Fatalf("BinomTest not monotone: p(%d) = %g > %g", k, p, prev)
		}
		prev = p
	}
}

func TestBonferroni(t *testing.T) {
	got := Bonferroni([]float64{0.01, 0.5})
	if got[0] != 0.02 || got[1] != 1 {
		t.Errorf("Bonferroni = %v, want [0.02 1]", got)
	}
}

func TestBenjaminiHochberg(t *testing.T) {
	// Reference values from the standard step-up procedure.
	for _, v := range []struct {
		pvals []float64
		want  []float64
	}{
		{
			[]float64{0.01, 0.02, 0.03, 0.04, 0.05},
			[]float64{0.05, 0.05, 0.05, 0.05, 0.05},
		},
		{
			[]float64{0.005, 0.011, 0.02, 0.04},
			[]float64{0.02, 0.022, 0.02 * 4 / 3, 0.04},
		},
		{
			// Unsorted input: adjustment remaps to original positions.
			[]float64{0.04, 0.005, 0.02, 0.011},
			[]float64{0.04, 0.02, 0.02 * 4 / 3, 0.022},
		},
	} {
		got := BenjaminiHochberg(v.pvals)
		if len(got) != len(v.want) {
			t.Fatalf("BenjaminiHochberg(%v) = %v", v.pvals, got)
		}
		for i := range got {
			if math.Abs(got[i]-v.want[i]) > 1e-12 {
				t.Errorf("BenjaminiHochberg(%v)[%d] = %g, want %g", v.pvals, i, got[i], v.want[i])
			}
		}
	}
}

func TestBenjaminiHochbergBounds(t *testing.T) {
	pvals := []float64{0.9, 0.04, 0.0004, 0.33, 0.0021, 0.17, 0.0004, 1, 0.62, 0.051}
	bh := BenjaminiHochberg(pvals)
	bon := Bonferroni(pvals)
	for i := range pvals {
		if bh[i] > bon[i] {
			t.Errorf("position %d: BH %g > Bonferroni %g", i, bh[i], bon[i])
		}
		if bh[i] < pvals[i] || bh[i] > 1 {
			t.Errorf("position %d: BH %g outside [raw, 1]", i, bh[i])
		}
	}
}

func TestChiSquareUniform(t *testing.T) {
	if got := ChiSquareUniform([]int{20, 20, 20, 20, 20}, 100); got != 1 {
		t.Errorf("uniform counts: p = %g, want 1", got)
	}
	if got := ChiSquareUniform([]int{10, 10, 10, 10, 60}, 100); got > 1e-6 {
		t.Errorf("skewed counts: p = %g, want < 1e-6", got)
	}
	if got := ChiSquareUniform([]int{0, 0, 0}, 0); got != 1 {
		t.Errorf("empty table: p = %g, want 1", got)
	}
}
