//
// Copyright (C) 2024 Matthew Penner
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package sites

import (
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// BinomTest returns the one-sided upper-tail p-value P(X >= k) for
// X ~ Binomial(n, p), i.e. the probability of observing at least k fragment
// endpoints at one position under the uniform null.
func BinomTest(k, n int, p float64) float64 {
	if n <= 0 || k <= 0 {
		return 1
	}
	if k > n {
		return 0
	}
	dist := distuv.Binomial{N: float64(n), P: p}
	pv := dist.Survival(float64(k - 1))
	if pv < 0 {
		return 0
	}
	if pv > 1 {
		return 1
	}
	return pv
}

// Bonferroni adjusts raw p-values for family-wise error: p*m capped at 1,
// with m the number of tests.
func Bonferroni(pvals []float64) []float64 {
	m := float64(len(pvals))
	adj := make([]float64, len(pvals))
	for i, p := range pvals {
		q := p * m
		if q > 1 {
			q = 1
		}
		adj[i] = q
	}
	return adj
}

// BenjaminiHochberg adjusts raw p-values for false discovery rate with the
// standard step-up procedure: sort ascending, q_k = p_(k)*m/k, enforce
// monotonicity by a running minimum from the largest rank down, remap to the
// original order. The sort is stable on the original index, so tied p-values
// adjust deterministically.
func BenjaminiHochberg(pvals []float64) []float64 {
	m := len(pvals)
	adj := make([]float64, m)
	if m == 0 {
		return adj
	}
	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return pvals[order[i]] < pvals[order[j]]
	})
	sorted := make([]float64, m)
	for k, idx := range order {
		sorted[k] = pvals[idx] * float64(m) / float64(k+1)
	}
	runMin := sorted[m-1]
	for k := m - 1; k >= 0; k-- {
		if sorted[k] < runMin {
			runMin = sorted[k]
		}
		q := runMin
		if q > 1 {
			q = 1
		}
		adj[order[k]] = q
	}
	return adj
}

// ChiSquareUniform returns the p-value of the global chi-square test of the
// observed counts against the uniform expectation n/len(counts), with
// len(counts)-1 degrees of freedom. This is a table-level uniformity score,
// not a per-position test.
func ChiSquareUniform(counts []int, n int) float64 {
	length := len(counts)
	if n == 0 || length < 2 {
		return 1
	}
	expected := float64(n) / float64(length)
	var x2 float64
	for _, o := range counts {
		d := float64(o) - expected
		x2 += d * d / expected
	}
	dist := distuv.ChiSquared{K: float64(length - 1)}
	pv := dist.Survival(x2)
	if pv < 0 {
		return 0
	}
	if pv > 1 {
		return 1
	}
	return pv
}
