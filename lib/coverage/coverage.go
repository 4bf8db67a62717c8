//
// Copyright (C) 2024 Matthew Penner
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package coverage

import (
	"github.com/Matt115A/NuCSI/lib/align"
	"github.com/Matt115A/NuCSI/lib/circular"
)

// Profile computes the per-position fragment coverage of a circular
// reference. Pure function of its inputs; an empty batch yields an all-zero
// vector. Runs in time proportional to the total number of covered bases.
func Profile(length int, intervals []align.Interval) ([]int, error) {
	if err := circular.CheckLength(length); err != nil {
		return nil, err
	}
	cov := make([]int, length)
	for _, iv := range intervals {
		positions, err := circular.Positions(iv.Start, iv.End, length)
		if err != nil {
			return nil, err
		}
		for _, p := range positions {
			cov[p]++
		}
	}
	return cov, nil
}

// Sum returns the total number of covered bases, i.e. the sum of all
// per-interval spans.
func Sum(cov []int) (total int) {
	for _, c := range cov {
		total += c
	}
	return
}
