//
// Copyright (C) 2024 Matthew Penner
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package coverage

import (
	"sort"

	"github.com/Matt115A/NuCSI/lib/circular"
)

// EmptyCoverageError reports a zero-length coverage vector, which cannot be
// analyzed.
type EmptyCoverageError struct{}

func (EmptyCoverageError) Error() string {
	return "empty coverage vector"
}

// Candidate is one candidate cleavage position found from the coverage
// profile. Delta is the circular first difference to the previous position.
type Candidate struct {
	Position int
	Coverage int
	Delta    int
	Rank     int
}

// DropOff finds the global coverage minimum and the sharpest circular
// coverage decrease, and derives the zoom window of half-width halfWidth
// around the top candidate.
//
// Ties on either metric go to the smallest position index. When the two
// metrics disagree, both candidates are reported; the lowest-coverage
// candidate is the primary one and centers the zoom window. Candidates are
// ordered by descending delta magnitude, ties by ascending position.
func DropOff(cov []int, halfWidth int) ([]Candidate, circular.Window, error) {
	length := len(cov)
	if length == 0 {
		return nil, circular.Window{}, EmptyCoverageError{}
	}

	minPos, dropPos := 0, 0
	minDelta := cov[0] - cov[length-1]
	for i := 1; i < length; i++ {
		if cov[i] < cov[minPos] {
			minPos = i
		}
		if delta := cov[i] - cov[i-1]; delta < minDelta {
			minDelta = delta
			dropPos = i
		}
	}

	candidates := []Candidate{{
		Position: minPos,
		Coverage: cov[minPos],
		Delta:    cov[minPos] - cov[circular.Normalize(minPos-1, length)],
	}}
	if dropPos != minPos {
		candidates = append(candidates, Candidate{
			Position: dropPos,
			Coverage: cov[dropPos],
			Delta:    minDelta,
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		di, dj := abs(candidates[i].Delta), abs(candidates[j].Delta)
		if di != dj {
			return di > dj
		}
		return candidates[i].Position < candidates[j].Position
	})
	for i := range candidates {
		candidates[i].Rank = i + 1
	}

	// Window centering follows the lowest-coverage candidate, not the
	// sharpest drop, when the two disagree.
	window, err := circular.NewWindow(minPos, halfWidth, length)
	if err != nil {
		return nil, circular.Window{}, err
	}
	return candidates, window, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
