//
// Copyright (C) 2024 Matthew Penner
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package align

import (
	"fmt"
	"math"

	"github.com/biogo/hts/sam"

	"github.com/Matt115A/NuCSI/lib/circular"
)

// FragmentInterval converts the mapped read(s) of one fragment into a closed
// circular interval. BAM coordinates are half-open, so the last covered base
// is End()-1. Positions past the reference length (reads aligned over the
// junction of a doubled reference) are normalized back onto [0, length).
//
// Aligners place both mates linearly even on a circular reference. With
// circularPairs, a pair whose direct span exceeds half the circle is read as
// the shorter arc through the origin instead.
func FragmentInterval(areads []*sam.Record, length int, circularPairs bool) (Interval, error) {
	if len(areads) == 0 {
		return Interval{}, fmt.Errorf("fragment without mapped read")
	}
	if err := circular.CheckLength(length); err != nil {
		return Interval{}, err
	}
	leftStart := math.MaxInt32
	rightEnd := math.MinInt32
	for _, r := range areads {
		if r.Start() < leftStart {
			leftStart = r.Start()
		}
		if r.End() > rightEnd {
			rightEnd = r.End()
		}
	}
	iv := Interval{
		Start:  circular.Normalize(leftStart, length),
		End:    circular.Normalize(rightEnd-1, length),
		Strand: areads[0].Strand(),
		ReadID: areads[0].Name,
	}
	if circularPairs && len(areads) == 2 && iv.End >= iv.Start && iv.End-iv.Start+1 > length/2 {
		left, right := areads[0], areads[1]
		if left.Start() > right.Start() {
			left, right = right, left
		}
		iv.Start = circular.Normalize(right.Start(), length)
		iv.End = circular.Normalize(left.End()-1, length)
	}
	return iv, nil
}
