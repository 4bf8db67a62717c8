//
// Copyright (C) 2024 Matthew Penner
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package circular

import (
	"fmt"
)

// InvalidRangeError reports a reference length or position outside the valid
// input domain of a circular coordinate system.
type InvalidRangeError struct {
	Length int
	Pos    int
	Msg    string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid circular range: %s (position %d, reference length %d)", e.Msg, e.Pos, e.Length)
}

// CheckLength returns an InvalidRangeError if length is not a positive reference length.
func CheckLength(length int) error {
	if length <= 0 {
		return &InvalidRangeError{Length: length, Msg: "reference length must be positive"}
	}
	return nil
}

// CheckPos returns an InvalidRangeError if pos is outside [0, length).
// Upstream interval producers use this coordinate domain directly, so an
// out-of-domain position indicates corrupted input, not a wrap.
func CheckPos(pos, length int) error {
	if err := CheckLength(length); err != nil {
		return err
	}
	if pos < 0 || pos >= length {
		return &InvalidRangeError{Length: length, Pos: pos, Msg: "position outside reference"}
	}
	return nil
}

// Normalize maps any integer onto [0, length), supporting negative inputs:
// one position left of the origin maps to length-1.
func Normalize(pos, length int) int {
	pos %= length
	if pos < 0 {
		pos += length
	}
	return pos
}

// Span returns the number of bases covered by the closed interval [start, end].
// When end < start the interval crosses the origin and covers
// (length-start)+(end+1) bases. start == end covers a single base.
func Span(start, end, length int) (int, error) {
	if err := CheckPos(start, length); err != nil {
		return 0, err
	}
	if err := CheckPos(end, length); err != nil {
		return 0, err
	}
	if end >= start {
		return end - start + 1, nil
	}
	return (length - start) + (end + 1), nil
}

// Positions returns the ordered sequence of positions covered by the closed
// interval [start, end], wrapping at the origin when end < start.
func Positions(start, end, length int) ([]int, error) {
	n, err := Span(start, end, length)
	if err != nil {
		return nil, err
	}
	positions := make([]int, n)
	p := start
	for i := 0; i < n; i++ {
		positions[i] = p
		p++
		if p == length {
			p = 0
		}
	}
	return positions, nil
}

// Distance returns the minimal circular distance between positions a and b.
func Distance(a, b, length int) (int, error) {
	if err := CheckPos(a, length); err != nil {
		return 0, err
	}
	if err := CheckPos(b, length); err != nil {
		return 0, err
	}
	d := a - b
	if d < 0 {
		d = -d
	}
	if length-d < d {
		d = length - d
	}
	return d, nil
}
