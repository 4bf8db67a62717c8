//
// Copyright (C) 2024 Matthew Penner
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package circular

// Window is a closed circular interval [Start, End] of half-width HalfWidth
// centered on Center. Start and End are normalized onto [0, Length) and may
// wrap across the origin.
type Window struct {
	Center    int
	HalfWidth int
	Start     int
	End       int
	Length    int
}

// NewWindow builds the zoom window [center-halfWidth, center+halfWidth].
// A window wider than the reference is clamped to the full circle.
func NewWindow(center, halfWidth, length int) (Window, error) {
	if err := CheckPos(center, length); err != nil {
		return Window{}, err
	}
	if halfWidth < 0 {
		halfWidth = 0
	}
	w := Window{Center: center, HalfWidth: halfWidth, Length: length}
	if 2*halfWidth+1 >= length {
		w.Start = 0
		w.End = length - 1
		return w, nil
	}
	w.Start = Normalize(center-halfWidth, length)
	w.End = Normalize(center+halfWidth, length)
	return w, nil
}

// Positions returns the ordered positions covered by the window.
func (w Window) Positions() []int {
	positions, _ := Positions(w.Start, w.End, w.Length)
	return positions
}

// Contains reports whether position p falls inside the window.
func (w Window) Contains(p int) bool {
	if w.Start <= w.End {
		return p >= w.Start && p <= w.End
	}
	return p >= w.Start || p <= w.End
}
