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

	"github.com/Matt115A/NuCSI/lib/circular"
)

// Reference is one circular reference sequence. Seq is optional; analysis
// only requires Length.
type Reference struct {
	Name   string
	Length int
	Seq    []byte
}

// Interval is one aligned read pair (fragment) on a circular reference.
// Coordinates are 0-based and closed: [Start, End] inclusive. End < Start
// means the fragment crosses the origin. Strand is +1 or -1.
type Interval struct {
	Start  int
	End    int
	Strand int8
	ReadID string
}

// Batch is the immutable set of fragments mapped to one reference for one
// sample. One Batch is the input of one analysis run.
type Batch struct {
	Ref       Reference
	Intervals []Interval
}

// Span returns the number of reference bases covered by the interval.
func (iv Interval) Span(length int) (int, error) {
	return circular.Span(iv.Start, iv.End, length)
}

// Validate rejects the whole batch on the first malformed interval. Upstream
// corruption is not filtered silently.
func (b *Batch) Validate() error {
	if err := circular.CheckLength(b.Ref.Length); err != nil {
		return fmt.Errorf("reference %s: %w", b.Ref.Name, err)
	}
	for i, iv := range b.Intervals {
		if err := circular.CheckPos(iv.Start, b.Ref.Length); err != nil {
			return fmt.Errorf("reference %s, interval %d (%s): %w", b.Ref.Name, i, iv.ReadID, err)
		}
		if err := circular.CheckPos(iv.End, b.Ref.Length); err != nil {
			return fmt.Errorf("reference %s, interval %d (%s): %w", b.Ref.Name, i, iv.ReadID, err)
		}
	}
	return nil
}

// ParseStrand converts a strand string (+, 1, +1, -, -1) to its int8 form.
func ParseStrand(raw string) int8 {
	if raw == "+" || raw == "1" || raw == "+1" {
		return 1
	}
	if raw == "-" || raw == "-1" {
		return -1
	}
	return 0
}
