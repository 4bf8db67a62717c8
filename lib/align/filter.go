//
// Copyright (C) 2024 Matthew Penner
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package align

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/biogo/store/interval"
)

// Integer-specific intervals for the exclusion trees.

type IntInterval struct {
	Start, End int
	UID        uintptr
}

func (i IntInterval) Overlap(b interval.IntRange) bool {
	// Half-open interval indexing.
	return i.End > b.Start && i.Start < b.End
}

func (i IntInterval) ID() uintptr {
	return i.UID
}

func (i IntInterval) Range() interval.IntRange {
	return interval.IntRange{Start: i.Start, End: i.End}
}

// ExcludeFilter drops fragments overlapping excluded reference regions, e.g.
// known cloning scars or primer binding sites.
type ExcludeFilter struct {
	trees map[string]*interval.IntTree
}

// OpenExclude parses a tabulated file of regions to exclude with columns
// reference, start, end (0-based, closed like fragment coordinates) and
// builds one interval tree per reference.
func OpenExclude(tpath string) (*ExcludeFilter, error) {
	tfos, err := os.Open(tpath)
	if err != nil {
		return nil, err
	}
	defer tfos.Close()

	f := &ExcludeFilter{trees: make(map[string]*interval.IntTree)}
	var uid uintptr
	var iline int
	tscanner := bufio.NewScanner(tfos)
	for tscanner.Scan() {
		iline++
		line := strings.TrimSpace(tscanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return nil, fmt.Errorf("exclude file %s line %d: expected 3 columns, got %d", tpath, iline, len(fields))
		}
		start, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("exclude file %s line %d: %w", tpath, iline, err)
		}
		end, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("exclude file %s line %d: %w", tpath, iline, err)
		}
		tree, ok := f.trees[fields[0]]
		if !ok {
			tree = &interval.IntTree{}
			f.trees[fields[0]] = tree
		}
		// Closed input coordinates, half-open tree intervals.
		if err := tree.Insert(IntInterval{Start: start, End: end + 1, UID: uid}, false); err != nil {
			return nil, err
		}
		uid++
	}
	if err := tscanner.Err(); err != nil {
		return nil, err
	}
	for _, tree := range f.trees {
		tree.AdjustRanges()
	}
	return f, nil
}

// Drop reports whether the fragment overlaps any excluded region of the
// named reference. A wrapping fragment is checked as its two linear arcs.
func (f *ExcludeFilter) Drop(ref string, iv Interval, length int) bool {
	if f == nil {
		return false
	}
	tree, ok := f.trees[ref]
	if !ok {
		return false
	}
	if iv.End >= iv.Start {
		return len(tree.Get(IntInterval{Start: iv.Start, End: iv.End + 1})) > 0
	}
	if len(tree.Get(IntInterval{Start: iv.Start, End: length})) > 0 {
		return true
	}
	return len(tree.Get(IntInterval{Start: 0, End: iv.End + 1})) > 0
}
