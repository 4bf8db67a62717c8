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
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// OpenLengths parses a two column tabulated file with name and length of each
// circular reference.
func OpenLengths(tpath string) (refs []Reference, err error) {
	tfos, err := os.Open(tpath)
	if err != nil {
		return
	}
	defer tfos.Close()

	tscanner := bufio.NewScanner(tfos)
	for tscanner.Scan() {
		line := strings.TrimSpace(tscanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			err = fmt.Errorf("reference length file %s: expected 2 columns, got %d", tpath, len(fields))
			return
		}
		var length int
		length, err = strconv.Atoi(fields[1])
		if err != nil {
			return
		}
		refs = append(refs, Reference{Name: fields[0], Length: length})
	}
	err = tscanner.Err()
	return
}

// OpenIntervals parses a tabulated fragment file with columns reference,
// start, end, strand and an optional read name. Gzip compressed input (.gz)
// is opened transparently. Reference lengths come from refs; fragments mapped
// to an unknown reference are an error, not silently dropped.
func OpenIntervals(tpath string, refs []Reference) (map[string]*Batch, error) {
	f, err := os.Open(tpath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(tpath, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	}

	batches := make(map[string]*Batch)
	for _, ref := range refs {
		batches[ref.Name] = &Batch{Ref: ref}
	}

	var iline int
	tscanner := bufio.NewScanner(r)
	for tscanner.Scan() {
		iline++
		line := strings.TrimSpace(tscanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 4 {
			return nil, fmt.Errorf("fragment file %s line %d: expected at least 4 columns, got %d", tpath, iline, len(fields))
		}
		batch, ok := batches[fields[0]]
		if !ok {
			return nil, fmt.Errorf("fragment file %s line %d: unknown reference %s", tpath, iline, fields[0])
		}
		start, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("fragment file %s line %d: %w", tpath, iline, err)
		}
		end, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("fragment file %s line %d: %w", tpath, iline, err)
		}
		iv := Interval{Start: start, End: end, Strand: ParseStrand(fields[3])}
		if len(fields) > 4 {
			iv.ReadID = fields[4]
		}
		batch.Intervals = append(batch.Intervals, iv)
	}
	if err := tscanner.Err(); err != nil {
		return nil, err
	}
	return batches, nil
}
