//
// Copyright (C) 2024 Matthew Penner
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"

	"golang.org/x/sync/errgroup"

	"gopkg.in/fatih/set.v0"

	"github.com/Matt115A/NuCSI/lib/align"
	"github.com/Matt115A/NuCSI/lib/coverage"
	"github.com/Matt115A/NuCSI/lib/report"
	"github.com/Matt115A/NuCSI/lib/sites"
)

// PathAln stores Path to SAM (Binary=false) or BAM (Binary=true) file.
type PathAln struct {
	Path   string
	Binary bool
}

func Max(x, y int) int {
	if x > y {
		return x
	}
	return y
}

// OpenAln opens a SAM/BAM file, optionally through an external command for SAM input.
func OpenAln(pathAln PathAln, cmd []string, nReader int) (f *os.File, pp io.ReadCloser, rr sam.RecordReader, err error) {
	if pathAln.Binary {
		f, err = os.Open(pathAln.Path)
		if err != nil {
			return f, pp, rr, err
		}
		rr, err = bam.NewReader(f, nReader)
	} else {
		if len(cmd) == 0 {
			f, err = os.Open(pathAln.Path)
			if err != nil {
				return f, pp, rr, err
			}
			rr, err = sam.NewReader(f)
		} else {
			cmd = append(cmd, pathAln.Path)
			p := exec.Command(cmd[0], cmd[1:]...)
			if pp, err = p.StdoutPipe(); err != nil {
				return f, pp, rr, err
			}
			if err = p.Start(); err != nil {
				return f, pp, rr, err
			}
			rr, err = sam.NewReader(pp)
		}
	}
	return f, pp, rr, nil
}

// Scan collects fragment intervals from all inputs, analyzes each reference
// and writes the per-reference result tables.
func Scan(pathAlns []PathAln, samCmdIn []string, pathIntervals []string, refs []align.Reference, exclude *align.ExcludeFilter, paired bool, circularPairs bool, minMappingQuality byte, inProperPair bool, fragmentMinLength int, fragmentMaxLength int, randProportion float32, dropoffWindow int, sitesCfg sites.Config, coverageFormats []string, outPrefix string, appendOutput bool, pathReport string, nWorker int, timeStart time.Time, verboseLevel int) (nAlign uint64, err error) {
	// Known references from the length file, if any
	refByName := make(map[string]align.Reference)
	for _, ref := range refs {
		refByName[ref.Name] = ref
	}

	batches := make(map[string]*align.Batch)
	readSet := set.New(set.ThreadSafe)

	// Tabulated fragment input
	for _, p := range pathIntervals {
		if verboseLevel > 0 {
			timeNow := time.Now()
			fmt.Printf("%.1fmin - Opening %s\n", timeNow.Sub(timeStart).Minutes(), p)
		}
		if len(refs) == 0 {
			return nAlign, fmt.Errorf("fragment input %s requires a reference length file", p)
		}
		opened, err := align.OpenIntervals(p, refs)
		if err != nil {
			return nAlign, err
		}
		for name, b := range opened {
			batch, ok := batches[name]
			if !ok {
				batch = &align.Batch{Ref: b.Ref}
				batches[name] = batch
			}
			for _, iv := range b.Intervals {
				nAlign++
				if !keepInterval(iv, b.Ref, exclude, fragmentMinLength, fragmentMaxLength, randProportion) {
					continue
				}
				if iv.ReadID != "" {
					readSet.Add(iv.ReadID)
				}
				batch.Intervals = append(batch.Intervals, iv)
			}
		}
	}

	// SAM/BAM input
	nReader := Max(1, nWorker/2)
	for _, pathAln := range pathAlns {
		if verboseLevel > 0 {
			timeNow := time.Now()
			fmt.Printf("%.1fmin - Opening %s\n", timeNow.Sub(timeStart).Minutes(), pathAln.Path)
		}
		n, err := scanAln(pathAln, samCmdIn, nReader, refByName, batches, readSet, exclude, paired, circularPairs, minMappingQuality, inProperPair, fragmentMinLength, fragmentMaxLength, randProportion, timeStart, verboseLevel)
		nAlign += n
		if err != nil {
			return nAlign, err
		}
	}

	// Analyze references in deterministic order, with bounded workers. A
	// structural error aborts only the offending reference's run.
	names := make([]string, 0, len(batches))
	for name := range batches {
		names = append(names, name)
	}
	sort.Strings(names)

	var failMu sync.Mutex
	failed := make(map[string]string)

	var g errgroup.Group
	chRun := make(chan *align.Batch, nWorker)
	for i := 0; i < Max(1, nWorker); i++ {
		g.Go(func() error {
			for batch := range chRun {
				res, err := analyzeBatch(batch, dropoffWindow, sitesCfg)
				if err != nil {
					failMu.Lock()
					failed[batch.Ref.Name] = err.Error()
					failMu.Unlock()
					fmt.Fprintf(os.Stderr, "skipping reference %s: %v\n", batch.Ref.Name, err)
					continue
				}
				if err := writeResult(res, coverageFormats, outPrefix, appendOutput); err != nil {
					return err
				}
				if verboseLevel > 0 {
					timeNow := time.Now()
					fmt.Printf("%.1fmin - Done %s (%d fragments)\n", timeNow.Sub(timeStart).Minutes(), batch.Ref.Name, len(batch.Intervals))
				}
			}
			return nil
		})
	}
	for _, name := range names {
		chRun <- batches[name]
	}
	close(chRun)
	if err := g.Wait(); err != nil {
		return nAlign, err
	}

	// Output: Report
	if pathReport != "" {
		if err := WriteReport(pathReport, nAlign, readSet, batches, failed); err != nil {
			return nAlign, err
		}
	}
	return nAlign, nil
}

// scanAln reads one SAM/BAM file and adds the fragment of each mapped pair to
// its reference batch.
func scanAln(pathAln PathAln, samCmdIn []string, nReader int, refByName map[string]align.Reference, batches map[string]*align.Batch, readSet set.Interface, exclude *align.ExcludeFilter, paired bool, circularPairs bool, minMappingQuality byte, inProperPair bool, fragmentMinLength int, fragmentMaxLength int, randProportion float32, timeStart time.Time, verboseLevel int) (nAlign uint64, err error) {
	f, pp, rr, err := OpenAln(pathAln, samCmdIn, nReader)
	if err != nil {
		return nAlign, err
	}
	if f != nil {
		defer f.Close()
	}
	if pp != nil {
		defer pp.Close()
	}

	var isRead1First, read1Mapped, mateMapped bool
	for {
		var areads []*sam.Record
		aread, err := rr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nAlign, err
		}
		read1Mapped = aread.Flags&sam.Unmapped == 0
		if paired {
			var areadM *sam.Record
			mateMapped = aread.Flags&sam.MateUnmapped == 0
			if mateMapped {
				for {
					areadM, err = rr.Read()
					if err == io.EOF {
						break
					} else if err != nil {
						return nAlign, err
					}
					// If alignment is not supplementary, let's keep it
					if areadM.Flags&sam.Supplementary == 0 {
						break
					}
				}
				if areadM != nil && aread.Name != areadM.Name {
					return nAlign, fmt.Errorf("different names for Read1 %s and Read2 %s", aread.Name, areadM.Name)
				}
			}
			isRead1First = aread.Flags&sam.Read1 != 0
			if read1Mapped && mateMapped && areadM != nil {
				if isRead1First {
					areads = append(areads, aread, areadM)
				} else {
					areads = append(areads, areadM, aread)
				}
			} else if read1Mapped {
				areads = append(areads, aread)
			} else if mateMapped && areadM != nil {
				areads = append(areads, areadM)
			}
		} else {
			if aread.Flags&sam.Unmapped != 0 || aread.Flags&sam.Supplementary != 0 {
				continue
			}
			areads = append(areads, aread)
		}
		if len(areads) == 0 {
			continue
		}
		nAlign++

		// Read(s) filtering
		if inProperPair || minMappingQuality > 0 {
			filterOK := true
			for _, r := range areads {
				if inProperPair && r.Flags&sam.ProperPair == 0 {
					filterOK = false
					break
				}
				if minMappingQuality > 0 && r.MapQ < minMappingQuality {
					filterOK = false
					break
				}
			}
			if !filterOK {
				continue
			}
		}

		// Reference resolution: length file overrides the header
		refName := areads[0].Ref.Name()
		ref, ok := refByName[refName]
		if !ok {
			ref = align.Reference{Name: refName, Length: areads[0].Ref.Len()}
			refByName[refName] = ref
		}

		iv, err := align.FragmentInterval(areads, ref.Length, circularPairs)
		if err != nil {
			return nAlign, fmt.Errorf("%s: %w", pathAln.Path, err)
		}
		if !keepInterval(iv, ref, exclude, fragmentMinLength, fragmentMaxLength, randProportion) {
			continue
		}
		readSet.Add(areads[0].Name)

		batch, ok := batches[refName]
		if !ok {
			batch = &align.Batch{Ref: ref}
			batches[refName] = batch
		}
		batch.Intervals = append(batch.Intervals, iv)
	}
	return nAlign, nil
}

// keepInterval applies fragment-level selection: length bounds on the
// circular span, region exclusion and random subsampling.
func keepInterval(iv align.Interval, ref align.Reference, exclude *align.ExcludeFilter, fragmentMinLength, fragmentMaxLength int, randProportion float32) bool {
	if fragmentMinLength > 0 || fragmentMaxLength > 0 {
		span, err := iv.Span(ref.Length)
		if err != nil {
			// malformed input is caught by Validate, not silently dropped here
			return true
		}
		if fragmentMinLength > 0 && span < fragmentMinLength {
			return false
		}
		if fragmentMaxLength > 0 && span > fragmentMaxLength {
			return false
		}
	}
	if exclude.Drop(ref.Name, iv, ref.Length) {
		return false
	}
	if randProportion > 0 && rand.Float32() > randProportion {
		return false
	}
	return true
}

// analyzeBatch runs the full analysis for one reference: coverage profiling
// and start/end frequency testing concurrently over the same immutable batch,
// then drop-off detection on the finished coverage vector, then aggregation.
func analyzeBatch(batch *align.Batch, dropoffWindow int, sitesCfg sites.Config) (*report.Result, error) {
	if err := batch.Validate(); err != nil {
		return nil, err
	}
	if len(batch.Intervals) == 0 {
		fmt.Fprintf(os.Stderr, "warning: reference %s has no fragments, reporting non-significant result\n", batch.Ref.Name)
	}

	var cov []int
	var start, end sites.TableResult
	var n int
	var g errgroup.Group
	g.Go(func() error {
		var err error
		cov, err = coverage.Profile(batch.Ref.Length, batch.Intervals)
		return err
	})
	g.Go(func() error {
		var err error
		start, end, n, err = sites.Analyze(batch.Ref.Length, batch.Intervals, sitesCfg)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	candidates, zoom, err := coverage.DropOff(cov, dropoffWindow)
	if err != nil {
		return nil, err
	}
	return report.Aggregate(batch.Ref, cov, candidates, zoom, start, end, n, sitesCfg)
}

// writeResult writes all per-reference output tables.
func writeResult(res *report.Result, coverageFormats []string, outPrefix string, appendOutput bool) error {
	prefix := outPrefix + "_" + strings.ReplaceAll(res.Ref.Name, "/", "_")
	for _, format := range coverageFormats {
		path := prefix + "_coverage." + formatExt(format)
		if err := coverage.Write(path, format, res.Ref.Name, res.Coverage, appendOutput); err != nil {
			return err
		}
	}
	if err := res.WriteSites(prefix+"_sites.csv", appendOutput); err != nil {
		return err
	}
	if err := res.WriteZoom(prefix+"_zoom.csv", appendOutput); err != nil {
		return err
	}
	if err := res.WriteCandidates(prefix+"_candidates.csv", appendOutput); err != nil {
		return err
	}
	return res.WriteSummary(prefix + "_summary.json")
}

func formatExt(format string) string {
	ext := strings.ReplaceAll(format, "+", ".")
	return strings.Replace(ext, "binary", "bin", 1)
}
