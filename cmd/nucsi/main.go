//
// Copyright (C) 2024 Matthew Penner
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/Matt115A/NuCSI/lib/align"
	"github.com/Matt115A/NuCSI/lib/sites"
)

var version = "DEV"

func main() {
	// Arguments: General
	var pathReport, outPrefix string
	var nWorker, verboseLevel int
	var appendOutput, verbose, printVersion bool
	flag.StringVar(&pathReport, "path_report", "", "Write run report to path (stdout with -)")
	flag.StringVar(&outPrefix, "out_prefix", "nucsi", "Prefix for per-reference output tables")
	flag.IntVar(&nWorker, "num_worker", 1, "Number of worker(s)")
	flag.IntVar(&verboseLevel, "verbose_level", 0, "Verbose level")
	flag.BoolVar(&appendOutput, "append", false, "Append to output tables (default create)")
	flag.BoolVar(&verbose, "verbose", false, "Verbose")
	flag.BoolVar(&printVersion, "version", false, "Print version and quit")
	// Arguments: Input
	var pathSAMsRaw, pathBAMsRaw, rawSAMCmdIn, pathIntervalsRaw, pathLengths, pathExclude string
	var paired, circularPairs bool
	flag.StringVar(&pathSAMsRaw, "path_sam", "", "Path to SAM file(s) (comma separated)")
	flag.StringVar(&pathBAMsRaw, "path_bam", "", "Path to BAM file(s) (comma separated)")
	flag.StringVar(&rawSAMCmdIn, "sam_command_in", "", "Command line to execute for opening each of the SAM file (comma separated)")
	flag.StringVar(&pathIntervalsRaw, "path_intervals", "", "Path to tabulated fragment file(s), .gz supported (comma separated)")
	flag.StringVar(&pathLengths, "path_lengths", "", "Path to tabulated reference length file (name, length)")
	flag.StringVar(&pathExclude, "path_exclude", "", "Path to tabulated regions to exclude (name, start, end)")
	flag.BoolVar(&paired, "paired", false, "Pair-end sequencing")
	flag.BoolVar(&circularPairs, "circular_fragments", true, "Read pairs spanning more than half the reference as wrapping the origin")
	// Arguments: Read selection
	var minMappingQualityRaw, fragmentMinLength, fragmentMaxLength int
	var randProportionRaw float64
	var inProperPair bool
	flag.IntVar(&minMappingQualityRaw, "read_min_mapping_quality", 0, "Minimum read mapping quality")
	flag.IntVar(&fragmentMinLength, "fragment_min_length", 0, "Minimum fragment length")
	flag.IntVar(&fragmentMaxLength, "fragment_max_length", 0, "Maximum fragment length")
	flag.Float64Var(&randProportionRaw, "rand_proportion", -1., "Randomly select a proportion of all fragments (from 0. to 1.)")
	flag.BoolVar(&inProperPair, "read_in_proper_pair", false, "Only read in proper pair (default: all pairs)")
	// Arguments: Analysis
	var dropoffWindow int
	var alpha float64
	var correctionRaw, coverageFormatsRaw string
	flag.IntVar(&dropoffWindow, "dropoff_window", 20, "Half-width of the zoom window around the top drop-off candidate")
	flag.Float64Var(&alpha, "alpha", 0.05, "Significance threshold for adjusted p-values")
	flag.StringVar(&correctionRaw, "correction", "bonferroni,bh", "Multiple-testing correction(s): 'bonferroni', 'bh' or both (comma separated)")
	flag.StringVar(&coverageFormatsRaw, "coverage_formats", "csv", "Coverage output format(s): 'csv', 'bedgraph' or 'binary' with optional '+lz4' or '+lz4hc' (comma separated)")
	// Arguments: Parse
	flag.Parse()

	// Version
	if printVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Verbose
	if verbose && verboseLevel == 0 {
		verboseLevel = 1
	}

	// Max CPU
	runtime.GOMAXPROCS(nWorker * 2)

	// Time start
	var timeStart time.Time
	if verboseLevel > 0 {
		timeStart = time.Now()
	}

	// Parse raw arguments
	// pathAlns
	var pathAlns []PathAln
	var samCmdIn []string
	if len(pathSAMsRaw) > 0 {
		for _, p := range strings.Split(pathSAMsRaw, ",") {
			if _, err := os.Stat(p); os.IsNotExist(err) {
				log.Fatalln(p, "not found")
			}
			pathAlns = append(pathAlns, PathAln{Path: p, Binary: false})
		}
		if len(rawSAMCmdIn) > 0 {
			samCmdIn = strings.Split(rawSAMCmdIn, ",")
		}
	}
	if len(pathBAMsRaw) > 0 {
		for _, p := range strings.Split(pathBAMsRaw, ",") {
			if _, err := os.Stat(p); os.IsNotExist(err) {
				log.Fatalln(p, "not found")
			}
			pathAlns = append(pathAlns, PathAln{Path: p, Binary: true})
		}
	}
	// pathIntervals
	var pathIntervals []string
	if len(pathIntervalsRaw) > 0 {
		for _, p := range strings.Split(pathIntervalsRaw, ",") {
			if _, err := os.Stat(p); os.IsNotExist(err) {
				log.Fatalln(p, "not found")
			}
			pathIntervals = append(pathIntervals, p)
		}
	}
	if len(pathAlns) == 0 && len(pathIntervals) == 0 {
		log.Fatal("No SAM/BAM or fragment input")
	}
	// references
	var refs []align.Reference
	if len(pathLengths) > 0 {
		var err error
		refs, err = align.OpenLengths(pathLengths)
		if err != nil {
			log.Fatal(err)
		}
	}
	// exclude filter
	var exclude *align.ExcludeFilter
	if len(pathExclude) > 0 {
		var err error
		exclude, err = align.OpenExclude(pathExclude)
		if err != nil {
			log.Fatal(err)
		}
	}
	// correction methods
	sitesCfg := sites.Config{Alpha: alpha}
	for _, m := range strings.Split(correctionRaw, ",") {
		switch strings.ToLower(strings.TrimSpace(m)) {
		case "bonferroni":
			sitesCfg.Bonferroni = true
		case "bh", "benjamini_hochberg", "benjamini-hochberg":
			sitesCfg.BH = true
		case "":
		default:
			log.Fatalln("Unknown correction method", m)
		}
	}
	if !sitesCfg.Bonferroni && !sitesCfg.BH {
		sitesCfg = sites.DefaultConfig()
		sitesCfg.Alpha = alpha
	}
	// coverageFormats
	coverageFormats := strings.Split(coverageFormatsRaw, ",")
	// minMappingQuality
	minMappingQuality := byte(minMappingQualityRaw)
	// randProportion
	randProportion := float32(randProportionRaw)

	// Scan alignments and analyze references
	nAlign, err := Scan(pathAlns, samCmdIn, pathIntervals, refs, exclude, paired, circularPairs, minMappingQuality, inProperPair, fragmentMinLength, fragmentMaxLength, randProportion, dropoffWindow, sitesCfg, coverageFormats, outPrefix, appendOutput, pathReport, nWorker, timeStart, verboseLevel)
	if err != nil {
		log.Fatal(err)
	}

	// Verbose
	if verboseLevel > 0 {
		timeEnd := time.Now()
		fmt.Printf("%.1fmin - Done %d align.\n", timeEnd.Sub(timeStart).Minutes(), nAlign)
	}
}
