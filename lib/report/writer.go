//
// Copyright (C) 2024 Matthew Penner
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

func openOutput(path string, appendOutput bool) (*os.File, error) {
	var fg int
	if appendOutput {
		fg = os.O_APPEND | os.O_CREATE | os.O_WRONLY
	} else {
		fg = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	}
	return os.OpenFile(path, fg, 0666)
}

func formatP(p float64) string {
	return strconv.FormatFloat(p, 'g', -1, 64)
}

// WriteSites writes the per-position frequency table with raw and adjusted
// p-values for both start and end tables, one row per reference position.
func (r *Result) WriteSites(path string, appendOutput bool) error {
	f, err := openOutput(path, appendOutput)
	if err != nil {
		return err
	}
	if !appendOutput {
		f.WriteString("\"name\",\"position\",\"start_count\",\"end_count\"," +
			"\"raw_p_start\",\"adj_p_start_bonferroni\",\"adj_p_start_bh\"," +
			"\"raw_p_end\",\"adj_p_end_bonferroni\",\"adj_p_end_bh\"," +
			"\"significant_start\",\"significant_end\"\n")
	}
	for i := 0; i < r.Ref.Length; i++ {
		rs, re := r.Start.Records[i], r.End.Records[i]
		fmt.Fprintf(f, "\"%s\",%d,%d,%d,%s,%s,%s,%s,%s,%s,%t,%t\n",
			r.Ref.Name, i, rs.Observed, re.Observed,
			formatP(rs.RawP), formatP(rs.BonferroniP), formatP(rs.BHQ),
			formatP(re.RawP), formatP(re.BonferroniP), formatP(re.BHQ),
			rs.Significant, re.Significant)
	}
	return f.Close()
}

// WriteZoom writes the coverage sub-table restricted to the drop-off window,
// in circular order from window start to window end.
func (r *Result) WriteZoom(path string, appendOutput bool) error {
	f, err := openOutput(path, appendOutput)
	if err != nil {
		return err
	}
	if !appendOutput {
		f.WriteString("\"name\",\"position\",\"coverage\"\n")
	}
	for _, p := range r.Zoom.Positions() {
		fmt.Fprintf(f, "\"%s\",%d,%d\n", r.Ref.Name, p, r.Coverage[p])
	}
	return f.Close()
}

// WriteSummary writes the scalar summary as JSON (stdout with -).
func (r *Result) WriteSummary(path string) error {
	summary, err := json.MarshalIndent(r.Summary, "", "  ")
	if err != nil {
		return err
	}
	if path == "-" {
		fmt.Println(string(summary))
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	f.Write(summary)
	f.WriteString("\n")
	return f.Close()
}

// WriteCandidates writes the ranked drop-off candidates.
func (r *Result) WriteCandidates(path string, appendOutput bool) error {
	f, err := openOutput(path, appendOutput)
	if err != nil {
		return err
	}
	if !appendOutput {
		f.WriteString("\"name\",\"rank\",\"position\",\"coverage\",\"delta\"\n")
	}
	for _, c := range r.Candidates {
		fmt.Fprintf(f, "\"%s\",%d,%d,%d,%d\n", r.Ref.Name, c.Rank, c.Position, c.Coverage, c.Delta)
	}
	return f.Close()
}
