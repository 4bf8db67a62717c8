//
// Copyright (C) 2024 Matthew Penner
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/fatih/set.v0"

	"github.com/Matt115A/NuCSI/lib/align"
)

// RunReport summarizes one invocation across all references.
type RunReport struct {
	Alignments      uint64            `json:"alignments"`
	UniqueReads     int               `json:"unique_reads"`
	References      int               `json:"references"`
	FragmentsPerRef map[string]int    `json:"fragments_per_reference"`
	Failed          map[string]string `json:"failed_references,omitempty"`
}

func WriteReport(pathReport string, nAlign uint64, readSet set.Interface, batches map[string]*align.Batch, failed map[string]string) error {
	runReport := RunReport{
		Alignments:      nAlign,
		UniqueReads:     readSet.Size(),
		References:      len(batches),
		FragmentsPerRef: make(map[string]int),
	}
	for name, batch := range batches {
		runReport.FragmentsPerRef[name] = len(batch.Intervals)
	}
	if len(failed) > 0 {
		runReport.Failed = failed
	}
	runReportJSON, err := json.MarshalIndent(runReport, "", "  ")
	if err != nil {
		return err
	}
	if pathReport != "-" {
		f, err := os.Create(pathReport)
		if err != nil {
			return err
		}
		f.Write(runReportJSON)
		f.WriteString("\n")
		return f.Close()
	}
	fmt.Println(string(runReportJSON))
	return nil
}
