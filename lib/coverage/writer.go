//
// Copyright (C) 2024 Matthew Penner
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package coverage

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/adler32"
	"os"
	"strings"

	"github.com/pierrec/lz4"
)

const binaryVersion uint8 = 1

type GenericWriter interface {
	Write(buf []byte) (n int, err error)
	Close() error
}

// Write writes one coverage vector in the requested format: 'csv' (position,
// coverage rows), 'bedgraph' (run-length steps of equal coverage) or 'binary'
// (little-endian uint32 with adler32 checksum). A '+lz4' or '+lz4hc' suffix
// compresses the output stream.
func Write(covPath, format, name string, cov []int, appendOutput bool) error {
	var covZip string
	if strings.Contains(format, "+") {
		doubleFormat := strings.Split(format, "+")
		format, covZip = doubleFormat[0], doubleFormat[1]
	}
	// Append or Create flag
	var fg int
	if appendOutput {
		fg = os.O_APPEND | os.O_CREATE | os.O_WRONLY
	} else {
		fg = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(covPath, fg, 0666)
	if err != nil {
		return err
	}
	defer f.Close()

	var writer GenericWriter
	switch covZip {
	case "lz4":
		writer = lz4.NewWriter(f)
	case "lz4hc":
		lzWriter := lz4.NewWriter(f)
		lzWriter.Header = lz4.Header{CompressionLevel: 9}
		writer = lzWriter
	default:
		writer = f
	}

	switch format {
	case "csv":
		if !appendOutput {
			fmt.Fprintf(writer, "\"name\",\"position\",\"coverage\"\n")
		}
		for i, c := range cov {
			fmt.Fprintf(writer, "\"%s\",%d,%d\n", name, i, c)
		}
	case "bedgraph":
		var stepStart, stepValue int
		for i, c := range cov {
			if c != stepValue {
				if stepValue != 0 {
					fmt.Fprintf(writer, "%s\t%d\t%d\t%d\n", name, stepStart, i, stepValue)
				}
				stepStart = i
				stepValue = c
			}
		}
		if stepValue != 0 {
			fmt.Fprintf(writer, "%s\t%d\t%d\t%d\n", name, stepStart, len(cov), stepValue)
		}
	case "binary":
		if err := binary.Write(writer, binary.LittleEndian, binaryVersion); err != nil {
			return err
		}
		length := uint32(len(cov))
		bufChecksum := new(bytes.Buffer)
		if err := binary.Write(bufChecksum, binary.LittleEndian, length); err != nil {
			return err
		}
		if err := binary.Write(writer, binary.LittleEndian, length); err != nil {
			return err
		}
		checksum := adler32.Checksum(bufChecksum.Bytes())
		if err := binary.Write(writer, binary.LittleEndian, checksum); err != nil {
			return err
		}
		counts := make([]uint32, len(cov))
		for i, c := range cov {
			counts[i] = uint32(c)
		}
		if err := binary.Write(writer, binary.LittleEndian, counts); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown coverage format %s", format)
	}
	return writer.Close()
}
