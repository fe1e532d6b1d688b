// Copyright 2026 The Quern Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package table renders small aligned text tables. The CLI uses it for the
// per-file merge report and the per-stage inference counts.
package table

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Options controls the dividers PrettyPrint draws.
type Options int

const (
	// HeaderRow draws a divider under the first row.
	HeaderRow Options = 1 << iota
	// FooterRow draws a divider above the last row.
	FooterRow
)

// PrettyPrint writes rows as an aligned table, two spaces between columns.
// Cells are single-line strings; rows may have differing lengths and short
// rows are left ragged.
func PrettyPrint(w io.Writer, rows [][]string, opts Options) {
	if len(rows) == 0 {
		return
	}
	widths := columnWidths(rows)
	for i, row := range rows {
		if i > 0 && i == len(rows)-1 && opts&FooterRow != 0 {
			writeDivider(w, widths)
		}
		writeRow(w, row, widths)
		if i == 0 && len(rows) > 1 && opts&HeaderRow != 0 {
			writeDivider(w, widths)
		}
	}
}

func columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for i, c := range row {
			if i == len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], displayWidth(c))
		}
	}
	return widths
}

func writeRow(w io.Writer, row []string, widths []int) {
	var b strings.Builder
	for i, c := range row {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(c)
		// the last cell of a row is never padded
		if i < len(row)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-displayWidth(c)))
		}
	}
	fmt.Fprintln(w, b.String())
}

func writeDivider(w io.Writer, widths []int) {
	total := 2 * (len(widths) - 1)
	for _, wd := range widths {
		total += wd
	}
	fmt.Fprintln(w, strings.Repeat("-", total))
}

// displayWidth counts terminal columns. Combining sequences are composed
// first so a decomposed "é" measures as one column, not two runes.
func displayWidth(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(s))
}
