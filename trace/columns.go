// Package trace reads canister perf CSVs produced by drun and augments them
// with running cumulative totals for the instruction and host-page counters.
// It also holds the fixed catalog of metrics the plots are drawn from.
package trace

import "strings"

// 1-based index of "instructions" column in drun generated CSVs
const InstructionsCol = 3

// 1-based index of "accessed host pages" column in drun generated CSVs
const AccessedHostPagesCol = 4

// 1-based index of "dirtied host pages" column in drun generated CSVs
const DirtiedHostPagesCol = 5

// Metric is one plotted metric: a y-axis column in the transformed CSVs and
// the name the output file and axis label derive from.
type Metric struct {
	Name   string
	Column int // 1-based column index, gnuplot-style
}

// FileName returns the image file name for the metric.
func (m Metric) FileName() string {
	return m.Name + ".png"
}

// AxisLabel returns the y-axis label for the metric.
func (m Metric) AxisLabel() string {
	return strings.ReplaceAll(m.Name, "_", " ")
}

// Catalog returns the seven plotted metrics in render order. Columns 7-9 only
// exist after AddCumulativeColumns has run on the input.
func Catalog() []Metric {
	return []Metric{
		{"instructions", InstructionsCol},
		{"accessed_host_pages", AccessedHostPagesCol},
		{"dirtied_host_pages", DirtiedHostPagesCol},
		{"total_Wasm_pages_in_use", 6},
		{"total_instructions", 7},
		{"total_accessed_host_pages", 8},
		{"total_dirtied_host_pages", 9},
	}
}
