package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Header labels appended by AddCumulativeColumns, in column order.
var cumulativeLabels = []string{
	"total instructions",
	"total accessed host pages",
	"total dirtied host pages",
}

// AddCumulativeColumns reads a drun perf CSV and writes a transformed copy
// with three extra columns holding running totals of instructions, accessed
// host pages and dirtied host pages. It returns the path of the transformed
// file, a temp file owned by the caller. The source file is never modified.
//
// Any structural or parse problem aborts the transform with an error and no
// artifact is created: a malformed trace indicates an upstream producer
// failure and must not turn into a misleading plot.
func AddCumulativeColumns(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open trace CSV: %w", err)
	}
	defer func() { _ = src.Close() }()

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read trace CSV %s: %w", path, err)
	}
	if len(records) < 2 {
		return "", fmt.Errorf("trace CSV %s has no data rows", path)
	}

	header := append(records[0], cumulativeLabels...)
	rows := records[1:]

	var totalInstructions uint64
	var totalAccessedHostPages uint64
	var totalDirtiedHostPages uint64

	for i, row := range rows {
		if len(row) < InstructionsCol {
			return "", fmt.Errorf("row %d of %s has too few columns", i+1, path)
		}

		instructions, err := parseCounter(row, InstructionsCol, "instructions")
		if err != nil {
			return "", fmt.Errorf("row %d of %s: %w", i+1, path, err)
		}
		totalInstructions += instructions
		row = append(row, strconv.FormatUint(totalInstructions, 10))

		accessed, err := parseCounter(row, AccessedHostPagesCol, "accessed host pages")
		if err != nil {
			return "", fmt.Errorf("row %d of %s: %w", i+1, path, err)
		}
		totalAccessedHostPages += accessed
		row = append(row, strconv.FormatUint(totalAccessedHostPages, 10))

		dirtied, err := parseCounter(row, DirtiedHostPagesCol, "dirtied host pages")
		if err != nil {
			return "", fmt.Errorf("row %d of %s: %w", i+1, path, err)
		}
		totalDirtiedHostPages += dirtied
		row = append(row, strconv.FormatUint(totalDirtiedHostPages, 10))

		rows[i] = row
	}

	tmp, err := os.CreateTemp("", "drunplot-*.csv")
	if err != nil {
		return "", fmt.Errorf("create transformed CSV: %w", err)
	}
	if err := writeTransformed(tmp, header, rows); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("close transformed CSV: %w", err)
	}

	logrus.Debugf("transformed %s (%d rows) -> %s", path, len(rows), tmp.Name())
	return tmp.Name(), nil
}

// writeTransformed serializes the augmented header and rows as CSV.
func writeTransformed(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write transformed header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write transformed row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush transformed CSV: %w", err)
	}
	return nil
}

// parseCounter extracts the 1-based column col from row as an unsigned
// decimal counter value.
func parseCounter(row []string, col int, name string) (uint64, error) {
	if col > len(row) {
		return 0, fmt.Errorf("%s column %d missing", name, col)
	}
	v, err := strconv.ParseUint(row[col-1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return v, nil
}

// ReadColumn extracts the 1-based column col from every data row of a
// transformed trace CSV as float64 values, in row order.
func ReadColumn(path string, col int) ([]float64, error) {
	src, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transformed CSV: %w", err)
	}
	defer func() { _ = src.Close() }()

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read transformed CSV %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("transformed CSV %s has no data rows", path)
	}

	values := make([]float64, 0, len(records)-1)
	for i, row := range records[1:] {
		if col > len(row) {
			return nil, fmt.Errorf("row %d of %s: column %d missing", i+1, path, col)
		}
		v, err := strconv.ParseFloat(row[col-1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d of %s: parse column %d: %w", i+1, path, col, err)
		}
		values = append(values, v)
	}
	return values, nil
}
