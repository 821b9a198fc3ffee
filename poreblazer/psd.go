package poreblazer

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Header sizes of the two PSD file shapes. The cumulative file carries a
// three-line preamble, the derivative file a single column-header line.
const (
	psdCumulativeHeaderLines = 3
	psdDerivativeHeaderLines = 1
)

// PSDRow is one row of the joined pore-size distribution: pore diameter in
// angstrom, cumulative volume fraction, and the distribution derivative.
// Cumulative or Derivative is nil when the corresponding source file had no
// row for this diameter (or was absent).
type PSDRow struct {
	Diameter   float64  `json:"d"`
	Cumulative *float64 `json:"volume_fraction,omitempty"`
	Derivative *float64 `json:"derivative_dist,omitempty"`
}

// psdPoint is one (diameter, value) pair from a single PSD file.
type psdPoint struct {
	d, v float64
}

// ParsePSDFile reads one PSD table file. cumulative selects the file shape:
// the cumulative table skips a three-line preamble, the derivative table a
// single header line.
func ParsePSDFile(path string, cumulative bool) ([]PSDRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("psd file: %w", err)
	}
	points, err := parsePSDTable(string(data), headerLines(cumulative))
	if err != nil {
		return nil, err
	}
	if cumulative {
		return joinPSD(points, nil), nil
	}
	return joinPSD(nil, points), nil
}

func headerLines(cumulative bool) int {
	if cumulative {
		return psdCumulativeHeaderLines
	}
	return psdDerivativeHeaderLines
}

// parsePSDTable parses the data rows of a PSD file after skipping the given
// number of header lines. Each data row must hold exactly two floats.
func parsePSDTable(text string, skip int) ([]psdPoint, error) {
	lines := splitLines(text)
	if len(lines) < skip {
		return nil, formatErrf("psd", 0, "expected at least %d header lines, got %d lines", skip, len(lines))
	}

	points := make([]psdPoint, 0, len(lines)-skip)
	for i, line := range lines[skip:] {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, formatErrf("psd", skip+i+1, "expected 2 columns, got %d: %q", len(fields), line)
		}
		d, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, formatErrf("psd", skip+i+1, "invalid diameter %q", fields[0])
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, formatErrf("psd", skip+i+1, "invalid value %q", fields[1])
		}
		points = append(points, psdPoint{d: d, v: v})
	}
	return points, nil
}

// joinPSD full-outer-joins the cumulative and derivative tables on diameter.
// Rows are sorted ascending by diameter so the result is deterministic.
// Either input may be nil.
func joinPSD(cumulative, derivative []psdPoint) []PSDRow {
	byDiameter := make(map[float64]*PSDRow, len(cumulative)+len(derivative))
	for _, p := range cumulative {
		v := p.v
		byDiameter[p.d] = &PSDRow{Diameter: p.d, Cumulative: &v}
	}
	for _, p := range derivative {
		v := p.v
		if row, ok := byDiameter[p.d]; ok {
			row.Derivative = &v
			continue
		}
		byDiameter[p.d] = &PSDRow{Diameter: p.d, Derivative: &v}
	}

	rows := make([]PSDRow, 0, len(byDiameter))
	for _, row := range byDiameter {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Diameter < rows[j].Diameter })
	return rows
}
