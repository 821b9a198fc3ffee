package poreblazer

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// XYZRow is one point of an xyz point cloud: a particle label and its
// cartesian coordinates.
type XYZRow struct {
	Particle string  `json:"particle"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
}

// ParseXYZFile reads an xyz point-cloud file such as
// probe_occupiable_volume.xyz.
func ParseXYZFile(path string) ([]XYZRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("xyz file: %w", err)
	}
	return ParseXYZ(string(data))
}

// ParseXYZ parses xyz point-cloud text: a point count, a comment line, then
// one "particle x y z" row per point. The declared count must match the
// number of rows; a mismatch means the file is truncated or padded.
func ParseXYZ(text string) ([]XYZRow, error) {
	lines := splitLines(text)
	if len(lines) < 2 {
		return nil, formatErrf("xyz", 0, "expected count and comment lines, got %d lines", len(lines))
	}

	count, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil || count < 0 {
		return nil, formatErrf("xyz", 1, "invalid point count %q", strings.TrimSpace(lines[0]))
	}

	rows := make([]XYZRow, 0, len(lines)-2)
	for i, line := range lines[2:] {
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, formatErrf("xyz", i+3, "expected 4 columns, got %d: %q", len(fields), line)
		}
		var row XYZRow
		row.Particle = fields[0]
		if row.X, err = strconv.ParseFloat(fields[1], 64); err != nil {
			return nil, formatErrf("xyz", i+3, "invalid x %q", fields[1])
		}
		if row.Y, err = strconv.ParseFloat(fields[2], 64); err != nil {
			return nil, formatErrf("xyz", i+3, "invalid y %q", fields[2])
		}
		if row.Z, err = strconv.ParseFloat(fields[3], 64); err != nil {
			return nil, formatErrf("xyz", i+3, "invalid z %q", fields[3])
		}
		rows = append(rows, row)
	}

	if len(rows) != count {
		return nil, formatErrf("xyz", 0, "declared %d points, found %d rows", count, len(rows))
	}
	return rows, nil
}
