package poreblazer

import (
	"fmt"
	"os"
	"strconv"
)

// Summary file layout (after normalization, 0-based):
//
//	line 0      input structure file name
//	lines 1-6   general section (offset 5 is an integer count)
//	line 7      separator
//	lines 8-18  total section (offset 3 is a separator)
//	line 19     separator
//	lines 20-   network-accessible section (offset 3 is a separator)

const (
	summaryGeneralStart = 1
	summaryGeneralEnd   = 7
	summaryGeneralInt   = 5
	summaryTotalStart   = 8
	summaryTotalEnd     = 19
	summaryNetworkStart = 20
	summarySectionSkip  = 3
	summaryMinLines     = 21
)

// Value is one scalar from the summary file: a float quantity or an integer
// count. It marshals to JSON as a bare number.
type Value struct {
	Float float64
	Int   int64
	IsInt bool
}

// Float64 returns the value as a float64 regardless of kind.
func (v Value) Float64() float64 {
	if v.IsInt {
		return float64(v.Int)
	}
	return v.Float
}

func (v Value) String() string {
	if v.IsInt {
		return strconv.FormatInt(v.Int, 10)
	}
	return strconv.FormatFloat(v.Float, 'g', -1, 64)
}

// MarshalJSON emits the scalar as a plain JSON number.
func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(v.String()), nil
}

// Summary holds the scalar results from summary.dat, grouped the way
// PoreBlazer groups them.
type Summary struct {
	// InputFileName is the structure file the run was performed on.
	InputFileName string `json:"input_file_name"`

	// General holds densities, unit cell volume and the atom count.
	General map[string]Value `json:"general_output"`

	// Total holds the whole-system results (surface areas, pore volumes,
	// pore diameters).
	Total map[string]float64 `json:"total_output"`

	// NetworkAccessible holds the same quantities restricted to the
	// probe-accessible pore network.
	NetworkAccessible map[string]float64 `json:"network_accessible_output"`
}

// ParseSummaryFile reads and parses a summary.dat file.
func ParseSummaryFile(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("summary file: %w", err)
	}
	return ParseSummary(string(data))
}

// ParseSummary parses the text of a summary file. The raw (unnormalized)
// tool output and the normalized form are both accepted.
func ParseSummary(text string) (*Summary, error) {
	normalized, err := NormalizeSummary(text)
	if err != nil {
		return nil, err
	}
	lines := splitLines(normalized)
	if len(lines) < summaryMinLines {
		return nil, formatErrf("summary", 0, "expected at least %d lines, got %d", summaryMinLines, len(lines))
	}

	s := &Summary{
		InputFileName:     lines[0],
		General:           make(map[string]Value),
		Total:             make(map[string]float64),
		NetworkAccessible: make(map[string]float64),
	}
	if s.InputFileName == "" {
		return nil, formatErrf("summary", 1, "missing input file name")
	}

	for i, line := range lines[summaryGeneralStart:summaryGeneralEnd] {
		key, raw, err := summaryFields(line, summaryGeneralStart+i)
		if err != nil {
			return nil, err
		}
		if i == summaryGeneralInt {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, formatErrf("summary", summaryGeneralStart+i+1, "invalid integer %q for %s", raw, key)
			}
			s.General[key] = Value{Int: n, IsInt: true}
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, formatErrf("summary", summaryGeneralStart+i+1, "invalid float %q for %s", raw, key)
		}
		s.General[key] = Value{Float: f}
	}

	if err := parseSummarySection(lines, summaryTotalStart, summaryTotalEnd, s.Total); err != nil {
		return nil, err
	}
	if err := parseSummarySection(lines, summaryNetworkStart, len(lines), s.NetworkAccessible); err != nil {
		return nil, err
	}
	return s, nil
}

// parseSummarySection fills dst with the key/value pairs of lines[start:end],
// skipping the separator at section offset summarySectionSkip.
func parseSummarySection(lines []string, start, end int, dst map[string]float64) error {
	for i, line := range lines[start:end] {
		if i == summarySectionSkip {
			continue
		}
		key, raw, err := summaryFields(line, start+i)
		if err != nil {
			return err
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return formatErrf("summary", start+i+1, "invalid float %q for %s", raw, key)
		}
		dst[key] = f
	}
	return nil
}

// summaryFields splits a normalized data line into key and raw value.
// idx is the 0-based line index, used for error reporting.
func summaryFields(line string, idx int) (key, raw string, err error) {
	// Normalized lines are single-space delimited.
	sep := -1
	for i := 0; i < len(line); i++ {
		if line[i] == ' ' {
			sep = i
			break
		}
	}
	if sep <= 0 || sep == len(line)-1 {
		return "", "", formatErrf("summary", idx+1, "expected %q, got %q", "key value", line)
	}
	return line[:sep], line[sep+1:], nil
}
