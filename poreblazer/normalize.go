package poreblazer

import "strings"

// PoreBlazer pads its columns with runs of spaces and writes summary keys in
// several shapes ("Surface area:", "System_density:"). The normalizers below
// reduce that to single-space-delimited "key value" lines. Parsing works on
// the normalized form in memory; CleanDir rewrites files with it on request.

// NormalizeTable rewrites a whitespace-padded table (PSD or xyz file) with
// runs of spaces collapsed and lines trimmed. Idempotent.
func NormalizeTable(text string) string {
	lines := splitLines(text)
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.Join(lines, "\n") + "\n"
}

// NormalizeSummary rewrites a summary file into "key value" lines: colons
// removed, spaces collapsed, and three-token lines rejoined so that the key
// is a single underscore-separated token ("Surface area 120.5" becomes
// "Surface_area 120.5"). Lines with more than three tokens are malformed.
func NormalizeSummary(text string) (string, error) {
	text = strings.ReplaceAll(text, " _", "_")
	text = strings.ReplaceAll(text, ":", "")

	lines := splitLines(text)
	for i, line := range lines {
		fields := strings.Fields(line)
		switch len(fields) {
		case 0, 1, 2:
			lines[i] = strings.Join(fields, " ")
		case 3:
			lines[i] = fields[0] + "_" + fields[1] + " " + fields[2]
		default:
			return "", formatErrf("summary", i+1, "expected at most 3 fields, got %d: %q", len(fields), line)
		}
	}
	return strings.Join(lines, "\n") + "\n", nil
}

// splitLines splits text into lines, dropping trailing blank lines but
// keeping interior ones.
func splitLines(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
