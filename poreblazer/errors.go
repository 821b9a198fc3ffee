package poreblazer

import "fmt"

// FormatError reports malformed content in one of the output files.
// Line is 1-based and refers to the raw file; it is 0 when the error
// concerns the file as a whole (wrong line count, missing section).
type FormatError struct {
	File   string
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Reason)
}

func formatErrf(file string, line int, format string, args ...any) *FormatError {
	return &FormatError{File: file, Line: line, Reason: fmt.Sprintf(format, args...)}
}
