package loader

import (
	"fmt"
	"strings"
)

// SchemaError reports required fields absent from the input. A dataset
// that fails schema validation must not be derived.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Issue describes one problem with one input row. Row is 1-based and
// counts data rows only, not the CSV header.
type Issue struct {
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

func (i Issue) String() string {
	if i.Value != "" {
		return fmt.Sprintf("row %d: %s %q: %s", i.Row, i.Field, i.Value, i.Reason)
	}
	return fmt.Sprintf("row %d: %s: %s", i.Row, i.Field, i.Reason)
}

// ValidationError is returned by strict loads when any row is rejected.
type ValidationError struct {
	Issues []Issue
}

// maxListedIssues bounds how many issues Error spells out.
const maxListedIssues = 10

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d invalid value(s)", len(e.Issues))
	for i, issue := range e.Issues {
		if i == maxListedIssues {
			fmt.Fprintf(&b, "; and %d more", len(e.Issues)-maxListedIssues)
			break
		}
		b.WriteString("; ")
		b.WriteString(issue.String())
	}
	return b.String()
}
