package circuit

import (
	"bufio"
	"fmt"
	"io"
)

// WriteReport prints a human readable summary of issues: a count line, then
// errors, then warnings.
func WriteReport(w io.Writer, issues Issues) error {
	bw := bufio.NewWriter(w)

	if len(issues) == 0 {
		fmt.Fprintln(bw, "Circuit validation passed - no issues found")
		return bw.Flush()
	}

	fmt.Fprintf(bw, "Circuit validation: %d error(s), %d warning(s)\n\n",
		issues.Count(SeverityError), issues.Count(SeverityWarning))
	for _, sev := range []Severity{SeverityError, SeverityWarning} {
		for _, issue := range issues {
			if issue.Severity == sev {
				fmt.Fprintf(bw, "  %s\n", issue)
			}
		}
	}
	return bw.Flush()
}
