package app

import (
	"fmt"
	"io"
	"sort"
)

// PrintSummary writes the run statistics. The first two lines are stable and
// meant for scripting; the breakdown follows only when units were dropped.
func PrintSummary(w io.Writer, r Report) {
	fmt.Fprintf(w, "Processed classes: %d / %d\n", r.Processed(), r.Discovered)
	fmt.Fprintf(w, "Duration: %.2f s\n", r.Duration.Seconds())

	if len(r.Skipped) > 0 {
		counts := make(map[string]int)
		for _, s := range r.Skipped {
			counts[s.Reason]++
		}
		reasons := make([]string, 0, len(counts))
		for reason := range counts {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		fmt.Fprintf(w, "Skipped: %d", len(r.Skipped))
		for i, reason := range reasons {
			sep := ", "
			if i == 0 {
				sep = " ("
			}
			fmt.Fprintf(w, "%s%s=%d", sep, reason, counts[reason])
		}
		fmt.Fprintln(w, ")")
	}

	for _, f := range r.Failed {
		fmt.Fprintf(w, "Failed: %s: %v\n", f.Path, f.Err)
	}

	if n := r.InvalidCount(); n > 0 {
		fmt.Fprintf(w, "Scripts with syntax issues: %d\n", n)
		for _, s := range r.Scripts {
			if len(s.Issues) > 0 {
				fmt.Fprintf(w, "  %s: %s\n", s.ClassName, s.Issues[0].String())
			}
		}
	}
}
