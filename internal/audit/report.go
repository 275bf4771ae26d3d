package audit

import (
	"fmt"
	"io"
	"time"
)

// EntityReport is one entity's line in the operator-facing report.
type EntityReport struct {
	Entity  string
	Table   string
	Status  string // ok | mismatch | fixed | partial | error
	Audit   *AuditResult
	Outcome *ReconciliationOutcome
	Err     string
	Elapsed time.Duration
}

// WriteReport renders the textual summary file for one run.
func WriteReport(w io.Writer, generatedAt time.Time, reports []EntityReport) error {
	fmt.Fprintf(w, "# Mirror sync report\n")
	fmt.Fprintf(w, "Generated: %s\n\n", generatedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(w, "## Entities\n")
	for _, r := range reports {
		fmt.Fprintf(w, "- %s -> %s\n", r.Entity, r.Table)
	}

	fmt.Fprintf(w, "\n## Results\n")
	for _, r := range reports {
		fmt.Fprintf(w, "### %s\n", r.Entity)
		fmt.Fprintf(w, "Status: %s\n", r.Status)
		if r.Audit != nil {
			fmt.Fprintf(w, "Matched rows: %d\n", r.Audit.Matched)
			fmt.Fprintf(w, "Mismatched rows: %d\n", r.Audit.Mismatched)
			if len(r.Audit.StaleIDs) > 0 {
				fmt.Fprintf(w, "Stale rows: %d\n", len(r.Audit.StaleIDs))
			}
		}
		if r.Outcome != nil {
			fmt.Fprintf(w, "Repaired rows: %d\n", r.Outcome.Repaired)
			fmt.Fprintf(w, "Failed rows: %d\n", r.Outcome.Failed)
			for _, f := range r.Outcome.Failures {
				fmt.Fprintf(w, "  - id %d: %s\n", f.ID, f.Reason)
			}
		}
		if r.Err != "" {
			fmt.Fprintf(w, "Error: %s\n", r.Err)
		}
		if r.Elapsed > 0 {
			fmt.Fprintf(w, "Elapsed: %.2fs\n", r.Elapsed.Seconds())
		}
		fmt.Fprintln(w)
	}

	ok, fixed, mismatch, partial, failed := 0, 0, 0, 0, 0
	for _, r := range reports {
		switch r.Status {
		case "ok":
			ok++
		case "fixed":
			fixed++
		case "mismatch":
			mismatch++
		case "partial":
			partial++
		default:
			failed++
		}
	}
	fmt.Fprintf(w, "## Summary\n")
	fmt.Fprintf(w, "- consistent: %d\n", ok)
	fmt.Fprintf(w, "- repaired: %d\n", fixed)
	fmt.Fprintf(w, "- unrepaired mismatches: %d\n", mismatch)
	fmt.Fprintf(w, "- partially repaired: %d\n", partial)
	fmt.Fprintf(w, "- errors: %d\n", failed)
	return nil
}
