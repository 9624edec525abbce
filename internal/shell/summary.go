package shell

import (
	"fmt"
	"io"

	"ytd/internal/model"
	"ytd/internal/util/format"
)

// WriteSummary prints the outcome of a run: counts, failures and the
// elapsed time as minutes:seconds.
func WriteSummary(w io.Writer, r model.Report) {
	if r.Planned > 1 || len(r.Skipped) > 0 || len(r.Failed) > 0 {
		fmt.Fprintf(w, "Downloaded %d of %d, skipped %d, failed %d", r.Completed, r.Planned, len(r.Skipped), len(r.Failed))
		if r.Cancelled > 0 {
			fmt.Fprintf(w, ", cancelled %d", r.Cancelled)
		}
		fmt.Fprintln(w)
	}
	for _, f := range r.Failed {
		fmt.Fprintf(w, "  %s: %v\n", f.Unit.Name(), f.Err)
	}
	for _, sk := range r.Skipped {
		if sk.Err != nil {
			fmt.Fprintf(w, "  skipped %d. %s: %s\n", sk.Index, sk.Title, sk.Reason)
		}
	}
	fmt.Fprintf(w, "Finished in %s\n", format.MinutesSeconds(r.Elapsed))
}
