package backup

import (
	"fmt"
	"strings"
)

// Status is the outcome of one database within a run.
type Status string

const (
	StatusSuccess Status = "Success"
	StatusError   Status = "Error"
	StatusSkipped Status = "Skipped"
)

// Result records the outcome for a single database. Sizes are meaningful
// only on success: an Error carries zero for both, a Skipped database was
// never attempted and renders them as not applicable.
type Result struct {
	Database    string
	Status      Status
	Elapsed     float64 // wall-clock seconds
	DumpSize    int64
	ArchiveSize int64
}

// ElapsedString renders the wall-clock time to one decimal place, or "-"
// for a database that was never attempted.
func (r Result) ElapsedString() string {
	if r.Status == StatusSkipped {
		return "-"
	}
	return fmt.Sprintf("%.1f", r.Elapsed)
}

// Report aggregates a whole run: one Result per enumerated database, in
// enumeration order, plus the names of the databases that failed.
type Report struct {
	Results []Result
	Errors  []string
}

func (rep *Report) add(res Result) {
	rep.Results = append(rep.Results, res)
	if res.Status == StatusError {
		rep.Errors = append(rep.Errors, res.Database)
	}
}

// Summary renders the plain-text run summary handed to the notification
// channels, one line per attempted database.
func (rep *Report) Summary() string {
	var lines []string
	for _, res := range rep.Results {
		if res.Status == StatusSkipped {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s in %ss", res.Database, res.Status, res.ElapsedString()))
	}
	return strings.Join(lines, "\n")
}
