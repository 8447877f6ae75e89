// Package ingest defines the shared result of feedback ingestion. Format
// specific parsers live in subpackages.
package ingest

// Result holds the outcome of an ingest operation.
type Result struct {
	Received int      `json:"received"`
	Inserted int64    `json:"inserted"`
	Skipped  int64    `json:"skipped"`
	Rejected int      `json:"rejected"`
	Errors   []string `json:"errors,omitempty"`

	Message string `json:"message,omitempty"`
}

// maxErrors bounds the rejection reasons echoed back to the caller.
const maxErrors = 20

// Reject counts a rejected entry and keeps its reason while there is room.
func (r *Result) Reject(reason string) {
	r.Rejected++
	if len(r.Errors) < maxErrors {
		r.Errors = append(r.Errors, reason)
	}
}
