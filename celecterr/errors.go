// Package celecterr defines celect's structured error type, generalizing
// the teacher's scattered fmt.Errorf("...: %s", err.Error()) string
// wrapping (manager/query.go) into one %w-wrapping type so callers can
// errors.As against it and branch on Kind.
package celecterr

import "fmt"

// Kind classifies why a query aborted.
type Kind string

const (
	KindParse     Kind = "parse"
	KindPlan      Kind = "plan"
	KindIO        Kind = "io"
	KindSchema    Kind = "schema"
	KindCancelled Kind = "cancelled"
)

// Error is the single structured error type celect returns from any
// stage of the pipeline. Exactly one Error aborts a query; no partial
// results are surfaced alongside it.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func new_(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// Parse reports a malformed query; surfaced before planning begins.
func Parse(format string, args ...any) *Error {
	return new_(KindParse, fmt.Sprintf(format, args...), nil)
}

// Plan reports an unknown column, duplicate name, or unsupported
// construct discovered while building or optimizing the logical plan.
func Plan(format string, args ...any) *Error {
	return new_(KindPlan, fmt.Sprintf(format, args...), nil)
}

// IO wraps a file-missing/unreadable error from the CSV scanner.
func IO(cause error, format string, args ...any) *Error {
	return new_(KindIO, fmt.Sprintf(format, args...), cause)
}

// Schema reports a header/row shape mismatch.
func Schema(format string, args ...any) *Error {
	return new_(KindSchema, fmt.Sprintf(format, args...), nil)
}

// Cancelled reports that the shared stop flag was observed mid-scan.
func Cancelled() *Error {
	return new_(KindCancelled, "query cancelled", nil)
}
