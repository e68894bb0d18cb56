package converter

import (
	"errors"

	"github.com/franklee83/ppt2pdf-plus/internal/types"
)

// Status is the outcome of a conversion.
type Status int

const (
	// StatusSucceeded means the PDF was produced.
	StatusSucceeded Status = iota
	// StatusTimedOut means the converter was stopped at the deadline.
	StatusTimedOut
	// StatusFailed covers every other failure.
	StatusFailed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusTimedOut:
		return "timed out"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result describes one conversion.
type Result struct {
	Status     Status
	Engine     Engine
	PDFPath    string // set when Status is StatusSucceeded
	Diagnostic string // converter output or a failure description
	Cause      error
}

// Succeeded reports whether the PDF was produced.
func (r Result) Succeeded() bool {
	return r.Status == StatusSucceeded
}

// Err converts a failed result into a CONVERSION_TIMEOUT or CONVERSION_ERROR
// AppError. A successful result yields nil.
func (r Result) Err() error {
	switch r.Status {
	case StatusSucceeded:
		return nil
	case StatusTimedOut:
		return types.NewAppError(types.ErrConversionTimeout, r.Diagnostic, r.Cause)
	default:
		var appErr *types.AppError
		if errors.As(r.Cause, &appErr) {
			return appErr
		}
		return types.NewAppError(types.ErrConversion, r.Diagnostic, r.Cause)
	}
}

func failed(engine Engine, cause error, diagnostic string) Result {
	return Result{Status: StatusFailed, Engine: engine, Diagnostic: diagnostic, Cause: cause}
}
