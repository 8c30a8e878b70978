package exceptions

import (
	"errors"
	"fmt"
	"medrecords-service/internal/pkg/constvars"
	"runtime"
)

// Error kinds. Every CustomError carries exactly one of them so callers can
// branch with errors.Is without parsing messages.
var (
	ErrKindNotFound            = errors.New("not found")
	ErrKindAccessDenied        = errors.New("access denied")
	ErrKindConflict            = errors.New("conflict")
	ErrKindUpstreamUnavailable = errors.New("upstream unavailable")
	ErrKindInvalidInput        = errors.New("invalid input")
	ErrKindUnauthorized        = errors.New("unauthorized")
)

type CustomError struct {
	StatusCode    int        `json:"status_code"`
	Success       bool       `json:"success"`
	ClientMessage string     `json:"message"`
	DevMessage    string     `json:"dev_message,omitempty"`
	Locations     []Location `json:"locations,omitempty"`
	Kind          error      `json:"-"`
	Err           error      `json:"-"`
}

type Location struct {
	File         string `json:"file"`
	Line         int    `json:"line"`
	FunctionName string `json:"function_name"`
}

func (e *CustomError) Error() string {
	if len(e.Locations) == 0 {
		return e.DevMessage
	}
	location := e.Locations[0]
	return fmt.Sprintf("%s (%s:%d %s)", e.DevMessage, location.File, location.Line, location.FunctionName)
}

func (e *CustomError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// BuildNewCustomError wraps err. When err is already a CustomError the new
// caller location is appended and the original status, messages and kind are
// kept, so the outermost layer never masks the root cause.
func BuildNewCustomError(err error, kind error, statusCode int, clientMessage, devMessage string) *CustomError {
	location := getLocation(3)

	var existing *CustomError
	if errors.As(err, &existing) {
		existing.Locations = append(existing.Locations, location)
		return existing
	}

	if err != nil {
		devMessage = fmt.Sprintf("%s: %s", devMessage, err.Error())
	}

	return &CustomError{
		StatusCode:    statusCode,
		ClientMessage: clientMessage,
		DevMessage:    devMessage,
		Locations:     []Location{location},
		Kind:          kind,
		Err:           err,
	}
}

// KindOf returns the kind sentinel of err, or nil when err is not a CustomError.
func KindOf(err error) error {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.Kind
	}
	return nil
}

func getLocation(skip int) Location {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Location{
			File:         constvars.ResponseUnknown,
			Line:         0,
			FunctionName: constvars.ResponseUnknown,
		}
	}
	function := runtime.FuncForPC(pc).Name()
	return Location{
		File:         file,
		Line:         line,
		FunctionName: function,
	}
}
