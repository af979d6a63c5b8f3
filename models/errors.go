package models

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedFilename: a raw file name does not follow
	// <participant>-<label>-<category>... and cannot be labelled.
	ErrMalformedFilename = errors.New("malformed filename")
	// ErrUnreadableFile: a raw file is missing, unparseable or has no rows.
	ErrUnreadableFile = errors.New("unreadable file")
	// ErrEmptyResampleWindow: a calendar day produced no buckets. Non-fatal.
	ErrEmptyResampleWindow = errors.New("empty resample window")
	// ErrExternalService: the secret manager or experiment tracker
	// answered with a non-success status or could not be reached.
	ErrExternalService = errors.New("external service error")
)

// PipelineError carries one of the sentinel kinds above together with the
// offending path (file or URL) and the underlying cause, if any.
type PipelineError struct {
	Kind error
	Path string
	Msg  string
	Err  error
}

func (e *PipelineError) Error() string {
	if e == nil {
		return ""
	}
	s := e.Kind.Error()
	if e.Path != "" {
		s = fmt.Sprintf("%s: %s", s, e.Path)
	}
	if e.Msg != "" {
		s = fmt.Sprintf("%s: %s", s, e.Msg)
	}
	if e.Err != nil {
		s = fmt.Sprintf("%s: %v", s, e.Err)
	}
	return s
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *PipelineError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// MalformedFilename builds an ErrMalformedFilename for path.
func MalformedFilename(path, format string, args ...any) error {
	return &PipelineError{Kind: ErrMalformedFilename, Path: path, Msg: fmt.Sprintf(format, args...)}
}

// UnreadableFile builds an ErrUnreadableFile for path wrapping cause.
func UnreadableFile(path string, cause error) error {
	return &PipelineError{Kind: ErrUnreadableFile, Path: path, Err: cause}
}

// EmptyResampleWindow builds an ErrEmptyResampleWindow for the given day.
func EmptyResampleWindow(day string) error {
	return &PipelineError{Kind: ErrEmptyResampleWindow, Msg: "day " + day + " produced no buckets"}
}

// ExternalService builds an ErrExternalService for a failed call to url.
func ExternalService(url, format string, args ...any) error {
	return &PipelineError{Kind: ErrExternalService, Path: url, Msg: fmt.Sprintf(format, args...)}
}
