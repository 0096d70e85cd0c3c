// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a pipeline failure for exit-code mapping.
type ErrorKind string

const (
	// InvalidArguments marks a command line rejected before any file I/O.
	InvalidArguments ErrorKind = "invalid_arguments"

	// ExtractionError marks an unreadable, corrupt, or encrypted input
	// PDF, or one with no extractable text.
	ExtractionError ErrorKind = "extraction_error"

	// NetworkError marks a cloud backend connectivity failure.
	NetworkError ErrorKind = "network_error"

	// QuotaError marks a cloud backend rate-limit or quota rejection.
	QuotaError ErrorKind = "quota_error"

	// EngineUnavailableError marks an offline backend with no usable
	// engine or voice.
	EngineUnavailableError ErrorKind = "engine_unavailable"

	// EncodingError marks a failure to produce the MP3 output.
	EncodingError ErrorKind = "encoding_error"
)

// StageError attaches an ErrorKind and the failing stage to an
// underlying error. It unwraps, so errors.Is and errors.As see through
// any further wrapping.
type StageError struct {
	Kind  ErrorKind
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// NewStageError wraps err with a kind and the name of the stage that
// failed.
func NewStageError(kind ErrorKind, stage string, err error) *StageError {
	return &StageError{Kind: kind, Stage: stage, Err: err}
}

// KindOf returns the ErrorKind carried by err, or "" when err carries
// none.
func KindOf(err error) ErrorKind {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// ExitCode maps err to the process exit code: 0 for nil, 1 for
// extraction and unclassified failures, 2 for audio generation
// failures, 3 for invalid arguments.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch KindOf(err) {
	case InvalidArguments:
		return 3
	case NetworkError, QuotaError, EngineUnavailableError, EncodingError:
		return 2
	default:
		return 1
	}
}
