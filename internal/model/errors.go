package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a pipeline failure.
type ErrorKind string

const (
	KindNetwork       ErrorKind = "network"
	KindSchema        ErrorKind = "schema"
	KindDataQuality   ErrorKind = "data_quality"
	KindSerialization ErrorKind = "serialization"
	KindIO            ErrorKind = "io"
)

// Pipeline stages, used in diagnostics and the run ledger.
const (
	StageRetrieve = "retrieve"
	StageClean    = "clean"
	StageAnalyze  = "analyze"
	StagePersist  = "persist"
)

// Error is a failure tagged with its kind and the stage that produced it.
type Error struct {
	Kind  ErrorKind
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s error: %v", e.Stage, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether the retriever may attempt the operation again.
// Only network failures are retryable.
func (e *Error) Retryable() bool { return e.Kind == KindNetwork }

func NewNetworkError(err error) error {
	return &Error{Kind: KindNetwork, Stage: StageRetrieve, Err: err}
}

func NewSchemaError(err error) error {
	return &Error{Kind: KindSchema, Stage: StageClean, Err: err}
}

func NewDataQualityError(stage string, err error) error {
	return &Error{Kind: KindDataQuality, Stage: stage, Err: err}
}

func NewSerializationError(err error) error {
	return &Error{Kind: KindSerialization, Stage: StagePersist, Err: err}
}

func NewIOError(err error) error {
	return &Error{Kind: KindIO, Stage: StagePersist, Err: err}
}

// IsRetryable reports whether err carries a retryable kind.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable()
}

// KindOf returns the kind of err, or "" when it is untagged.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// StageOf returns the stage of err, or "" when it is untagged.
func StageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Stage
	}
	return ""
}
