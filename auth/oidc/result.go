package oidc

import "fmt"

// ResultKind discriminates the outcomes of a protocol call.
type ResultKind int

const (
	// ResultOK carries the decoded success payload.
	ResultOK ResultKind = iota
	// ResultError carries a bare error message with no provider code.
	ResultError
	// ResultTypedError carries a provider error code and message.
	ResultTypedError
	// ResultUnknown carries a payload matching no known success or error
	// shape. The pipeline maps it to an "unknown_error" failure instead of
	// crashing.
	ResultUnknown
)

// Result is the tagged outcome of a token-exchange or verification call.
// Exactly one variant is populated, selected by Kind.
type Result struct {
	Kind ResultKind

	// Values is the success payload (tokens or claims).
	Values map[string]any

	// Code is the provider error code (ResultTypedError only).
	Code string

	// Message is the error message (ResultError and ResultTypedError).
	Message string

	// Raw is the original unrecognized payload (ResultUnknown only).
	Raw any
}

// OK builds a success result.
func OK(values map[string]any) Result {
	return Result{Kind: ResultOK, Values: values}
}

// Errorf builds a generic error result.
func Errorf(format string, args ...any) Result {
	return Result{Kind: ResultError, Message: fmt.Sprintf(format, args...)}
}

// TypedError builds an error result preserving the provider's error code.
func TypedError(code, message string) Result {
	return Result{Kind: ResultTypedError, Code: code, Message: message}
}

// Unknown builds a catch-all result carrying the original payload.
func Unknown(raw any) Result {
	return Result{Kind: ResultUnknown, Raw: raw}
}
