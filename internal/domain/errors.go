package domain

import (
	"errors"
	"strings"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can pick a page message without leaking
// infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
)

// RemoteError carries the literal error string returned by the remote
// endpoint (or its raw non-JSON body). Handlers display Message verbatim
// unless classification says otherwise.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string { return e.Message }

// RemoteErrorKind partitions backend error strings into the classes the
// flow reacts to differently.
type RemoteErrorKind int

const (
	// RemoteErrGeneric is shown to the user verbatim.
	RemoteErrGeneric RemoteErrorKind = iota
	// RemoteErrSession means the session token was rejected; the local
	// session must be cleared and the user re-verified.
	RemoteErrSession
)

// ClassifyRemoteError maps a backend error string to its kind. The remote
// contract has no structured error codes, so this is a substring match on
// the error text. Keeping the match here, in exactly one place, is
// deliberate: if the backend ever grows error codes only this function
// changes.
func ClassifyRemoteError(err *RemoteError) RemoteErrorKind {
	if err == nil {
		return RemoteErrGeneric
	}
	if strings.Contains(strings.ToLower(err.Message), "session") {
		return RemoteErrSession
	}
	return RemoteErrGeneric
}
