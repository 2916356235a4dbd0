package workflow

import (
	"errors"
	"fmt"
)

// Kind classifies a workflow error so handlers can map it to an HTTP status
// without string matching.
type Kind int

const (
	// KindNotFound: request/user/department/approver missing.
	KindNotFound Kind = iota
	// KindPermissionDenied: role/department/status mismatch.
	KindPermissionDenied
	// KindInvalidState: action not valid for the current status.
	KindInvalidState
	// KindDuplicateDecision: approver already approved this request.
	KindDuplicateDecision
	// KindChainMisconfigured: quorum check hit a layer with zero approvers.
	KindChainMisconfigured
)

// Error is a recoverable workflow error. The message carries the specific
// rule violated and is surfaced to clients verbatim.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func PermissionDeniedf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindPermissionDenied, Message: fmt.Sprintf(format, args...)}
}

func InvalidStatef(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func DuplicateDecisionf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindDuplicateDecision, Message: fmt.Sprintf(format, args...)}
}

func ChainMisconfiguredf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindChainMisconfigured, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of err and true when err is (or wraps) a workflow
// Error.
func KindOf(err error) (Kind, bool) {
	var werr *Error
	if errors.As(err, &werr) {
		return werr.Kind, true
	}
	return 0, false
}
