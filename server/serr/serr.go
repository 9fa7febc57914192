// Package serr holds common error objects used across the mathscript
// server. Notably, it contains the Error type, which can be created with
// one or more 'cause' errors. Calling errors.Is() on this Error type with
// an argument consisting of any of the errors it has as a cause will
// return true.
//
// This package also holds several global error constants created via
// errors.New().
package serr

import "errors"

var (
	ErrBadCredentials = errors.New("the supplied username/password combination is incorrect")
	ErrPermissions    = errors.New("you don't have permission to do that")
	ErrNotFound       = errors.New("the requested entity could not be found")
	ErrAlreadyExists  = errors.New("resource with same identifying information already exists")
	ErrDB             = errors.New("an error occured with the DB")
	ErrBadArgument    = errors.New("one or more of the arguments is invalid")
	ErrBodyUnmarshal  = errors.New("malformed data in request")
	ErrEval           = errors.New("the expression could not be evaluated")
)

// Error is a typed error returned by certain functions in the mathscript
// server as their error value. It contains both a message explaining what
// happened as well as one or more error values it considers to be its
// causes. Error is compatible with the use of errors.Is() - calling
// errors.Is on some Error value err along with any value of error it holds
// as one of its causes will return true.
//
// Error should not be used directly; call New to create one.
type Error struct {
	msg   string
	cause []error
}

// New creates a new Error with the given message and, optionally, one or
// more causes.
func New(msg string, cause ...error) Error {
	return Error{msg: msg, cause: cause}
}

// WrapDB creates a new Error wrapping ErrDB with the given message and an
// underlying driver error as an additional cause.
func WrapDB(msg string, driverErr error) Error {
	return Error{msg: msg, cause: []error{ErrDB, driverErr}}
}

func (e Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause[0].Error()
	}
	if e.cause != nil {
		return e.msg + ": " + e.cause[0].Error()
	}
	return e.msg
}

func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}
