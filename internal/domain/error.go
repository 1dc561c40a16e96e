package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeConfigurationMissing ErrorCode = "CONFIGURATION_MISSING"
	CodeRemoteFetchFailed    ErrorCode = "REMOTE_FETCH_FAILED"
	CodeEmptyResult          ErrorCode = "EMPTY_RESULT"
	CodeCooldownBlocked      ErrorCode = "COOLDOWN_BLOCKED"
	CodeInvalidArgument      ErrorCode = "INVALID_ARGUMENT"
	CodeNotFound             ErrorCode = "NOT_FOUND"
	CodeUnavailable          ErrorCode = "UNAVAILABLE"
	CodeInternal             ErrorCode = "INTERNAL"
	CodeCanceled             ErrorCode = "CANCELED"
)

var (
	ErrToolNotFound         = errors.New("tool not found")
	ErrMissingCredential    = errors.New("missing credential")
	ErrEmptyResult          = errors.New("empty result")
	ErrRemoteStatus         = errors.New("unexpected remote status")
	ErrInvalidTemperature   = errors.New("temperature must be between 0.0 and 1.0")
	ErrGeneratorUnavailable = errors.New("generator unavailable")
	ErrRefreshInProgress    = errors.New("refresh already in progress")
)

type Error struct {
	Code      ErrorCode
	Op        string
	Message   string
	Cause     error
	Retryable bool
	Meta      map[string]string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	switch {
	case e.Op == "" && msg == "":
		return string(e.Code)
	case e.Op == "":
		return fmt.Sprintf("%s: %s", e.Code, msg)
	case msg == "":
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	default:
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, msg)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func E(code ErrorCode, op, msg string, cause error) *Error {
	if msg == "" && cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Code:    code,
		Op:      op,
		Message: msg,
		Cause:   cause,
	}
}

// RemoteError builds a retryable REMOTE_FETCH_FAILED error tagged with the source name.
func RemoteError(source, op string, cause error) *Error {
	err := E(CodeRemoteFetchFailed, op, "", cause)
	err.Retryable = true
	err.Meta = map[string]string{"source": source}
	return err
}

func Wrap(code ErrorCode, op string, err error) *Error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		if existing.Op != "" || op == "" {
			return existing
		}
		clone := *existing
		clone.Op = op
		return &clone
	}
	return E(code, op, "", err)
}

func CodeFrom(err error) (ErrorCode, bool) {
	if err == nil {
		return "", false
	}
	var domainErr *Error
	if errors.As(err, &domainErr) && domainErr.Code != "" {
		return domainErr.Code, true
	}
	switch {
	case errors.Is(err, ErrToolNotFound):
		return CodeNotFound, true
	case errors.Is(err, ErrMissingCredential):
		return CodeConfigurationMissing, true
	case errors.Is(err, ErrEmptyResult):
		return CodeEmptyResult, true
	case errors.Is(err, ErrRemoteStatus):
		return CodeRemoteFetchFailed, true
	case errors.Is(err, ErrInvalidTemperature):
		return CodeInvalidArgument, true
	case errors.Is(err, ErrGeneratorUnavailable):
		return CodeUnavailable, true
	default:
		return "", false
	}
}
