// Package errors provides coded errors for the journal, form and
// configuration layers. The UI core itself does not return errors.
package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
)

// ErrorCode represents a structured error code
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrCodeConfigParse   ErrorCode = "CONFIG_PARSE"
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Form definition errors
	ErrCodeFormInvalid ErrorCode = "FORM_INVALID"

	// Journal storage and export errors
	ErrCodeStorageRead  ErrorCode = "STORAGE_READ"
	ErrCodeStorageWrite ErrorCode = "STORAGE_WRITE"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeExportFailed ErrorCode = "EXPORT_FAILED"

	// Generic errors
	ErrCodeBackendInit  ErrorCode = "BACKEND_INIT"
	ErrCodeInternal     ErrorCode = "INTERNAL"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Error is a coded error with optional context for logs and a message
// for people.
type Error struct {
	Code        ErrorCode
	Message     string
	Underlying  error
	Context     map[string]any
	UserMessage string
	Remediation []string
	// Origin is the function and file:line that created the error.
	Origin string
}

// New creates a new structured error
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
		Origin:  caller(2),
	}
}

// Newf is New with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Context: make(map[string]any),
		Origin:  caller(2),
	}
}

// Wrap attaches a code and message to err. It returns nil for a nil err.
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:       code,
		Message:    message,
		Underlying: err,
		Context:    make(map[string]any),
		Origin:     caller(2),
	}
}

// WithContext adds context key-value pairs to the error
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithUserMessage sets the human-friendly message returned to users.
func (e *Error) WithUserMessage(message string) *Error {
	e.UserMessage = message
	return e
}

// WithRemediation replaces the remediation tips.
func (e *Error) WithRemediation(tips ...string) *Error {
	if len(tips) == 0 {
		return e
	}
	e.Remediation = slices.Clone(tips)
	return e
}

// Error renders "[CODE] message {k: v, ...}: underlying". Context keys are
// sorted.
func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", e.Code, e.Message)

	if len(e.Context) > 0 {
		sb.WriteString(" {")
		for i, k := range slices.Sorted(maps.Keys(e.Context)) {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s: %v", k, e.Context[k])
		}
		sb.WriteString("}")
	}

	if e.Underlying != nil {
		fmt.Fprintf(&sb, ": %v", e.Underlying)
	}
	return sb.String()
}

// Unwrap returns the underlying error for errors.Is/As
func (e *Error) Unwrap() error {
	return e.Underlying
}

// Friendly is the text shown on the command line: the user message (or the
// message) followed by one remediation tip per line.
func (e *Error) Friendly() string {
	msg := e.UserMessage
	if msg == "" {
		msg = e.Message
	}
	if len(e.Remediation) == 0 {
		return msg
	}
	var sb strings.Builder
	sb.WriteString(msg)
	for _, tip := range e.Remediation {
		sb.WriteString("\n  - ")
		sb.WriteString(tip)
	}
	return sb.String()
}

// LogDetails flattens the error for a structured log line: code, origin
// and every context key.
func (e *Error) LogDetails() map[string]any {
	details := make(map[string]any, len(e.Context)+2)
	maps.Copy(details, e.Context)
	details["code"] = string(e.Code)
	if e.Origin != "" {
		details["origin"] = e.Origin
	}
	return details
}

func caller(skip int) string {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	name := "unknown"
	if fn := runtime.FuncForPC(pc); fn != nil {
		name = fn.Name()
	}
	return fmt.Sprintf("%s %s:%d", name, filepath.Base(file), line)
}

// As finds the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if err == nil || !stderrors.As(err, &e) {
		return nil, false
	}
	return e, true
}

// IsCode reports whether any *Error in err's chain has code.
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		e, ok := As(err)
		if !ok {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Underlying
	}
	return false
}

// GetCode returns the code of the outermost *Error in err's chain, or
// INTERNAL for foreign errors.
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if e, ok := As(err); ok {
		return e.Code
	}
	return ErrCodeInternal
}
