package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the workflow layer. Every failure surfaced by an
// orchestrator operation wraps exactly one of these, so callers can branch
// with errors.Is and map to an exit code or monitoring code.
var (
	ErrAuth           = fmt.Errorf("authentication failed")
	ErrProvisioning   = fmt.Errorf("provisioning rejected")
	ErrPrecondition   = fmt.Errorf("precondition not met")
	ErrPrepareTimeout = fmt.Errorf("preparation timed out")
	ErrPrepareFailed  = fmt.Errorf("preparation failed")
	ErrInvocation     = fmt.Errorf("invocation failed")
	ErrEmptyResponse  = fmt.Errorf("stream yielded no chunks")
	ErrStreamTimeout  = fmt.Errorf("stream read timed out")
	ErrCancelled      = fmt.Errorf("operation cancelled")

	// Lookup sentinels for the list and resolve operations.
	ErrAgentNotFound = fmt.Errorf("agent not found")
	ErrAliasNotFound = fmt.Errorf("alias not found")
	ErrThrottled     = fmt.Errorf("request throttled")
)

// WorkflowError wraps a sentinel error with the operation that produced it.
type WorkflowError struct {
	Op     string // operation name (e.g., "prepare agent")
	Err    error  // underlying sentinel or wrapped error
	Detail string // human-readable detail
}

func (e *WorkflowError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *WorkflowError) Unwrap() error { return e.Err }

// NewWorkflowError creates a new WorkflowError.
func NewWorkflowError(op string, err error, detail string) *WorkflowError {
	return &WorkflowError{Op: op, Err: err, Detail: detail}
}

// WrapOp adds operation context to an error using fmt.Errorf wrapping.
// Returns nil if err is nil, enabling idiomatic use: return domain.WrapOp("op", err)
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// ErrorCode is a machine-parseable error category for CLI output and alerting.
type ErrorCode string

// Error codes. Every sentinel error maps to exactly one code.
const (
	CodeUnknown        ErrorCode = "UNKNOWN"
	CodeAuth           ErrorCode = "AUTH"
	CodeProvisioning   ErrorCode = "PROVISIONING"
	CodePrecondition   ErrorCode = "PRECONDITION"
	CodePrepareTimeout ErrorCode = "PREPARE_TIMEOUT"
	CodePrepareFailed  ErrorCode = "PREPARE_FAILED"
	CodeInvocation     ErrorCode = "INVOCATION"
	CodeEmptyResponse  ErrorCode = "EMPTY_RESPONSE"
	CodeStreamTimeout  ErrorCode = "STREAM_TIMEOUT"
	CodeCancelled      ErrorCode = "CANCELLED"
	CodeAgentNotFound  ErrorCode = "AGENT_NOT_FOUND"
	CodeAliasNotFound  ErrorCode = "ALIAS_NOT_FOUND"
	CodeThrottled      ErrorCode = "THROTTLED"
)

// errorCodeMap maps sentinel errors to their machine-parseable codes.
var errorCodeMap = map[error]ErrorCode{
	ErrAuth:           CodeAuth,
	ErrProvisioning:   CodeProvisioning,
	ErrPrecondition:   CodePrecondition,
	ErrPrepareTimeout: CodePrepareTimeout,
	ErrPrepareFailed:  CodePrepareFailed,
	ErrInvocation:     CodeInvocation,
	ErrEmptyResponse:  CodeEmptyResponse,
	ErrStreamTimeout:  CodeStreamTimeout,
	ErrCancelled:      CodeCancelled,
	ErrAgentNotFound:  CodeAgentNotFound,
	ErrAliasNotFound:  CodeAliasNotFound,
	ErrThrottled:      CodeThrottled,
}

// ErrorCodeOf returns the machine-parseable error code for the given error.
// It unwraps WorkflowError and uses errors.Is to match sentinel errors.
// Returns CodeUnknown if no matching sentinel is found.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}

	// Fast path: direct sentinel lookup.
	if code, ok := errorCodeMap[err]; ok {
		return code
	}

	var we *WorkflowError
	if errors.As(err, &we) {
		if code, ok := errorCodeMap[we.Err]; ok {
			return code
		}
	}

	// Walk the error chain with errors.Is.
	for sentinel, code := range errorCodeMap {
		if errors.Is(err, sentinel) {
			return code
		}
	}

	return CodeUnknown
}

// Code returns the ErrorCode for this WorkflowError's underlying sentinel.
func (e *WorkflowError) Code() ErrorCode {
	return ErrorCodeOf(e.Err)
}
