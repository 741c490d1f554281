package cas

import "fmt"

// ConfigError reports an invalid client configuration. It is raised at
// construction time and never retried.
type ConfigError struct {
	msg string
}

func NewConfigError(msg string) *ConfigError {
	return &ConfigError{msg: msg}
}

func (e *ConfigError) Error() string { return e.msg }

// TransportError covers connection failures, timeouts and responses that
// exceed the configured size ceiling.
type TransportError struct {
	msg   string
	cause error
}

func NewTransportError(msg string, cause error) *TransportError {
	return &TransportError{msg: msg, cause: cause}
}

func (e *TransportError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *TransportError) Unwrap() error { return e.cause }

// ParseError reports a malformed XML validation response. Raw keeps the
// offending payload for diagnostics; it must never reach the end user.
type ParseError struct {
	msg   string
	cause error
	Raw   []byte
}

func NewParseError(msg string, cause error, raw []byte) *ParseError {
	return &ParseError{msg: msg, cause: cause, Raw: raw}
}

func (e *ParseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *ParseError) Unwrap() error { return e.cause }

// ProtocolError is a well formed response rejecting the ticket, or a
// success response missing required data. A first occurrence triggers the
// single bounded retry, see RetryController.
type ProtocolError struct {
	Code    string
	Message string
}

func (e *ProtocolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}
