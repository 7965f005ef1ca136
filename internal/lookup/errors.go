package lookup

import "fmt"

// TransportError means the lookup call could not complete: connection failure,
// timeout, cancellation or a non-2xx HTTP status. URL never contains the API key.
type TransportError struct {
	URL        string
	Message    string
	StatusCode int
	Cause      error
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("lookup transport error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("lookup transport error for %s: %s", e.URL, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// DecodeError means the registry answered but the body could not be understood.
type DecodeError struct {
	Message string
	Cause   error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("lookup decode error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("lookup decode error: %s", e.Message)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}
