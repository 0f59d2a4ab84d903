package gateway

import "fmt"

// TransportError wraps a network-level failure reaching the gateway.
// Callers retry these with backoff; they are never surfaced raw.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gateway transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError marks a response that arrived but could not be
// used: no choices, empty content, or an unparseable payload.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return "gateway returned a malformed response: " + e.Reason
}
