package gateway

import (
	"errors"
	"fmt"
)

// TransportError indicates the request never produced an HTTP response:
// connection failures, timeouts, DNS errors.
type TransportError struct {
	Err error
}

func (e TransportError) Error() string {
	return fmt.Errorf("transport: %w", e.Err).Error()
}

func (e TransportError) Unwrap() error {
	return e.Err
}

// UpstreamError indicates a response with status >= 400. The message
// keeps the upstream contract's format: "<Label>: <status>".
type UpstreamError struct {
	Status int
	Label  string
}

func (e UpstreamError) Error() string {
	return fmt.Sprintf("%s: %d", e.Label, e.Status)
}

func errorClassLabel(err error) string {
	if err == nil {
		return "unknown"
	}
	var transport TransportError
	if errors.As(err, &transport) {
		return "transport"
	}
	var upstream UpstreamError
	if errors.As(err, &upstream) {
		return "upstream"
	}
	return "other"
}
