package megatec

import (
	"errors"
	"fmt"
	"strings"
)

// ParseFault means the response body could not be understood: malformed XML,
// a missing envelope element, or a text/attribute key collision. It is never
// swallowed, a parse fault signals an upstream contract change or a codec bug.
type ParseFault struct {
	Msg  string
	Line int
}

func (f *ParseFault) Error() string {
	if f.Line > 0 {
		return fmt.Sprintf("megatec: %s (line %d)", f.Msg, f.Line)
	}
	return "megatec: " + f.Msg
}

func parseFaultf(format string, args ...any) *ParseFault {
	return &ParseFault{Msg: fmt.Sprintf(format, args...)}
}

// Fault is a SOAP fault returned by the integration service.
type Fault struct {
	Code   string
	Reason string
}

func (f *Fault) Error() string {
	if f.Code != "" {
		return fmt.Sprintf("soap fault %s: %s", f.Code, f.Reason)
	}
	return "soap fault: " + f.Reason
}

// AuthFault covers both a failed Connect and a rejected session guid on a
// subsequent call.
type AuthFault struct {
	Msg string
}

func (f *AuthFault) Error() string {
	return "megatec: auth: " + f.Msg
}

// The service reports an expired or unknown session inside an HTTP 200 fault
// body; these substrings are the shapes observed in the wild.
var authFaultMarkers = []string{
	"invalid guid",
	"session",
	"not connected",
	"unauthorized",
}

// IsAuthShaped reports whether err looks like a rejected session, which makes
// it eligible for the single reconnect-and-retry.
func IsAuthShaped(err error) bool {
	if err == nil {
		return false
	}

	var authFault *AuthFault
	if errors.As(err, &authFault) {
		return true
	}

	message := strings.ToLower(err.Error())
	for _, marker := range authFaultMarkers {
		if strings.Contains(message, marker) {
			return true
		}
	}

	return false
}
