// Package autherror maps the error codes handed to the sign-in error page
// by the authentication framework to user-facing messages.
package autherror

import "net/url"

// QueryParam is the query parameter the authentication framework uses to
// pass the error code when redirecting to the error page.
const QueryParam = "error"

// Code is one of the error codes the error page knows how to explain.
// Anything else collapses to CodeDefault.
type Code int

const (
	CodeDefault Code = iota
	CodeConfiguration
	CodeAccessDenied
	CodeVerification
)

// String returns the wire form of the code as it appears in the query string.
func (c Code) String() string {
	switch c {
	case CodeConfiguration:
		return "Configuration"
	case CodeAccessDenied:
		return "AccessDenied"
	case CodeVerification:
		return "Verification"
	default:
		return "Default"
	}
}

// Message returns the sentence shown to the user for c. It is never empty.
func (c Code) Message() string {
	switch c {
	case CodeConfiguration:
		return "There is a problem with the authentication configuration."
	case CodeAccessDenied:
		return "You do not have permission to sign in."
	case CodeVerification:
		return "The sign-in link is no longer valid."
	default:
		return "Something went wrong during authentication."
	}
}

// ParseCode returns the Code named by s. Matching is exact; any string that
// is not a known code, including the empty string, yields CodeDefault.
func ParseCode(s string) Code {
	switch s {
	case "Configuration":
		return CodeConfiguration
	case "AccessDenied":
		return CodeAccessDenied
	case "Verification":
		return CodeVerification
	default:
		return CodeDefault
	}
}

// Resolve returns the message for raw. When present is false the code is
// treated as the literal "Default".
func Resolve(raw string, present bool) string {
	if !present {
		raw = CodeDefault.String()
	}
	return ParseCode(raw).Message()
}

// FromQuery extracts the error code from query parameters. A missing
// parameter resolves the same way as "Default".
func FromQuery(q url.Values) Code {
	if !q.Has(QueryParam) {
		return CodeDefault
	}
	return ParseCode(q.Get(QueryParam))
}

// ResolveQuery is Resolve applied to the error query parameter.
func ResolveQuery(q url.Values) string {
	return FromQuery(q).Message()
}
