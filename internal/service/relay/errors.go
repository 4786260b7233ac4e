package relay

import (
	"encoding/json"
	"fmt"
)

// Kind classifies relay failures so the HTTP layer can map each one to a
// stable status and body.
type Kind int

const (
	KindInvalidRequest Kind = iota
	KindServerMisconfigured
	KindUpstreamError
	KindInvalidUpstreamResponse
	KindInternal
)

// Error is the failure type returned by Relay. Status and Details are only
// populated for KindUpstreamError; Details carries the raw upstream error body
// for diagnostics and is never interpreted here.
type Error struct {
	Kind    Kind
	Status  int
	Details json.RawMessage
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidRequest:
		return "invalid relay request"
	case KindServerMisconfigured:
		return "upstream credential not configured"
	case KindUpstreamError:
		return fmt.Sprintf("upstream returned status %d", e.Status)
	case KindInvalidUpstreamResponse:
		return "upstream response missing reply content"
	default:
		if e.Err != nil {
			return fmt.Sprintf("relay failed: %v", e.Err)
		}
		return "relay failed"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalidRequest() *Error {
	return &Error{Kind: KindInvalidRequest}
}

func misconfigured() *Error {
	return &Error{Kind: KindServerMisconfigured}
}

func upstreamError(status int, body []byte, err error) *Error {
	e := &Error{Kind: KindUpstreamError, Status: status, Err: err}
	if json.Valid(body) {
		e.Details = json.RawMessage(body)
	} else if len(body) > 0 {
		if quoted, marshalErr := json.Marshal(string(body)); marshalErr == nil {
			e.Details = json.RawMessage(quoted)
		}
	}
	return e
}

func invalidUpstream() *Error {
	return &Error{Kind: KindInvalidUpstreamResponse}
}

func internalError(err error) *Error {
	return &Error{Kind: KindInternal, Err: err}
}
