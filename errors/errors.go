package errors

import (
	"errors"
	"fmt"

	"github.com/indigo-web/arango/http"
)

// Kinds of faults. Every error returned by the client matches exactly one of them
// via errors.Is.
var (
	// ErrConfiguration reports an invalid endpoint or option value. It's returned only
	// while constructing a transport, never from a call.
	ErrConfiguration = errors.New("bad configuration")
	// ErrConnection reports that a connection couldn't be opened, or a kept-alive
	// connection went stale while reconnecting isn't permitted.
	ErrConnection = errors.New("connection failed")
	// ErrTimeout reports that the socket timed out while waiting for the response.
	ErrTimeout = errors.New("timed out")
	// ErrTransport reports any other failure of sending the request or receiving and
	// parsing the response.
	ErrTransport = errors.New("transport failed")
	// ErrValidation reports that a guard refused a response.
	ErrValidation = errors.New("response refused")
	// ErrProtocol reports a violation of the batch protocol: non-multipart batch response,
	// content-id collisions, parts number mismatch or a batch without guards being validated.
	ErrProtocol = errors.New("protocol violation")
)

// RequestError is a connection, timeout or transport fault. It carries the request that
// was being sent for diagnostics.
type RequestError struct {
	Kind    error
	Request *http.Request
	Err     error
}

func NewRequestError(kind error, request *http.Request, err error) *RequestError {
	return &RequestError{
		Kind:    kind,
		Request: request,
		Err:     err,
	}
}

func (r *RequestError) Error() string {
	target := "<nil request>"
	if r.Request != nil {
		target = r.Request.Method.String() + " " + r.Request.Path
	}

	if r.Err == nil {
		return fmt.Sprintf("%s: %s", target, r.Kind)
	}

	return fmt.Sprintf("%s: %s: %s", target, r.Kind, r.Err)
}

func (r *RequestError) Unwrap() []error {
	if r.Err == nil {
		return []error{r.Kind}
	}

	return []error{r.Kind, r.Err}
}

// ResponseError is a validation fault. It carries the refused response.
type ResponseError struct {
	// ContentID identifies the batch part the response belongs to. Empty for responses
	// outside of batches.
	ContentID string
	Response  *http.Response
	Err       error
}

func NewResponseError(response *http.Response, err error) *ResponseError {
	return &ResponseError{
		Response: response,
		Err:      err,
	}
}

func (r *ResponseError) Error() string {
	var code int
	if r.Response != nil {
		code = int(r.Response.Code)
	}

	msg := fmt.Sprintf("%s (status %d)", ErrValidation, code)
	if len(r.ContentID) > 0 {
		msg += " in part " + r.ContentID
	}

	if r.Err != nil {
		msg += ": " + r.Err.Error()
	}

	return msg
}

func (r *ResponseError) Unwrap() []error {
	if r.Err == nil {
		return []error{ErrValidation}
	}

	return []error{ErrValidation, r.Err}
}
