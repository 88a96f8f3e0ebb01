package http

import (
	"github.com/indigo-web/arango/http/headers"
	"github.com/indigo-web/arango/http/method"
	"github.com/indigo-web/arango/http/mime"
	"github.com/indigo-web/arango/kv"
	json "github.com/json-iterator/go"
)

// Request is a logical HTTP request: what is going to be sent, independent of how it is
// going to be framed on the wire. Path must already contain the database prefix, if any.
//
// The request is owned by the caller. Neither the transport nor batches retain it after
// they're done.
type Request struct {
	Method  method.Method
	Path    string
	Headers *kv.Storage
	Body    []byte
}

func NewRequest(m method.Method, path string) *Request {
	return &Request{
		Method:  m,
		Path:    path,
		Headers: kv.New(),
	}
}

// Header adds a new header value. Values of repeating keys accumulate.
func (r *Request) Header(key string, values ...string) *Request {
	for _, value := range values {
		r.Headers.Add(key, value)
	}

	return r
}

// ContentType sets the Content-Type header, replacing any previous value.
func (r *Request) ContentType(value mime.MIME) *Request {
	r.Headers.DeleteFold(headers.ContentType)
	r.Headers.Add(headers.ContentType, value)
	return r
}

// Bytes sets the request body.
func (r *Request) Bytes(body []byte) *Request {
	r.Body = body
	return r
}

// String sets the request body.
func (r *Request) String(body string) *Request {
	return r.Bytes([]byte(body))
}

// TryJSON serializes the model into the request body and sets the JSON Content-Type.
func (r *Request) TryJSON(model any) (*Request, error) {
	body, err := json.ConfigDefault.Marshal(model)
	if err != nil {
		return r, err
	}

	return r.Bytes(body).ContentType(mime.JSON), nil
}

// Clone returns a deep copy of the request.
func (r *Request) Clone() *Request {
	clone := &Request{
		Method:  r.Method,
		Path:    r.Path,
		Headers: r.Headers.Clone(),
	}

	if r.Body != nil {
		clone.Body = append([]byte(nil), r.Body...)
	}

	return clone
}
