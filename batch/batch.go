// Package batch implements the multipart batch protocol: many requests are sent as parts of
// a single request, and their responses come back as parts of a single response. Parts are
// correlated by their content-id.
package batch

import (
	"fmt"
	"iter"

	dberrors "github.com/indigo-web/arango/errors"
	"github.com/indigo-web/arango/guard"
	"github.com/indigo-web/arango/http"
	"github.com/indigo-web/arango/http/headers"
	"github.com/indigo-web/arango/http/method"
	"github.com/indigo-web/arango/http/mime"
	"github.com/indigo-web/arango/http/proto"
)

const (
	// Boundary separates the parts. The server expects it in the boundary header rather
	// than as the Content-Type parameter.
	Boundary = "XXXsubpartXXX"
	// Path is the batch endpoint, relative to the database prefix.
	Path = "/_api/batch"
)

const crlf = "\r\n"

// Batch is an immutable ordered set of parts along with the guards declared by them.
type Batch struct {
	parts  []Part
	guards []guard.Guard
}

func (b *Batch) Len() int {
	return len(b.parts)
}

// Keys returns the keys of the parts in their order.
func (b *Batch) Keys() []string {
	keys := make([]string, len(b.parts))
	for i, part := range b.parts {
		keys[i] = part.Key
	}

	return keys
}

// Parts iterates over the parts in their order.
func (b *Batch) Parts() iter.Seq2[string, *http.Request] {
	return func(yield func(string, *http.Request) bool) {
		for _, part := range b.parts {
			if !yield(part.Key, part.Request) {
				return
			}
		}
	}
}

// Guards returns the guards in their declaration order.
func (b *Batch) Guards() []guard.Guard {
	return append([]guard.Guard(nil), b.guards...)
}

// Body renders the multipart payload.
func (b *Batch) Body() []byte {
	var buff []byte

	for _, part := range b.parts {
		buff = append(buff, "--"+Boundary+crlf...)
		buff = append(buff, headers.ContentType+": "+mime.BatchPart+crlf...)
		buff = append(buff, headers.ContentID+": "...)
		buff = append(buff, part.Key...)
		buff = append(buff, crlf+crlf...)
		buff = append(buff, part.Request.Method.String()...)
		buff = append(buff, ' ')
		buff = append(buff, part.Request.Path...)
		buff = append(buff, ' ')
		buff = append(buff, proto.HTTP11.String()...)

		if len(part.Request.Body) > 0 {
			buff = append(buff, crlf+crlf...)
			buff = append(buff, part.Request.Body...)
		}

		buff = append(buff, crlf...)
	}

	return append(buff, "--"+Boundary+"--"+crlf+crlf...)
}

// Request returns the request carrying the whole batch. The prefix is prepended to the
// batch endpoint path, e.g. /_db/<name>. Paths of the parts are sent as is.
func (b *Batch) Request(prefix string) *http.Request {
	return http.NewRequest(method.POST, prefix+Path).
		Header(headers.Boundary, Boundary).
		ContentType(mime.Multipart).
		Bytes(b.Body())
}

// Decode decodes the response to the batch. Unlike the plain Decode, it also requires the
// number of response parts to match the number of request parts.
func (b *Batch) Decode(response *http.Response) (*Result, error) {
	result, err := Decode(response)
	if err != nil {
		return nil, err
	}

	if result.Len() != b.Len() {
		return nil, fmt.Errorf(
			"%w: %d parts sent, but %d parts received", dberrors.ErrProtocol, b.Len(), result.Len(),
		)
	}

	return result, nil
}

// Validate checks the result against the guards declared by the parts. A batch without
// any guards can't be validated: it's errors.ErrProtocol.
func (b *Batch) Validate(result *Result) error {
	if len(b.guards) == 0 {
		return fmt.Errorf("%w: no guards were declared in the batch", dberrors.ErrProtocol)
	}

	return result.Validate(b.guards...)
}
