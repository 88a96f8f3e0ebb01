package batch

import (
	"bytes"
	"fmt"
	"iter"
	"strconv"
	"strings"

	dberrors "github.com/indigo-web/arango/errors"
	"github.com/indigo-web/arango/guard"
	"github.com/indigo-web/arango/http"
	"github.com/indigo-web/arango/http/headers"
	"github.com/indigo-web/arango/http/mime"
	"github.com/indigo-web/arango/internal/protocol/http1"
)

// Result is the decoded multipart response. Responses are keyed by the content-id of their
// part, or by their index if the part carried none. Result is read-only.
type Result struct {
	keys      []string
	responses []*http.Response
	index     map[string]int
}

// Decode splits the multipart response into responses of the parts. The response must have
// the multipart/form-data Content-Type, otherwise it's errors.ErrProtocol.
func Decode(response *http.Response) (*Result, error) {
	contentType, _, _ := strings.Cut(response.ContentType(), ";")
	if strings.TrimSpace(contentType) != mime.Multipart {
		return nil, fmt.Errorf(
			"%w: batch response must be %s, got %q", dberrors.ErrProtocol, mime.Multipart, response.ContentType(),
		)
	}

	body := bytes.TrimSpace(response.Body)
	body = bytes.TrimSuffix(body, []byte("--"+Boundary+"--"))

	result := &Result{
		index: make(map[string]int),
	}

	for _, chunk := range bytes.Split(body, []byte("--"+Boundary+crlf)) {
		if len(bytes.TrimSpace(chunk)) == 0 {
			continue
		}

		partHeaders, inner := http1.ParseHeaders(chunk)
		inner = bytes.TrimSuffix(inner, []byte(crlf))
		part := http1.Parse(inner)
		truncate(part)

		key, found := partHeaders.Lookup(headers.ContentID)
		if !found {
			key = strconv.Itoa(len(result.responses))
		}

		if _, seen := result.index[key]; seen {
			return nil, fmt.Errorf("%w: duplicate content-id %q in batch response", dberrors.ErrProtocol, key)
		}

		result.index[key] = len(result.responses)
		result.keys = append(result.keys, key)
		result.responses = append(result.responses, part)
	}

	return result, nil
}

// truncate cuts off whatever follows the declared body length.
func truncate(response *http.Response) {
	length, err := strconv.Atoi(response.Header(headers.ContentLength))
	if err == nil && length >= 0 && length < len(response.Body) {
		response.Body = response.Body[:length]
	}
}

func (r *Result) Len() int {
	return len(r.responses)
}

// Get returns the response by its key.
func (r *Result) Get(key string) (*http.Response, bool) {
	i, found := r.index[key]
	if !found {
		return nil, false
	}

	return r.responses[i], true
}

// At returns the i-th response. It panics if the index is out of range.
func (r *Result) At(i int) *http.Response {
	return r.responses[i]
}

// Keys returns the keys in the order of parts.
func (r *Result) Keys() []string {
	return append([]string(nil), r.keys...)
}

// All iterates over the responses in the order of parts.
func (r *Result) All() iter.Seq2[string, *http.Response] {
	return func(yield func(string, *http.Response) bool) {
		for i, response := range r.responses {
			if !yield(r.keys[i], response) {
				return
			}
		}
	}
}

// Validate runs the guards in their order and stops at the first refusal. Unscoped guards
// check every response in the order of parts. Scoped guards check only the response with
// the matching key and are skipped if there's none.
func (r *Result) Validate(guards ...guard.Guard) error {
	for _, g := range guards {
		if id := g.ContentID(); len(id) > 0 {
			response, found := r.Get(id)
			if !found {
				continue
			}

			if err := guard.Apply(g, id, response); err != nil {
				return err
			}

			continue
		}

		for key, response := range r.All() {
			if err := guard.Apply(g, key, response); err != nil {
				return err
			}
		}
	}

	return nil
}
