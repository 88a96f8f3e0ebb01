package http

import (
	"github.com/indigo-web/arango/http/headers"
	"github.com/indigo-web/arango/http/proto"
	"github.com/indigo-web/arango/http/status"
	"github.com/indigo-web/arango/kv"
	"github.com/indigo-web/utils/uf"
	json "github.com/json-iterator/go"
)

// Response is a logical HTTP response. Headers preserve the order they were encountered
// in. Code equal to status.Unparseable means the start line couldn't be recognized.
type Response struct {
	Protocol proto.Proto
	Code     status.Code
	Status   status.Status
	Headers  *kv.Storage
	Body     []byte
}

func NewResponse() *Response {
	return &Response{
		Headers: kv.New(),
	}
}

// Header returns the first value of the header, matching its name case-insensitively.
func (r *Response) Header(key string) string {
	value, _ := r.Headers.Lookup(key)
	return value
}

// ContentType returns the Content-Type header value as is.
func (r *Response) ContentType() string {
	return r.Header(headers.ContentType)
}

// JSON decodes the body into the model, which must be a pointer.
func (r *Response) JSON(model any) error {
	iterator := json.ConfigDefault.BorrowIterator(r.Body)
	iterator.ReadVal(model)
	err := iterator.Error
	json.ConfigDefault.ReturnIterator(iterator)

	return err
}

// String returns the body as a string. The returned string shares memory with the body.
func (r *Response) String() string {
	return uf.B2S(r.Body)
}
