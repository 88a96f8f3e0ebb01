package batch

import (
	"fmt"
	"strconv"

	"github.com/dchest/uniuri"
	dberrors "github.com/indigo-web/arango/errors"
	"github.com/indigo-web/arango/guard"
	"github.com/indigo-web/arango/http"
)

// TokenLength is the length of auto-generated content-ids.
const TokenLength = 16

var hexChars = []byte("0123456789abcdef")

type options struct {
	guard      guard.Guard
	identified bool
}

type Option func(*options)

// WithGuard attaches the guard to the part. A scoped guard also makes its content-id the
// key of the part. An unscoped guard is registered as is and checks every response of
// the batch.
func WithGuard(g guard.Guard) Option {
	return func(o *options) {
		o.guard = g
	}
}

// Identified requests the part's response to be identifiable. Unless the part has a
// scoped guard, a random hex content-id is generated for it.
func Identified() Option {
	return func(o *options) {
		o.identified = true
	}
}

// Part is a single request of a batch, keyed by its content-id.
type Part struct {
	Key     string
	Request *http.Request
}

// Builder collects parts of a batch. The first fault is sticky: all the subsequent parts
// are ignored and the fault is returned by Build.
type Builder struct {
	parts  []Part
	keys   map[string]struct{}
	guards []guard.Guard
	err    error
}

func NewBuilder() *Builder {
	return &Builder{
		keys: make(map[string]struct{}),
	}
}

// Add appends the request as the next part. The request is copied, so it may be reused by
// the caller afterward.
//
// The key of the part is the content-id of the scoped guard, if any. Otherwise it's either
// a random token, if the part is Identified, or the index of the part. Keys must be unique,
// any collision is errors.ErrProtocol.
func (b *Builder) Add(request *http.Request, opts ...Option) *Builder {
	if b.err != nil {
		return b
	}

	if request == nil {
		b.err = fmt.Errorf("%w: nil request in part %d", dberrors.ErrProtocol, len(b.parts))
		return b
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var key string

	switch {
	case o.guard != nil && len(o.guard.ContentID()) > 0:
		key = o.guard.ContentID()
	case o.identified:
		key = b.token()
	default:
		key = strconv.Itoa(len(b.parts))
	}

	if _, seen := b.keys[key]; seen {
		b.err = fmt.Errorf("%w: duplicate content-id %q in part %d", dberrors.ErrProtocol, key, len(b.parts))
		return b
	}

	b.keys[key] = struct{}{}
	b.parts = append(b.parts, Part{
		Key:     key,
		Request: request.Clone(),
	})

	if o.guard != nil {
		b.guards = append(b.guards, o.guard)
	}

	return b
}

// Err returns the sticky fault, if any.
func (b *Builder) Err() error {
	return b.err
}

// Build returns the immutable batch.
func (b *Builder) Build() (*Batch, error) {
	if b.err != nil {
		return nil, b.err
	}

	return &Batch{
		parts:  append([]Part(nil), b.parts...),
		guards: append([]guard.Guard(nil), b.guards...),
	}, nil
}

func (b *Builder) token() string {
	for {
		token := uniuri.NewLenChars(TokenLength, hexChars)
		if _, seen := b.keys[token]; !seen {
			return token
		}
	}
}
