package http1

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/indigo-web/arango/http/headers"
	"github.com/indigo-web/chunkedbody"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

// ChunkSize is the maximal number of bytes requested from the connection by a single read.
const ChunkSize = 8192

var (
	ErrNoResponse = errors.New("connection closed without sending a response")
	ErrIncomplete = errors.New("connection closed before the response was complete")
)

// Reader assembles exactly one response message out of consequent reads from the source.
// Reading stops as soon as the message is complete:
//   - for HEAD requests, once the header block is received;
//   - for chunked bodies, once the terminating chunk is parsed;
//   - for sized bodies, once header block, separator and Content-Length bytes are received;
//   - otherwise at the first empty read or end of stream.
//
// Sized bodies are never over-read: once the Content-Length is known, no more than the
// missing number of bytes is requested from the source.
type Reader struct {
	src   io.Reader
	chunk []byte
}

func NewReader(src io.Reader) *Reader {
	return &Reader{
		src:   src,
		chunk: make([]byte, ChunkSize),
	}
}

// Read returns the raw message. Chunked bodies are returned already de-chunked. Errors
// returned by the source (e.g. timeouts) are returned as is, except io.EOF.
func (r *Reader) Read(head bool) ([]byte, error) {
	var (
		buff          = make([]byte, 0, ChunkSize)
		bodyOffset    = -1
		contentLength = -1
		chunked       *dechunker
	)

	for {
		size := len(r.chunk)
		if bodyOffset != -1 && chunked == nil && contentLength != -1 {
			size = min(size, bodyOffset+contentLength-len(buff))
		}

		n, err := r.src.Read(r.chunk[:size])
		buff = append(buff, r.chunk[:n]...)

		if bodyOffset == -1 {
			if pos := bytes.Index(buff, separator); pos != -1 {
				bodyOffset = pos + len(separator)
				contentLength, chunked = inspectHead(buff[:pos])
				if chunked != nil && !head {
					chunked.feed(buff[bodyOffset:])
				}
			}
		} else if chunked != nil {
			chunked.feed(r.chunk[:n])
		}

		if bodyOffset != -1 {
			switch {
			case head:
				return buff[:bodyOffset], nil
			case chunked != nil:
				if chunked.err != nil {
					return nil, chunked.err
				}

				if chunked.done {
					return append(buff[:bodyOffset], chunked.body...), nil
				}
			case contentLength != -1 && len(buff) >= bodyOffset+contentLength:
				return buff[:bodyOffset+contentLength], nil
			}
		}

		switch {
		case errors.Is(err, io.EOF), err == nil && n == 0:
			return finish(buff, bodyOffset, contentLength, chunked)
		case err != nil:
			return nil, err
		}
	}
}

func finish(buff []byte, bodyOffset, contentLength int, chunked *dechunker) ([]byte, error) {
	switch {
	case len(buff) == 0:
		return nil, ErrNoResponse
	case bodyOffset == -1, chunked != nil, contentLength != -1:
		// the message is known to be complete by now if any of those could tell it
		return nil, ErrIncomplete
	default:
		return buff, nil
	}
}

// inspectHead scans the header block for the body framing. Content-Length is -1 if
// absent or malformed.
func inspectHead(head []byte) (contentLength int, chunked *dechunker) {
	contentLength = -1
	_, lines, _ := bytes.Cut(head, []byte("\n"))

	var isChunked, hasTrailer bool

	for len(lines) > 0 {
		var line []byte
		line, lines, _ = bytes.Cut(lines, []byte("\n"))
		key, value, found := strings.Cut(uf.B2S(rstripCR(line)), ":")
		if !found {
			continue
		}

		key, value = strings.TrimSpace(key), strings.TrimSpace(value)

		switch {
		case strcomp.EqualFold(key, headers.ContentLength):
			if contentLength != -1 {
				continue
			}

			if length, err := strconv.Atoi(value); err == nil && length >= 0 {
				contentLength = length
			}
		case strcomp.EqualFold(key, headers.TransferEncoding):
			isChunked = isChunked || hasToken(value, "chunked")
		case strcomp.EqualFold(key, headers.Trailer):
			hasTrailer = true
		}
	}

	if isChunked {
		return -1, newDechunker(hasTrailer)
	}

	return contentLength, nil
}

func hasToken(value, token string) bool {
	for _, t := range strings.Split(value, ",") {
		if strcomp.EqualFold(strings.TrimSpace(t), token) {
			return true
		}
	}

	return false
}

type dechunker struct {
	parser  *chunkedbody.Parser
	trailer bool
	body    []byte
	done    bool
	err     error
}

func newDechunker(trailer bool) *dechunker {
	return &dechunker{
		parser:  chunkedbody.NewParser(chunkedbody.DefaultSettings()),
		trailer: trailer,
	}
}

func (d *dechunker) feed(data []byte) {
	for len(data) > 0 && !d.done && d.err == nil {
		chunk, extra, err := d.parser.Parse(data, d.trailer)
		d.body = append(d.body, chunk...)

		switch err {
		case nil:
		case io.EOF:
			d.done = true
		default:
			d.err = err
		}

		if len(chunk) == 0 && len(extra) >= len(data) {
			// nothing was consumed, wait for more data
			return
		}

		data = extra
	}
}
