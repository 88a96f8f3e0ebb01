package http1

import (
	"strconv"

	"github.com/indigo-web/arango/http"
	"github.com/indigo-web/arango/http/headers"
	"github.com/indigo-web/arango/http/mime"
	"github.com/indigo-web/arango/http/proto"
	"github.com/indigo-web/arango/kv"
	"github.com/indigo-web/utils/strcomp"
)

const crlf = "\r\n"

// Serializer renders requests into their wire form. Every request is prepended by the
// common headers of the endpoint, which are rendered once at construction.
type Serializer struct {
	common []byte
	buff   []byte
}

// NewSerializer prepares the common headers block. Empty host (unix sockets) or empty
// authorization omit the corresponding header. Extra headers follow the Connection one.
func NewSerializer(host, authorization string, keepAlive bool, extra ...kv.Pair) *Serializer {
	s := &Serializer{}

	if len(host) > 0 {
		s.appendHeader(headers.Host, host)
	}

	if len(authorization) > 0 {
		s.appendHeader(headers.Authorization, authorization)
	}

	if keepAlive {
		s.appendHeader(headers.Connection, headers.KeepAlive)
	} else {
		s.appendHeader(headers.Connection, headers.Close)
	}

	for _, pair := range extra {
		s.appendHeader(pair.Key, pair.Value)
	}

	s.common, s.buff = s.buff, nil

	return s
}

// Serialize renders the request. The returned slice is valid until the next call.
//
// Connection and Content-Length headers of the request are dropped: the former is decided
// by the endpoint, the latter is always computed from the actual body length.
func (s *Serializer) Serialize(request *http.Request) []byte {
	s.buff = s.buff[:0]
	s.buff = append(s.buff, request.Method.String()...)
	s.buff = append(s.buff, ' ')
	s.buff = append(s.buff, request.Path...)
	s.buff = append(s.buff, ' ')
	s.buff = append(s.buff, proto.HTTP11.String()...)
	s.crlf()
	s.buff = append(s.buff, s.common...)

	var hasContentType bool

	for key, value := range request.Headers.Pairs() {
		switch {
		case strcomp.EqualFold(key, headers.Connection), strcomp.EqualFold(key, headers.ContentLength):
			continue
		case strcomp.EqualFold(key, headers.ContentType):
			hasContentType = true
		}

		s.appendHeader(key, value)
	}

	if !hasContentType {
		s.appendHeader(headers.ContentType, mime.JSON)
	}

	s.buff = append(s.buff, headers.ContentLength...)
	s.buff = append(s.buff, ": "...)
	s.buff = strconv.AppendInt(s.buff, int64(len(request.Body)), 10)
	s.crlf()
	s.crlf()
	s.buff = append(s.buff, request.Body...)

	return s.buff
}

func (s *Serializer) appendHeader(key, value string) {
	s.buff = append(s.buff, key...)
	s.buff = append(s.buff, ": "...)
	s.buff = append(s.buff, value...)
	s.crlf()
}

func (s *Serializer) crlf() {
	s.buff = append(s.buff, crlf...)
}
