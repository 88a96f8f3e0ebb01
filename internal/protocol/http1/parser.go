package http1

import (
	"bytes"
	"strings"

	"github.com/indigo-web/arango/http"
	"github.com/indigo-web/arango/http/proto"
	"github.com/indigo-web/arango/http/status"
	"github.com/indigo-web/arango/kv"
	"github.com/indigo-web/utils/uf"
)

var (
	separator     = []byte("\r\n\r\n")
	bareSeparator = []byte("\n\n")
)

// Split cuts the message at the first blank line. The body includes everything after it,
// further blank lines as well. If there's no blank line, the whole message is the head.
func Split(raw []byte) (head, body []byte) {
	if pos := bytes.Index(raw, separator); pos != -1 {
		return raw[:pos], raw[pos+len(separator):]
	}

	if pos := bytes.Index(raw, bareSeparator); pos != -1 {
		return raw[:pos], raw[pos+len(bareSeparator):]
	}

	return raw, nil
}

// Parse parses a single framed response message: a start line, header lines and a body.
// It never fails. A missing or malformed start line results in status.Unparseable, header
// lines without a name are skipped.
func Parse(raw []byte) *http.Response {
	response := http.NewResponse()
	head, body := Split(raw)
	response.Body = body

	startLine, rest, _ := bytes.Cut(head, []byte("\n"))
	parseStartLine(response, uf.B2S(rstripCR(startLine)))
	parseHeaderLines(response.Headers, rest)

	return response
}

// ParseHeaders is the same as Parse, except the message has no start line. This is how
// the parts of a multipart body are framed.
func ParseHeaders(raw []byte) (headers *kv.Storage, body []byte) {
	head, body := Split(raw)
	headers = kv.New()
	parseHeaderLines(headers, head)

	return headers, body
}

func parseStartLine(response *http.Response, line string) {
	// the reason phrase may contain spaces itself, so there are at most 3 fields
	fields := strings.SplitN(line, " ", 3)
	if len(fields) < 2 {
		return
	}

	response.Protocol = proto.FromString(fields[0])
	if response.Protocol == proto.Unknown {
		return
	}

	response.Code = status.FromString(fields[1])
	if len(fields) == 3 {
		response.Status = status.Status(strings.Clone(fields[2]))
	}
}

func parseHeaderLines(headers *kv.Storage, data []byte) {
	for len(data) > 0 {
		var line []byte
		line, data, _ = bytes.Cut(data, []byte("\n"))

		key, value, found := strings.Cut(uf.B2S(rstripCR(line)), ":")
		if !found {
			continue
		}

		key = strings.TrimSpace(key)
		if len(key) == 0 {
			continue
		}

		headers.Add(strings.Clone(key), strings.Clone(strings.TrimSpace(value)))
	}
}

func rstripCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		b = b[:len(b)-1]
	}

	return b
}
