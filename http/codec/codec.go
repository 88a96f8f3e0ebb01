// Package codec decodes compressed response bodies.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

var ErrUnknownCoding = errors.New("unknown content coding")

// Codec is a single content coding.
type Codec interface {
	// Token returns a coding token associated with the codec itself.
	Token() string
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// Identity is the coding of uncompressed data.
const Identity = "identity"

var codecs = []Codec{NewGZIP(), NewDeflate(), NewZSTD()}

// Lookup returns the codec by its token, matched case-insensitively.
func Lookup(token string) (Codec, bool) {
	token = strings.TrimSpace(token)
	for _, c := range codecs {
		if strings.EqualFold(c.Token(), token) {
			return c, true
		}
	}

	return nil, false
}

// Tokens returns tokens of all the codecs.
func Tokens() []string {
	tokens := make([]string, len(codecs))
	for i, c := range codecs {
		tokens[i] = c.Token()
	}

	return tokens
}

// DecodeBody reverts the codings listed in the Content-Encoding header value. Codings are
// listed in the order they were applied, so they're reverted from the last one.
func DecodeBody(contentEncoding string, body []byte) ([]byte, error) {
	tokens := strings.Split(contentEncoding, ",")

	for i := len(tokens) - 1; i >= 0; i-- {
		token := strings.TrimSpace(tokens[i])
		if len(token) == 0 || strings.EqualFold(token, Identity) {
			continue
		}

		c, found := Lookup(token)
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCoding, token)
		}

		var err error
		if body, err = c.Decode(body); err != nil {
			return nil, fmt.Errorf("%s: %w", c.Token(), err)
		}
	}

	return body, nil
}

type streamCodec struct {
	token     string
	newWriter func(io.Writer) (io.WriteCloser, error)
	newReader func(io.Reader) (io.ReadCloser, error)
}

func (s streamCodec) Token() string {
	return s.token
}

func (s streamCodec) Encode(data []byte) ([]byte, error) {
	buff := bytes.NewBuffer(nil)
	w, err := s.newWriter(buff)
	if err != nil {
		return nil, err
	}

	if _, err = w.Write(data); err != nil {
		return nil, err
	}

	if err = w.Close(); err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

func (s streamCodec) Decode(data []byte) ([]byte, error) {
	r, err := s.newReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	decoded, err := io.ReadAll(r)
	if closeErr := r.Close(); err == nil {
		err = closeErr
	}

	return decoded, err
}

func NewGZIP() Codec {
	return streamCodec{
		token: "gzip",
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return gzip.NewWriter(w), nil
		},
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			return gzip.NewReader(r)
		},
	}
}

// NewDeflate returns the deflate codec. As of HTTP, deflate means zlib-wrapped stream
// rather than the raw one.
func NewDeflate() Codec {
	return streamCodec{
		token: "deflate",
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return zlib.NewWriter(w), nil
		},
		newReader: zlib.NewReader,
	}
}

func NewZSTD() Codec {
	return streamCodec{
		token: "zstd",
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return zstd.NewWriter(w)
		},
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			decoder, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
			if err != nil {
				return nil, err
			}

			return decoder.IOReadCloser(), nil
		},
	}
}
