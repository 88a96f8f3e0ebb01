package transport

import (
	"crypto/tls"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/indigo-web/arango/config"
	dberrors "github.com/indigo-web/arango/errors"
	"github.com/indigo-web/arango/http"
	"github.com/indigo-web/arango/http/codec"
	"github.com/indigo-web/arango/http/headers"
	"github.com/indigo-web/arango/http/method"
	"github.com/indigo-web/arango/http/status"
	"github.com/indigo-web/arango/internal/protocol/http1"
	"github.com/indigo-web/arango/kv"
	"github.com/indigo-web/utils/strcomp"
	"github.com/sirupsen/logrus"
)

var (
	// ErrStale is the cause of errors.ErrConnection, when a kept-alive connection was closed
	// by the peer and reconnecting isn't permitted.
	ErrStale = errors.New("kept-alive connection was closed by the peer")
	// ErrUnparseable is the cause of errors.ErrTransport, when the response start line
	// can't be recognized.
	ErrUnparseable = errors.New("unparseable response status line")
	ErrNilRequest  = errors.New("nil request")
)

// Sender is anything capable of delivering a request and returning its response.
type Sender interface {
	Send(request *http.Request) (*http.Response, error)
}

type Option func(*Transport)

// WithDialer replaces the dialer used to open plain connections.
func WithDialer(dialer Dialer) Option {
	return func(t *Transport) {
		t.dial = dialer
	}
}

var _ Sender = new(Transport)

// Transport owns a single connection to the endpoint. The connection is opened lazily on
// the first request and reopened whenever the kept-alive one is found stale (if permitted.)
// Exactly one request is in flight at a time: the protocol isn't pipelined. The Transport
// is not safe for concurrent use; use separate instances instead.
type Transport struct {
	cfg        *config.Config
	endpoint   config.Endpoint
	tls        *tls.Config
	dial       Dialer
	serializer *http1.Serializer
	log        logrus.FieldLogger
	conn       *conn
	reader     *http1.Reader
}

// New validates the configuration and returns a transport without opening any connection
// yet. All the faults are errors.ErrConfiguration.
func New(cfg *config.Config, opts ...Option) (*Transport, error) {
	endpoint, err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	t := &Transport{
		cfg:      cfg,
		endpoint: endpoint,
		dial:     dialNet,
		log:      cfg.Logger,
	}

	if t.log == nil {
		t.log = logrus.StandardLogger()
	}

	t.log = t.log.WithField("endpoint", endpoint.String())

	if endpoint.Secure() {
		if t.tls, err = newTLSConfig(endpoint, cfg.TLS); err != nil {
			return nil, err
		}
	}

	var authorization string
	if len(cfg.Auth.User) > 0 {
		credentials := cfg.Auth.User + ":" + cfg.Auth.Password
		authorization = config.AuthBasic + " " + base64.StdEncoding.EncodeToString([]byte(credentials))
	}

	var extra []kv.Pair
	if codings, _ := cfg.NET.Codings(); len(codings) > 0 {
		extra = append(extra, kv.Pair{Key: headers.AcceptEncoding, Value: strings.Join(codings, ", ")})
	}

	t.serializer = http1.NewSerializer(endpoint.HostHeader(), authorization, cfg.KeepAlive(), extra...)

	for _, opt := range opts {
		opt(t)
	}

	return t, nil
}

// Endpoint returns the parsed endpoint the transport is bound to.
func (t *Transport) Endpoint() config.Endpoint {
	return t.endpoint
}

// Send delivers the request and returns its response. Faults are *errors.RequestError of
// kind errors.ErrConnection, errors.ErrTimeout or errors.ErrTransport. After any fault the
// connection is closed, so the next request starts over with a new one.
func (t *Transport) Send(request *http.Request) (*http.Response, error) {
	if request == nil {
		return nil, dberrors.NewRequestError(dberrors.ErrTransport, nil, ErrNilRequest)
	}

	log := t.log.WithFields(logrus.Fields{
		"method": request.Method.String(),
		"path":   request.Path,
	})

	if err := t.connect(request, log); err != nil {
		return nil, err
	}

	wire := t.serializer.Serialize(request)
	if _, err := t.conn.Write(wire); err != nil {
		return nil, t.fault(request, log, err)
	}

	log.WithField("bytes", len(wire)).Debug("request sent")

	raw, err := t.reader.Read(request.Method == method.HEAD)
	if err != nil {
		return nil, t.fault(request, log, err)
	}

	response := http1.Parse(raw)
	if response.Code == status.Unparseable {
		return nil, t.fault(request, log, ErrUnparseable)
	}

	log.WithFields(logrus.Fields{
		"bytes":  len(raw),
		"status": int(response.Code),
	}).Debug("response received")

	if encoding, found := response.Headers.Lookup(headers.ContentEncoding); found && len(response.Body) > 0 {
		body, err := codec.DecodeBody(encoding, response.Body)
		if err != nil {
			return nil, t.fault(request, log, err)
		}

		log.WithFields(logrus.Fields{
			"encoding": encoding,
			"bytes":    len(body),
		}).Debug("response body decoded")

		response.Body = body
		response.Headers.DeleteFold(headers.ContentEncoding).DeleteFold(headers.ContentLength)
	}

	if !t.cfg.KeepAlive() || strcomp.EqualFold(response.Header(headers.Connection), headers.Close) {
		t.disconnect(log)
	}

	return response, nil
}

// Close closes the connection, if any. The transport remains usable: the next request
// opens a new connection.
func (t *Transport) Close() error {
	if t.conn == nil {
		return nil
	}

	err := t.conn.Close()
	t.conn, t.reader = nil, nil
	t.log.Debug("connection closed")

	return err
}

func (t *Transport) connect(request *http.Request, log logrus.FieldLogger) error {
	if t.conn != nil {
		if !t.conn.Stale() {
			return nil
		}

		log.Debug("kept-alive connection is stale")
		t.disconnect(log)

		if !t.cfg.NET.Reconnect {
			return dberrors.NewRequestError(dberrors.ErrConnection, request, ErrStale)
		}

		log.Debug("reconnecting")
	}

	timeout := t.cfg.NET.Timeout
	c, err := t.dial(t.endpoint.Network(), t.endpoint.Address(), timeout)
	if err != nil {
		log.WithError(err).Debug("cannot connect")
		return dberrors.NewRequestError(dberrors.ErrConnection, request, err)
	}

	if t.tls != nil {
		tlsConn, err := handshake(c, t.tls, timeout)
		if err != nil {
			_ = c.Close()
			log.WithError(err).Debug("TLS handshake failed")
			return dberrors.NewRequestError(dberrors.ErrConnection, request, err)
		}

		c = tlsConn
	}

	t.conn = newConn(c, timeout)
	t.reader = http1.NewReader(t.conn)
	log.Debug("connected")

	return nil
}

func (t *Transport) disconnect(log logrus.FieldLogger) {
	if t.conn == nil {
		return
	}

	if err := t.conn.Close(); err != nil {
		log.WithError(err).Debug("closing connection")
	}

	t.conn, t.reader = nil, nil
}

func (t *Transport) fault(request *http.Request, log logrus.FieldLogger, err error) error {
	t.disconnect(log)

	kind := dberrors.ErrTransport
	switch {
	case isTimeout(err):
		kind = dberrors.ErrTimeout
	case errors.Is(err, http1.ErrNoResponse):
		// the peer went away in between the probe and the request
		kind = dberrors.ErrConnection
	}

	log.WithError(err).Debug("request failed")

	return dberrors.NewRequestError(kind, request, err)
}
