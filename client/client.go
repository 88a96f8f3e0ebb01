// Package client is the entry point of the library: it binds requests to a database,
// delivers them and applies the default guard to every response.
package client

import (
	"io"
	"strings"

	"github.com/indigo-web/arango/batch"
	"github.com/indigo-web/arango/config"
	"github.com/indigo-web/arango/guard"
	"github.com/indigo-web/arango/http"
	"github.com/indigo-web/arango/transport"
	"github.com/sirupsen/logrus"
)

type Option func(*Client)

// WithDatabase scopes every request to the database. Empty name disables scoping.
func WithDatabase(name string) Option {
	return func(c *Client) {
		c.prefix = ""
		if len(name) > 0 {
			c.prefix = "/_db/" + name
		}
	}
}

// WithDefaultGuard sets the guard checking every single response, as well as the outer
// response of every batch. Nil disables it.
func WithDefaultGuard(g guard.Guard) Option {
	return func(c *Client) {
		c.guard = g
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) {
		c.log = logger
	}
}

// Client is bound to a single sender, therefore inherits its concurrency properties: the
// Client backed by a transport.Transport must not be used concurrently.
type Client struct {
	sender transport.Sender
	prefix string
	guard  guard.Guard
	log    logrus.FieldLogger
}

// New returns a client scoped to the _system database, refusing responses with non-2xx
// status codes.
func New(sender transport.Sender, opts ...Option) *Client {
	c := &Client{
		sender: sender,
		prefix: "/_db/_system",
		guard:  guard.Success(),
		log:    logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Dial creates a transport for the configuration and a client on top of it. Options are
// applied after the configured ones, so they may override the database or the logger.
func Dial(cfg *config.Config, opts ...Option) (*Client, error) {
	t, err := transport.New(cfg)
	if err != nil {
		return nil, err
	}

	opts = append([]Option{WithDatabase(cfg.Database), WithLogger(cfg.Logger)}, opts...)

	return New(t, opts...), nil
}

// Path prefixes the path with the database scope. Paths already scoped to some database
// are left intact.
func (c *Client) Path(path string) string {
	if strings.HasPrefix(path, "/_db/") {
		return path
	}

	return c.prefix + path
}

// Do sends the request with its path scoped to the database and checks the response with
// the default guard. The request itself isn't modified.
func (c *Client) Do(request *http.Request) (*http.Response, error) {
	if request == nil {
		return c.sender.Send(nil)
	}

	scoped := *request
	scoped.Path = c.Path(request.Path)

	response, err := c.sender.Send(&scoped)
	if err != nil {
		return nil, err
	}

	if c.guard != nil {
		if err = guard.Apply(c.guard, "", response); err != nil {
			c.log.WithError(err).WithField("path", scoped.Path).Debug("response refused")
			return nil, err
		}
	}

	return response, nil
}

// Batch sends the batch in a single request scoped to the database. The outer response is
// checked with the default guard, then decoded and validated with the guards of the batch,
// if there are any.
func (c *Client) Batch(b *batch.Batch) (*batch.Result, error) {
	response, err := c.Do(b.Request(""))
	if err != nil {
		return nil, err
	}

	result, err := b.Decode(response)
	if err != nil {
		c.log.WithError(err).Debug("malformed batch response")
		return nil, err
	}

	if len(b.Guards()) == 0 {
		return result, nil
	}

	if err = b.Validate(result); err != nil {
		c.log.WithError(err).Debug("batch part refused")
		return nil, err
	}

	return result, nil
}

// Close closes the sender, if it's closable.
func (c *Client) Close() error {
	if closer, ok := c.sender.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}
