package config

import (
	"fmt"
	"strings"
	"time"

	dberrors "github.com/indigo-web/arango/errors"
	"github.com/indigo-web/arango/http/codec"
	"github.com/indigo-web/arango/http/headers"
	"github.com/indigo-web/utils/strcomp"
	"github.com/sirupsen/logrus"
)

// AuthBasic is the only supported authentication type.
const AuthBasic = "Basic"

type (
	NET struct {
		// Timeout bounds every socket operation: dialing, writing the request and each
		// single read of the response. Responses without Content-Length, whose connection
		// isn't closed by the server, are terminated exclusively by this timeout.
		Timeout time.Duration
		// Connection is either headers.KeepAlive or headers.Close. Kept-alive connections
		// are reused among requests, otherwise a new connection is opened for every request
		// and closed right after the response is received.
		Connection string
		// Reconnect permits opening a new connection, when a kept-alive one was found stale.
		// If disabled, a stale connection results in errors.ErrConnection.
		Reconnect bool
		// AcceptEncoding is a comma-separated list of content codings (gzip, deflate, zstd)
		// announced to the server. Compressed response bodies are decoded transparently.
		// Empty value disables compression altogether.
		AcceptEncoding string `test:"nullable"`
	}

	Auth struct {
		// Type must be AuthBasic.
		Type string
		// User enables the Authorization header, if not empty.
		User     string `test:"nullable"`
		Password string `test:"nullable"`
	}

	TLS struct {
		// VerifyPeer enables the certificate chain verification.
		VerifyPeer bool
		// VerifyName enables the certificate host name verification. Has no effect if
		// VerifyPeer is disabled.
		VerifyName bool
		// AllowSelfSigned accepts self-signed leaf certificates even if they aren't trusted
		// by the system pool.
		AllowSelfSigned bool `test:"nullable"`
		// Ciphers is a colon-separated list of cipher suite names as reported by
		// crypto/tls (the IANA names). Empty value leaves Go defaults.
		Ciphers string `test:"nullable"`
	}
)

// Config holds settings of a single database endpoint.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	// Endpoint is an URL of the server. Supported schemes are tcp (alias http), ssl (alias
	// https) and unix, e.g. tcp://127.0.0.1:8529 or unix:///tmp/arangodb.sock.
	Endpoint string
	// Database is used to prefix request paths with /_db/<Database>. Empty value disables
	// prefixing.
	Database string
	NET      NET
	Auth     Auth
	TLS      TLS
	Logger   logrus.FieldLogger
}

// Default returns default config.
func Default() *Config {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	return &Config{
		Endpoint: "tcp://127.0.0.1:8529",
		Database: "_system",
		NET: NET{
			Timeout:    30 * time.Second,
			Connection: headers.KeepAlive,
			Reconnect:  true,
		},
		Auth: Auth{
			Type: AuthBasic,
		},
		TLS: TLS{
			VerifyPeer: true,
			VerifyName: true,
		},
		Logger: logger,
	}
}

// Validate checks every option and returns the parsed endpoint. All the faults are
// errors.ErrConfiguration.
func (c *Config) Validate() (Endpoint, error) {
	endpoint, err := ParseEndpoint(c.Endpoint)
	if err != nil {
		return Endpoint{}, err
	}

	if c.NET.Timeout <= 0 {
		return Endpoint{}, fmt.Errorf("%w: timeout must be positive, got %s", dberrors.ErrConfiguration, c.NET.Timeout)
	}

	if !strcomp.EqualFold(c.NET.Connection, headers.KeepAlive) && !strcomp.EqualFold(c.NET.Connection, headers.Close) {
		return Endpoint{}, fmt.Errorf(
			"%w: unsupported connection type %q", dberrors.ErrConfiguration, c.NET.Connection,
		)
	}

	if !strcomp.EqualFold(c.Auth.Type, AuthBasic) {
		return Endpoint{}, fmt.Errorf("%w: unsupported auth type %q", dberrors.ErrConfiguration, c.Auth.Type)
	}

	if strings.ContainsAny(c.Database, "/?# ") {
		return Endpoint{}, fmt.Errorf("%w: bad database name %q", dberrors.ErrConfiguration, c.Database)
	}

	if _, err = c.NET.Codings(); err != nil {
		return Endpoint{}, err
	}

	if _, err = c.TLS.CipherSuites(); err != nil {
		return Endpoint{}, err
	}

	return endpoint, nil
}

// KeepAlive reports whether connections must be reused.
func (c *Config) KeepAlive() bool {
	return strcomp.EqualFold(c.NET.Connection, headers.KeepAlive)
}

// Codings returns the normalized content coding tokens listed in AcceptEncoding.
func (n NET) Codings() ([]string, error) {
	if len(strings.TrimSpace(n.AcceptEncoding)) == 0 {
		return nil, nil
	}

	var tokens []string
	for _, token := range strings.Split(n.AcceptEncoding, ",") {
		if len(strings.TrimSpace(token)) == 0 {
			continue
		}

		c, found := codec.Lookup(token)
		if !found {
			return nil, fmt.Errorf("%w: unsupported content coding %q", dberrors.ErrConfiguration, strings.TrimSpace(token))
		}

		tokens = append(tokens, c.Token())
	}

	return tokens, nil
}

// PathPrefix returns the database-scoped prefix of every request path.
func (c *Config) PathPrefix() string {
	if len(c.Database) == 0 {
		return ""
	}

	return "/_db/" + c.Database
}
