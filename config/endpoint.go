package config

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	dberrors "github.com/indigo-web/arango/errors"
)

// Scheme is the kind of the socket an endpoint is reached over.
type Scheme string

const (
	TCP  Scheme = "tcp"
	SSL  Scheme = "ssl"
	Unix Scheme = "unix"
)

// Endpoint is a parsed connection target. Host and Port are empty for unix sockets, Path
// is empty otherwise.
type Endpoint struct {
	Scheme Scheme
	Host   string
	Port   int
	Path   string
}

// ParseEndpoint parses the endpoint URL. The http and https schemes are accepted as aliases
// of tcp and ssl respectively.
func ParseEndpoint(raw string) (Endpoint, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: bad endpoint %q: %s", dberrors.ErrConfiguration, raw, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "tcp", "http":
		return parseNetwork(TCP, u, raw)
	case "ssl", "https":
		return parseNetwork(SSL, u, raw)
	case "unix":
		path := u.Path
		if len(path) == 0 {
			// unix://relative.sock is parsed as host
			path = u.Host
		}

		if len(path) == 0 {
			return Endpoint{}, fmt.Errorf("%w: no socket path in %q", dberrors.ErrConfiguration, raw)
		}

		return Endpoint{Scheme: Unix, Path: path}, nil
	default:
		return Endpoint{}, fmt.Errorf("%w: unsupported endpoint scheme %q", dberrors.ErrConfiguration, u.Scheme)
	}
}

func parseNetwork(scheme Scheme, u *url.URL, raw string) (Endpoint, error) {
	host, port := u.Hostname(), u.Port()
	if len(host) == 0 {
		return Endpoint{}, fmt.Errorf("%w: no host in %q", dberrors.ErrConfiguration, raw)
	}

	if len(port) == 0 {
		return Endpoint{}, fmt.Errorf("%w: no port in %q", dberrors.ErrConfiguration, raw)
	}

	num, err := strconv.Atoi(port)
	if err != nil || num <= 0 || num > 65535 {
		return Endpoint{}, fmt.Errorf("%w: bad port in %q", dberrors.ErrConfiguration, raw)
	}

	return Endpoint{Scheme: scheme, Host: host, Port: num}, nil
}

// Network returns the network name as accepted by net.Dial.
func (e Endpoint) Network() string {
	if e.Scheme == Unix {
		return "unix"
	}

	return "tcp"
}

// Address returns the address as accepted by net.Dial.
func (e Endpoint) Address() string {
	if e.Scheme == Unix {
		return e.Path
	}

	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// HostHeader returns the value of the Host request header. It's empty for unix sockets.
func (e Endpoint) HostHeader() string {
	if e.Scheme == Unix {
		return ""
	}

	return e.Address()
}

func (e Endpoint) Secure() bool {
	return e.Scheme == SSL
}

func (e Endpoint) String() string {
	if e.Scheme == Unix {
		return "unix://" + e.Path
	}

	return string(e.Scheme) + "://" + e.Address()
}

// CipherSuites resolves the cipher names into their identifiers. Nil is returned for the
// empty list.
func (t TLS) CipherSuites() ([]uint16, error) {
	if len(strings.TrimSpace(t.Ciphers)) == 0 {
		return nil, nil
	}

	known := make(map[string]uint16)
	for _, suite := range tls.CipherSuites() {
		known[suite.Name] = suite.ID
	}

	for _, suite := range tls.InsecureCipherSuites() {
		known[suite.Name] = suite.ID
	}

	var ids []uint16

	for _, name := range strings.Split(t.Ciphers, ":") {
		name = strings.TrimSpace(name)
		if len(name) == 0 {
			continue
		}

		id, found := known[name]
		if !found {
			return nil, fmt.Errorf("%w: unknown cipher suite %q", dberrors.ErrConfiguration, name)
		}

		ids = append(ids, id)
	}

	return ids, nil
}
