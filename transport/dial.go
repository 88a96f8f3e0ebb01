package transport

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"time"

	"github.com/indigo-web/arango/config"
)

// Dialer opens a plain connection. TLS, if required by the endpoint, is established over
// the returned connection.
type Dialer func(network, address string, timeout time.Duration) (net.Conn, error)

func dialNet(network, address string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout(network, address, timeout)
}

var errNoCertificates = errors.New("server presented no certificates")

// newTLSConfig maps the options onto crypto/tls. Whenever the verification differs from
// the standard one (peer name not verified, self-signed certificates allowed), it's done
// manually in VerifyPeerCertificate, as crypto/tls either verifies everything or nothing.
func newTLSConfig(endpoint config.Endpoint, opts config.TLS) (*tls.Config, error) {
	ciphers, err := opts.CipherSuites()
	if err != nil {
		return nil, err
	}

	cfg := &tls.Config{
		ServerName:   endpoint.Host,
		CipherSuites: ciphers,
	}

	switch {
	case !opts.VerifyPeer:
		cfg.InsecureSkipVerify = true
	case !opts.VerifyName || opts.AllowSelfSigned:
		cfg.InsecureSkipVerify = true
		cfg.VerifyPeerCertificate = verifyPeer(endpoint.Host, opts)
	}

	return cfg, nil
}

func verifyPeer(host string, opts config.TLS) func([][]byte, [][]*x509.Certificate) error {
	return func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
		if len(rawCerts) == 0 {
			return errNoCertificates
		}

		certs := make([]*x509.Certificate, len(rawCerts))
		for i, raw := range rawCerts {
			cert, err := x509.ParseCertificate(raw)
			if err != nil {
				return err
			}

			certs[i] = cert
		}

		leaf, verifyOpts := certs[0], x509.VerifyOptions{
			Intermediates: x509.NewCertPool(),
		}

		for _, cert := range certs[1:] {
			verifyOpts.Intermediates.AddCert(cert)
		}

		if opts.VerifyName {
			verifyOpts.DNSName = host
		}

		if opts.AllowSelfSigned && selfSigned(leaf) {
			verifyOpts.Roots = x509.NewCertPool()
			verifyOpts.Roots.AddCert(leaf)
		}

		_, err := leaf.Verify(verifyOpts)
		return err
	}
}

func selfSigned(cert *x509.Certificate) bool {
	return bytes.Equal(cert.RawIssuer, cert.RawSubject) &&
		cert.CheckSignature(cert.SignatureAlgorithm, cert.RawTBSCertificate, cert.Signature) == nil
}

// handshake establishes TLS over the plain connection within the timeout.
func handshake(c net.Conn, cfg *tls.Config, timeout time.Duration) (net.Conn, error) {
	tlsConn := tls.Client(c, cfg)
	if err := tlsConn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return nil, err
	}

	if err := tlsConn.Handshake(); err != nil {
		return nil, err
	}

	return tlsConn, tlsConn.SetDeadline(time.Time{})
}
