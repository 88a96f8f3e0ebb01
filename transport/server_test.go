package transport

import (
	"bufio"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"io"
	"math/big"
	"net"
	nethttp "net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// handler returns the raw response to be written back. Empty response means not to respond
// at all, closeAfter makes the server close the connection right after responding, without
// announcing it.
type handler func(req *nethttp.Request, body []byte) (response string, closeAfter bool)

type testServer struct {
	l     net.Listener
	conns atomic.Int32
	mu     sync.Mutex
	reqs   []*nethttp.Request
	bodies [][]byte
}

func respond(raw string) handler {
	return func(*nethttp.Request, []byte) (string, bool) {
		return raw, false
	}
}

func serve(t *testing.T, l net.Listener, h handler) *testServer {
	srv := &testServer{l: l}
	t.Cleanup(func() {
		_ = l.Close()
	})

	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}

			srv.conns.Add(1)
			go srv.handle(conn, h)
		}
	}()

	return srv
}

func (s *testServer) handle(conn net.Conn, h handler) {
	defer conn.Close()
	reader := bufio.NewReader(conn)

	for {
		req, err := nethttp.ReadRequest(reader)
		if err != nil {
			return
		}

		body, err := io.ReadAll(req.Body)
		if err != nil {
			return
		}

		s.mu.Lock()
		s.reqs = append(s.reqs, req)
		s.bodies = append(s.bodies, body)
		s.mu.Unlock()

		response, closeAfter := h(req, body)
		if len(response) > 0 {
			if _, err = conn.Write([]byte(response)); err != nil {
				return
			}
		}

		if closeAfter {
			return
		}
	}
}

func (s *testServer) Requests() []*nethttp.Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*nethttp.Request(nil), s.reqs...)
}

func (s *testServer) Bodies() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([][]byte(nil), s.bodies...)
}

func (s *testServer) Addr() string {
	return s.l.Addr().String()
}

func listenTCP(t *testing.T) net.Listener {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return l
}

// selfSignedCert generates a fresh self-signed certificate, valid for the passed names
// and addresses only.
func selfSignedCert(t *testing.T, names []string, ips ...net.IP) tls.Certificate {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	notBefore := time.Now().Add(-time.Minute)
	template := x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{Organization: []string{"Arango test"}},
		NotBefore:             notBefore,
		NotAfter:              notBefore.Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		DNSNames:              names,
		IPAddresses:           ips,
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	require.NoError(t, err)

	return tls.Certificate{
		Certificate: [][]byte{certDER},
		PrivateKey:  priv,
	}
}
