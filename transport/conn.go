package transport

import (
	"errors"
	"net"
	"os"
	"time"
)

// probeTimeout is how long a kept-alive connection is listened to before reusing it.
const probeTimeout = time.Millisecond

// conn bounds every read and write with the timeout. Timeouts are applied per operation,
// so a slowly, yet steadily responding server never times out.
type conn struct {
	net.Conn
	timeout time.Duration
	probe   [1]byte
}

func newConn(c net.Conn, timeout time.Duration) *conn {
	return &conn{
		Conn:    c,
		timeout: timeout,
	}
}

func (c *conn) Read(b []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}

	return c.Conn.Read(b)
}

func (c *conn) Write(b []byte) (int, error) {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}

	return c.Conn.Write(b)
}

// Stale reports whether the connection must not be reused anymore. This is the case when
// the peer closed it, or sent something nobody asked for.
func (c *conn) Stale() bool {
	if err := c.Conn.SetReadDeadline(time.Now().Add(probeTimeout)); err != nil {
		return true
	}

	n, err := c.Conn.Read(c.probe[:])
	switch {
	case n > 0:
		return true
	case err == nil:
		return false
	default:
		return !isTimeout(err)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
