package dummy

import (
	"io"
	"net"
	"os"
	"time"
)

var _ net.Conn = new(Conn)

// Conn is a scripted connection. Every read returns at most one piece of the data it was
// initialised with (less, if the buffer passed is shorter), and once the data is drained,
// either io.EOF or a timeout error is returned. It tracks all the written data and how many
// reads were issued, making it thereby suitable for testing framing precisely.
type Conn struct {
	data     [][]byte
	pending  []byte
	drainErr error
	nop      bool
	closed   bool
	// Written accumulates all the data written into the connection.
	Written []byte
	// Reads counts all the Read calls.
	Reads int
	// Drained counts the Read calls made after all the data was already returned.
	Drained int
}

func NewConn(data ...[]byte) *Conn {
	return &Conn{
		data:     data,
		drainErr: io.EOF,
	}
}

// Chunked splits the data in pieces of at most size bytes each.
func Chunked(data []byte, size int) [][]byte {
	var chunks [][]byte
	for len(data) > size {
		chunks = append(chunks, data[:size])
		data = data[size:]
	}

	return append(chunks, data)
}

// TimeoutOnDrain makes the connection behave like a peer, which keeps the socket open but
// sends nothing more: once drained, reads fail with a timeout.
func (c *Conn) TimeoutOnDrain() *Conn {
	c.drainErr = os.ErrDeadlineExceeded
	return c
}

// Nop disables journaling of the written data.
func (c *Conn) Nop() *Conn {
	c.nop = true
	return c
}

// Remaining returns all the data that wasn't read yet.
func (c *Conn) Remaining() []byte {
	remaining := append([]byte(nil), c.pending...)
	for _, piece := range c.data {
		remaining = append(remaining, piece...)
	}

	return remaining
}

func (c *Conn) Read(b []byte) (n int, err error) {
	c.Reads++

	if c.closed {
		return 0, net.ErrClosed
	}

	for len(c.pending) == 0 {
		if len(c.data) == 0 {
			c.Drained++
			return 0, c.drainErr
		}

		c.pending, c.data = c.data[0], c.data[1:]
	}

	n = copy(b, c.pending)
	c.pending = c.pending[n:]

	return n, nil
}

func (c *Conn) Write(b []byte) (n int, err error) {
	if c.closed {
		return 0, net.ErrClosed
	}

	if !c.nop {
		c.Written = append(c.Written, b...)
	}

	return len(b), nil
}

func (c *Conn) Close() error {
	c.closed = true
	return nil
}

// Closed reports whether Close was called.
func (c *Conn) Closed() bool {
	return c.closed
}

func (c *Conn) LocalAddr() net.Addr {
	return nil
}

func (c *Conn) RemoteAddr() net.Addr {
	return nil
}

func (c *Conn) SetDeadline(time.Time) error {
	return nil
}

func (c *Conn) SetReadDeadline(time.Time) error {
	return nil
}

func (c *Conn) SetWriteDeadline(time.Time) error {
	return nil
}
