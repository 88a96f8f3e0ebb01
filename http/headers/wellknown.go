package headers

// Header names the client writes or inspects by itself. Header names are matched
// case-insensitively whenever the client looks them up.
const (
	Host             = "Host"
	Authorization    = "Authorization"
	Connection       = "Connection"
	ContentLength    = "Content-Length"
	ContentType      = "Content-Type"
	TransferEncoding = "Transfer-Encoding"
	Trailer          = "Trailer"
	ContentID        = "Content-Id"
	AcceptEncoding   = "Accept-Encoding"
	ContentEncoding  = "Content-Encoding"
	// Boundary carries the multipart boundary token of batch requests. This is a convention
	// of the database server, the token isn't passed as a Content-Type parameter.
	Boundary = "boundary"
)

// Values of the Connection header.
const (
	KeepAlive = "Keep-Alive"
	Close     = "Close"
)
