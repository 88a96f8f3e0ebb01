package status

type (
	Code   uint16
	Status string
)

// Status codes the database server answers with. Any other code received from the wire is
// still representable as Code, it just lacks a Text.
const (
	Unparseable Code = 0

	Continue Code = 100 // RFC 9110, 15.2.1

	OK          Code = 200 // RFC 9110, 15.3.1
	Created     Code = 201 // RFC 9110, 15.3.2
	Accepted    Code = 202 // RFC 9110, 15.3.3
	NoContent   Code = 204 // RFC 9110, 15.3.5
	NotModified Code = 304 // RFC 9110, 15.4.5

	BadRequest            Code = 400 // RFC 9110, 15.5.1
	Unauthorized          Code = 401 // RFC 9110, 15.5.2
	Forbidden             Code = 403 // RFC 9110, 15.5.4
	NotFound              Code = 404 // RFC 9110, 15.5.5
	MethodNotAllowed      Code = 405 // RFC 9110, 15.5.6
	NotAcceptable         Code = 406 // RFC 9110, 15.5.7
	RequestTimeout        Code = 408 // RFC 9110, 15.5.9
	Conflict              Code = 409 // RFC 9110, 15.5.10
	LengthRequired        Code = 411 // RFC 9110, 15.5.12
	PreconditionFailed    Code = 412 // RFC 9110, 15.5.13
	RequestEntityTooLarge Code = 413 // RFC 9110, 15.5.14
	UnsupportedMediaType  Code = 415 // RFC 9110, 15.5.16
	UnprocessableEntity   Code = 422 // RFC 9110, 15.5.21

	InternalServerError Code = 500 // RFC 9110, 15.6.1
	NotImplemented      Code = 501 // RFC 9110, 15.6.2
	ServiceUnavailable  Code = 503 // RFC 9110, 15.6.4
	GatewayTimeout      Code = 504 // RFC 9110, 15.6.5
)

// Text returns a text for the HTTP status code. It returns the empty
// string if the code is unknown.
func Text(code Code) Status {
	switch code {
	case Continue:
		return "Continue"
	case OK:
		return "OK"
	case Created:
		return "Created"
	case Accepted:
		return "Accepted"
	case NoContent:
		return "No Content"
	case NotModified:
		return "Not Modified"
	case BadRequest:
		return "Bad Request"
	case Unauthorized:
		return "Unauthorized"
	case Forbidden:
		return "Forbidden"
	case NotFound:
		return "Not Found"
	case MethodNotAllowed:
		return "Method Not Allowed"
	case NotAcceptable:
		return "Not Acceptable"
	case RequestTimeout:
		return "Request Timeout"
	case Conflict:
		return "Conflict"
	case LengthRequired:
		return "Length Required"
	case PreconditionFailed:
		return "Precondition Failed"
	case RequestEntityTooLarge:
		return "Request Entity Too Large"
	case UnsupportedMediaType:
		return "Unsupported Media Type"
	case UnprocessableEntity:
		return "Unprocessable Entity"
	case InternalServerError:
		return "Internal Server Error"
	case NotImplemented:
		return "Not Implemented"
	case ServiceUnavailable:
		return "Service Unavailable"
	case GatewayTimeout:
		return "Gateway Timeout"
	default:
		return ""
	}
}

// FromString parses a three-digit status code token. Anything else results in Unparseable.
func FromString(token string) Code {
	if len(token) != 3 {
		return Unparseable
	}

	var code Code
	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return Unparseable
		}

		code = code*10 + Code(token[i]-'0')
	}

	if code < 100 {
		return Unparseable
	}

	return code
}

// IsSuccess reports whether the code belongs to the 2xx class.
func (c Code) IsSuccess() bool {
	return c >= 200 && c < 300
}

// IsClientError reports whether the code belongs to the 4xx class.
func (c Code) IsClientError() bool {
	return c >= 400 && c < 500
}

// IsServerError reports whether the code belongs to the 5xx class.
func (c Code) IsServerError() bool {
	return c >= 500 && c < 600
}
