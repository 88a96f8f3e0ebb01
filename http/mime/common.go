package mime

type MIME = string

const (
	Plain       MIME = "text/plain"
	JSON        MIME = "application/json"
	OctetStream MIME = "application/octet-stream"
	// Multipart is the Content-Type of batch requests and responses. The server compares
	// it literally, so no parameters are attached.
	Multipart MIME = "multipart/form-data"
	// BatchPart is the Content-Type of every single part of a batch.
	BatchPart MIME = "application/x-arango-batchpart"
)
