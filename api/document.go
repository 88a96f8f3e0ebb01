package api

import (
	"net/url"
	"strconv"

	"github.com/indigo-web/arango/client"
	"github.com/indigo-web/arango/http"
	"github.com/indigo-web/arango/http/method"
)

// DocumentMeta is what the server responds with on document modifications.
type DocumentMeta struct {
	ID     string `json:"_id"`
	Key    string `json:"_key"`
	Rev    string `json:"_rev"`
	OldRev string `json:"_oldRev,omitempty"`
}

type WriteOptions struct {
	WaitForSync bool
	ReturnNew   bool
	ReturnOld   bool
	// IfMatch makes the operation conditional on the current revision of the document.
	IfMatch string
}

func (w WriteOptions) query() *client.Query {
	query := client.NewQuery()
	if w.WaitForSync {
		query.WithValue("waitForSync", "true")
	}

	if w.ReturnNew {
		query.WithValue("returnNew", "true")
	}

	if w.ReturnOld {
		query.WithValue("returnOld", "true")
	}

	return query
}

func (w WriteOptions) apply(request *http.Request) *http.Request {
	if len(w.IfMatch) > 0 {
		request.Header("If-Match", strconv.Quote(w.IfMatch))
	}

	return request
}

const documentPath = "/_api/document/"

func documentHandle(collection, key string) string {
	return documentPath + url.PathEscape(collection) + "/" + url.PathEscape(key)
}

func InsertDocument(collection string, document any, opts WriteOptions) (*http.Request, error) {
	request := http.NewRequest(method.POST, documentPath+url.PathEscape(collection)+opts.query().Encode())
	return request.TryJSON(document)
}

func GetDocument(collection, key string) *http.Request {
	return http.NewRequest(method.GET, documentHandle(collection, key))
}

// HeadDocument fetches only the headers, e.g. the Etag carrying the current revision.
func HeadDocument(collection, key string) *http.Request {
	return http.NewRequest(method.HEAD, documentHandle(collection, key))
}

func ReplaceDocument(collection, key string, document any, opts WriteOptions) (*http.Request, error) {
	request := http.NewRequest(method.PUT, documentHandle(collection, key)+opts.query().Encode())
	return opts.apply(request).TryJSON(document)
}

func UpdateDocument(collection, key string, patch any, opts WriteOptions) (*http.Request, error) {
	request := http.NewRequest(method.PATCH, documentHandle(collection, key)+opts.query().Encode())
	return opts.apply(request).TryJSON(patch)
}

func RemoveDocument(collection, key string, opts WriteOptions) *http.Request {
	request := http.NewRequest(method.DELETE, documentHandle(collection, key)+opts.query().Encode())
	return opts.apply(request)
}
