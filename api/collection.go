// Package api builds requests to the documented REST endpoints of the server. Requests are
// built without the database scope: it's added by the client sending them.
package api

import (
	"net/url"

	"github.com/indigo-web/arango/client"
	"github.com/indigo-web/arango/http"
	"github.com/indigo-web/arango/http/method"
)

// CollectionType is either DocumentCollection or EdgeCollection.
type CollectionType int

const (
	DocumentCollection CollectionType = 2
	EdgeCollection     CollectionType = 3
)

type CollectionProperties struct {
	Name        string         `json:"name"`
	Type        CollectionType `json:"type,omitempty"`
	WaitForSync bool           `json:"waitForSync,omitempty"`
	IsSystem    bool           `json:"isSystem,omitempty"`
}

// Collection describes the collection as reported by the server.
type Collection struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Type     CollectionType `json:"type"`
	Status   int            `json:"status"`
	IsSystem bool           `json:"isSystem"`
}

const collectionPath = "/_api/collection"

func CreateCollection(props CollectionProperties) (*http.Request, error) {
	return http.NewRequest(method.POST, collectionPath).TryJSON(props)
}

func GetCollection(name string) *http.Request {
	return http.NewRequest(method.GET, collectionPath+"/"+url.PathEscape(name))
}

// DropCollection drops the collection. System collections can be dropped only if isSystem
// is set.
func DropCollection(name string, isSystem bool) *http.Request {
	query := client.NewQuery()
	if isSystem {
		query.WithValue("isSystem", "true")
	}

	return http.NewRequest(method.DELETE, collectionPath+"/"+url.PathEscape(name)+query.Encode())
}
