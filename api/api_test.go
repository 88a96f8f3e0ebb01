package api

import (
	"errors"
	"fmt"
	"testing"

	dberrors "github.com/indigo-web/arango/errors"
	"github.com/indigo-web/arango/http"
	"github.com/indigo-web/arango/http/method"
	"github.com/indigo-web/arango/internal/protocol/http1"
	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
)

func TestCollection(t *testing.T) {
	req, err := CreateCollection(CollectionProperties{Name: "users", Type: EdgeCollection})
	require.NoError(t, err)
	require.Equal(t, method.POST, req.Method)
	require.Equal(t, "/_api/collection", req.Path)
	require.JSONEq(t, `{"name":"users","type":3}`, string(req.Body))
	require.Equal(t, "application/json", req.Headers.Value("Content-Type"))

	require.Equal(t, "/_api/collection/us%2Fers", GetCollection("us/ers").Path)
	require.Equal(t, "/_api/collection/_graphs?isSystem=true", DropCollection("_graphs", true).Path)
	require.Equal(t, method.DELETE, DropCollection("users", false).Method)
	require.Equal(t, "/_api/collection/users", DropCollection("users", false).Path)
}

func TestDocument(t *testing.T) {
	t.Run("insert", func(t *testing.T) {
		req, err := InsertDocument("users", map[string]int{"id": 1}, WriteOptions{WaitForSync: true, ReturnNew: true})
		require.NoError(t, err)
		require.Equal(t, method.POST, req.Method)
		require.Equal(t, "/_api/document/users?waitForSync=true&returnNew=true", req.Path)
		require.JSONEq(t, `{"id":1}`, string(req.Body))
	})

	t.Run("read", func(t *testing.T) {
		require.Equal(t, "/_api/document/users/1", GetDocument("users", "1").Path)
		head := HeadDocument("users", "1")
		require.Equal(t, method.HEAD, head.Method)
		require.Empty(t, head.Body)
	})

	t.Run("conditional writes", func(t *testing.T) {
		req, err := ReplaceDocument("users", "1", map[string]int{"id": 2}, WriteOptions{IfMatch: "_abc", ReturnOld: true})
		require.NoError(t, err)
		require.Equal(t, method.PUT, req.Method)
		require.Equal(t, "/_api/document/users/1?returnOld=true", req.Path)
		require.Equal(t, `"_abc"`, req.Headers.Value("If-Match"))

		req, err = UpdateDocument("users", "1", map[string]int{"id": 3}, WriteOptions{})
		require.NoError(t, err)
		require.Equal(t, method.PATCH, req.Method)

		remove := RemoveDocument("users", "1", WriteOptions{IfMatch: "_abc"})
		require.Equal(t, method.DELETE, remove.Method)
		require.Equal(t, `"_abc"`, remove.Headers.Value("If-Match"))
	})
}

type pagedDoer struct {
	pages    []string
	requests []*http.Request
	failAt   int
}

func (p *pagedDoer) Do(request *http.Request) (*http.Response, error) {
	p.requests = append(p.requests, request)
	n := len(p.requests) - 1
	if p.failAt > 0 && n == p.failAt {
		return nil, dberrors.NewRequestError(dberrors.ErrTimeout, request, errors.New("i/o timeout"))
	}

	var body string
	switch request.Method {
	case method.POST:
		body = p.pages[0]
	case method.PUT:
		var i int
		_, _ = fmt.Sscanf(request.Path, "/_api/cursor/c%d", &i)
		body = p.pages[i]
	}

	return http1.Parse([]byte(fmt.Sprintf(
		"HTTP/1.1 201 Created\r\nContent-Type: application/json\r\nContent-Length: %d\r\n\r\n%s", len(body), body,
	))), nil
}

func threePages() *pagedDoer {
	return &pagedDoer{pages: []string{
		`{"result":[{"n":1},{"n":2}],"hasMore":true,"id":"c1","count":5}`,
		`{"result":[],"hasMore":true,"id":"c2"}`,
		`{"result":[{"n":3},{"n":4},{"n":5}],"hasMore":false,"id":"c2"}`,
	}}
}

func TestCursor(t *testing.T) {
	collect := func(t *testing.T, c *Cursor) (got []int) {
		for _, row := range c.Rows() {
			var doc struct{ N int }
			require.NoError(t, json.Unmarshal(row, &doc))
			got = append(got, doc.N)
		}

		require.NoError(t, c.Err())
		return got
	}

	t.Run("pages are fetched lazily", func(t *testing.T) {
		doer := threePages()
		c := NewCursor(doer, Query{Query: "FOR u IN users RETURN u", BatchSize: 2, Count: true})
		require.Empty(t, doer.requests)

		require.True(t, c.Next())
		var doc struct{ N int }
		require.NoError(t, c.Decode(&doc))
		require.Equal(t, 1, doc.N)
		require.Equal(t, 5, c.Count())
		require.Len(t, doer.requests, 1)
		require.JSONEq(t, `{"query":"FOR u IN users RETURN u","batchSize":2,"count":true}`, string(doer.requests[0].Body))

		require.Equal(t, []int{2, 3, 4, 5}, collect(t, c))
		require.Len(t, doer.requests, 3)
		require.Equal(t, "/_api/cursor/c1", doer.requests[1].Path)
		require.Equal(t, "/_api/cursor/c2", doer.requests[2].Path)
		require.False(t, c.Next())
		require.Nil(t, c.Row())
	})

	t.Run("reset re-issues the query", func(t *testing.T) {
		doer := threePages()
		c := NewCursor(doer, Query{Query: "FOR u IN users RETURN u"})
		require.Equal(t, []int{1, 2, 3, 4, 5}, collect(t, c))

		c.Reset()
		require.Len(t, doer.requests, 3)
		require.Equal(t, []int{1, 2, 3, 4, 5}, collect(t, c))
		require.Len(t, doer.requests, 6)
		require.Equal(t, method.POST, doer.requests[3].Method)
	})

	t.Run("faults stop the sequence", func(t *testing.T) {
		doer := threePages()
		doer.failAt = 1
		c := NewCursor(doer, Query{Query: "FOR u IN users RETURN u"})

		var n int
		for range c.Rows() {
			n++
		}

		require.Equal(t, 2, n)
		require.ErrorIs(t, c.Err(), dberrors.ErrTimeout)
		require.False(t, c.Next())
	})

	t.Run("refused response", func(t *testing.T) {
		c := NewCursor(doerFunc(func(*http.Request) (*http.Response, error) {
			return http1.Parse([]byte("HTTP/1.1 400 Bad Request\r\nContent-Length: 0\r\n\r\n")), nil
		}), Query{Query: "RETURN"})

		require.False(t, c.Next())
		require.ErrorIs(t, c.Err(), dberrors.ErrValidation)
	})

	t.Run("decode without a row", func(t *testing.T) {
		require.Error(t, NewCursor(threePages(), Query{}).Decode(new(any)))
	})
}

type doerFunc func(*http.Request) (*http.Response, error)

func (d doerFunc) Do(request *http.Request) (*http.Response, error) {
	return d(request)
}
