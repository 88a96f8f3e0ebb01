package http

import (
	"testing"

	"github.com/indigo-web/arango/http/method"
	"github.com/indigo-web/arango/http/mime"
	"github.com/stretchr/testify/require"
)

func TestRequest(t *testing.T) {
	t.Run("headers accumulate", func(t *testing.T) {
		req := NewRequest(method.GET, "/_api/version").
			Header("Accept", "application/json").
			Header("Accept", "text/plain", "*/*")

		require.Equal(t, []string{"application/json", "text/plain", "*/*"}, req.Headers.Values("Accept"))
	})

	t.Run("content type replaces regardless of case", func(t *testing.T) {
		req := NewRequest(method.POST, "/").
			Header("content-type", mime.Plain).
			ContentType(mime.JSON)

		require.Equal(t, map[string][]string{"Content-Type": {mime.JSON}}, req.Headers.Map())
	})

	t.Run("json", func(t *testing.T) {
		req, err := NewRequest(method.POST, "/_api/document/users").TryJSON(map[string]int{"id": 1})
		require.NoError(t, err)
		require.JSONEq(t, `{"id":1}`, string(req.Body))
		require.Equal(t, mime.JSON, req.Headers.Value("Content-Type"))
	})

	t.Run("json error", func(t *testing.T) {
		_, err := NewRequest(method.POST, "/").TryJSON(make(chan int))
		require.Error(t, err)
	})

	t.Run("clone", func(t *testing.T) {
		req := NewRequest(method.PUT, "/a").Header("X", "1").String("body")
		clone := req.Clone()
		req.Body[0] = 'B'
		req.Headers.Add("Y", "2")

		require.Equal(t, "body", string(clone.Body))
		require.Equal(t, 1, clone.Headers.Len())
		require.Equal(t, method.PUT, clone.Method)
		require.Equal(t, "/a", clone.Path)
	})
}
