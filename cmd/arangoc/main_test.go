package main

import (
	"bytes"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	dberrors "github.com/indigo-web/arango/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(args ...string) (string, error) {
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func newServer(t *testing.T, handler nethttp.HandlerFunc) string {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return srv.URL
}

func writeJSON(w nethttp.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(code)
	_, _ = io.WriteString(w, body)
}

func TestRequest(t *testing.T) {
	t.Run("flags", func(t *testing.T) {
		endpoint := newServer(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
			assert.Equal(t, "/_db/test/_api/version", r.URL.Path)
			writeJSON(w, nethttp.StatusOK, `{"server":"arango","version":"3.12.0"}`)
		})

		out, err := run("--endpoint", endpoint, "--database", "test", "request", "get", "/_api/version")
		require.NoError(t, err)
		require.Contains(t, out, "HTTP/1.1 200 OK\n")
		require.Contains(t, out, "Content-Type: application/json\n")
		require.Contains(t, out, `{"server":"arango","version":"3.12.0"}`)
	})

	t.Run("environment", func(t *testing.T) {
		endpoint := newServer(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
			assert.Equal(t, "/_db/shop/_api/document/users", r.URL.Path)
			user, password, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "root", user)
			assert.Equal(t, "secret", password)

			body, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			assert.Equal(t, `{"name":"alice"}`, string(body))
			writeJSON(w, nethttp.StatusAccepted, `{"_key":"1"}`)
		})

		t.Setenv("ARANGO_ENDPOINT", endpoint)
		t.Setenv("ARANGO_DATABASE", "shop")
		t.Setenv("ARANGO_USER", "root")
		t.Setenv("ARANGO_PASSWORD", "secret")

		out, err := run("request", "POST", "/_api/document/users", `{"name":"alice"}`)
		require.NoError(t, err)
		require.Contains(t, out, "HTTP/1.1 202 Accepted\n")
	})

	t.Run("flags beat environment and file", func(t *testing.T) {
		endpoint := newServer(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
			writeJSON(w, nethttp.StatusOK, fmt.Sprintf(`{"path":%q}`, r.URL.Path))
		})

		cfgPath := filepath.Join(t.TempDir(), "arangoc.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("endpoint: "+endpoint+"\ndatabase: fromfile\n"), 0o600))

		out, err := run("--config", cfgPath, "request", "GET", "/x")
		require.NoError(t, err)
		require.Contains(t, out, `{"path":"/_db/fromfile/x"}`)

		t.Setenv("ARANGO_DATABASE", "fromenv")
		out, err = run("--config", cfgPath, "request", "GET", "/x")
		require.NoError(t, err)
		require.Contains(t, out, `{"path":"/_db/fromenv/x"}`)

		out, err = run("--config", cfgPath, "--database", "fromflag", "request", "GET", "/x")
		require.NoError(t, err)
		require.Contains(t, out, `{"path":"/_db/fromflag/x"}`)
	})

	t.Run("fail fast", func(t *testing.T) {
		endpoint := newServer(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
			writeJSON(w, nethttp.StatusNotFound, `{"error":true,"errorNum":1203}`)
		})

		out, err := run("--endpoint", endpoint, "request", "GET", "/_api/collection/nope")
		require.NoError(t, err)
		require.Contains(t, out, "HTTP/1.1 404 Not Found\n")

		_, err = run("--endpoint", endpoint, "--fail-fast", "request", "GET", "/_api/collection/nope")
		require.ErrorIs(t, err, dberrors.ErrValidation)
	})

	t.Run("bad input", func(t *testing.T) {
		_, err := run("request", "BREW", "/coffee")
		require.Error(t, err)

		_, err = run("--endpoint", "gopher://hole:70", "request", "GET", "/")
		require.ErrorIs(t, err, dberrors.ErrConfiguration)

		_, err = run("--log-format", "xml", "request", "GET", "/")
		require.Error(t, err)

		_, err = run("--config", filepath.Join(t.TempDir(), "missing.yaml"), "request", "GET", "/")
		require.Error(t, err)
	})
}

var (
	contentIDPattern   = regexp.MustCompile(`Content-Id: (\S+)\r\n`)
	requestLinePattern = regexp.MustCompile(`\r\n\r\n([A-Z]+ \S+) HTTP/1\.1`)
)

// batchServer answers every part with the code, echoing its request line.
func batchServer(t *testing.T, code int) string {
	return newServer(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "/_db/_system/_api/batch", r.URL.Path)
		assert.Equal(t, "multipart/form-data", r.Header.Get("Content-Type"))
		assert.Equal(t, "XXXsubpartXXX", r.Header.Get("boundary"))

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		var body strings.Builder
		for _, part := range strings.Split(string(raw), "--XXXsubpartXXX\r\n") {
			id := contentIDPattern.FindStringSubmatch(part)
			line := requestLinePattern.FindStringSubmatch(part)
			if id == nil || line == nil {
				continue
			}

			payload := fmt.Sprintf(`{"echo":%q}`, line[1])
			fmt.Fprintf(&body, "--XXXsubpartXXX\r\nContent-Type: application/x-arango-batchpart\r\nContent-Id: %s\r\n\r\n"+
				"HTTP/1.1 %d %s\r\nContent-Length: %d\r\n\r\n%s\r\n",
				id[1], code, nethttp.StatusText(code), len(payload), payload)
		}

		body.WriteString("--XXXsubpartXXX--\r\n\r\n")

		w.Header().Set("Content-Type", "multipart/form-data")
		w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
		_, _ = io.WriteString(w, body.String())
	})
}

func writeBatchFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "batch.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestBatch(t *testing.T) {
	const entries = `[
		{"method": "POST", "path": "/_api/collection", "body": {"name": "users"}, "contentId": "users"},
		{"path": "/_api/version"},
		{"method": "delete", "path": "/_api/collection/old", "expect": [200, 404]}
	]`

	t.Run("parts are printed in order", func(t *testing.T) {
		endpoint := batchServer(t, nethttp.StatusOK)
		out, err := run("--endpoint", endpoint, "batch", writeBatchFile(t, entries))
		require.NoError(t, err)

		users := strings.Index(out, "--- users\n")
		version := strings.Index(out, `{"echo":"GET /_api/version"}`)
		old := strings.Index(out, "--- 2\n")
		require.True(t, users >= 0 && version > users && old > version, out)
		require.Contains(t, out, `{"echo":"POST /_api/collection"}`)
		require.Contains(t, out, `{"echo":"DELETE /_api/collection/old"}`)
	})

	t.Run("expectations", func(t *testing.T) {
		endpoint := batchServer(t, nethttp.StatusConflict)
		_, err := run("--endpoint", endpoint, "batch", writeBatchFile(t, entries))
		require.ErrorIs(t, err, dberrors.ErrValidation)
	})

	t.Run("fail fast", func(t *testing.T) {
		endpoint := batchServer(t, nethttp.StatusNotFound)
		_, err := run("--endpoint", endpoint, "batch", writeBatchFile(t, `[{"path": "/_api/collection/nope"}]`))
		require.NoError(t, err)

		_, err = run("--endpoint", endpoint, "--fail-fast", "batch", writeBatchFile(t, `[{"path": "/_api/collection/nope"}]`))
		require.ErrorIs(t, err, dberrors.ErrValidation)
	})

	t.Run("bad files", func(t *testing.T) {
		_, err := run("batch", writeBatchFile(t, `{"not": "a list"}`))
		require.Error(t, err)

		_, err = run("batch", writeBatchFile(t, `[{"method": "BREW", "path": "/coffee"}]`))
		require.Error(t, err)

		_, err = run("batch", writeBatchFile(t, `[
			{"path": "/a", "contentId": "same"},
			{"path": "/b", "contentId": "same"}
		]`))
		require.ErrorIs(t, err, dberrors.ErrProtocol)
	})
}
