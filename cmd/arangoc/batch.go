package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/indigo-web/arango/batch"
	"github.com/indigo-web/arango/guard"
	"github.com/indigo-web/arango/http"
	"github.com/indigo-web/arango/http/method"
	"github.com/indigo-web/arango/http/status"
	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

// batchEntry is a single request of a batch file.
type batchEntry struct {
	Method    string          `json:"method"`
	Path      string          `json:"path"`
	Body      json.RawMessage `json:"body"`
	ContentID string          `json:"contentId"`
	Expect    []int           `json:"expect"`
}

func (a *app) newBatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "batch FILE",
		Short: "Send requests listed in the JSON file (- for stdin) as a single batch",
		Long: `Send requests listed in the JSON file (- for stdin) as a single batch.

The file is a list of objects with the fields:
  method     request method, GET by default
  path       request path, relative to the database
  body       any JSON value sent as the request body
  contentId  content-id of the part; generated if empty
  expect     list of acceptable status codes of the part`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := readBatchFile(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			b, err := buildBatch(entries)
			if err != nil {
				return err
			}

			c, err := a.dial(cmd, guard.Success())
			if err != nil {
				return err
			}
			defer c.Close()

			result, err := c.Batch(b)
			if err != nil {
				return err
			}

			if a.failFast() {
				if err = result.Validate(guard.Success()); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			for key, response := range result.All() {
				fmt.Fprintf(out, "--- %s\n", key)
				printResponse(out, response)
			}

			return nil
		},
	}
}

func readBatchFile(stdin io.Reader, path string) ([]batchEntry, error) {
	var (
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, err
	}

	var entries []batchEntry
	if err = json.ConfigDefault.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse batch file %q: %w", path, err)
	}

	return entries, nil
}

func buildBatch(entries []batchEntry) (*batch.Batch, error) {
	builder := batch.NewBuilder()

	for i, entry := range entries {
		m := method.GET
		if len(entry.Method) > 0 {
			if m = method.Parse(entry.Method); m == method.Unknown {
				return nil, fmt.Errorf("entry %d: unsupported method %q", i, entry.Method)
			}
		}

		request := http.NewRequest(m, entry.Path)
		if body := strings.TrimSpace(string(entry.Body)); len(body) > 0 && body != "null" {
			request.String(body)
		}

		var opts []batch.Option

		switch id := entry.ContentID; {
		case len(entry.Expect) > 0:
			if len(id) == 0 {
				id = strconv.Itoa(i)
			}

			opts = append(opts, batch.WithGuard(guard.Scoped(id, expect(entry.Expect))))
		case len(id) > 0:
			opts = append(opts, batch.WithGuard(guard.Scoped(id, guard.Func(acceptAny))))
		default:
			opts = append(opts, batch.Identified())
		}

		builder.Add(request, opts...)
	}

	return builder.Build()
}

func expect(codes []int) guard.Guard {
	statuses := make([]status.Code, 0, len(codes))
	for _, code := range codes {
		statuses = append(statuses, status.Code(code))
	}

	slices.Sort(statuses)

	return guard.Status(statuses...)
}

func acceptAny(*http.Response) error {
	return nil
}
