package api

import (
	"fmt"
	"iter"
	"net/url"

	"github.com/indigo-web/arango/guard"
	"github.com/indigo-web/arango/http"
	"github.com/indigo-web/arango/http/method"
	json "github.com/json-iterator/go"
)

const cursorPath = "/_api/cursor"

// Doer delivers requests. It's usually a *client.Client.
type Doer interface {
	Do(request *http.Request) (*http.Response, error)
}

type Query struct {
	Query     string         `json:"query"`
	BindVars  map[string]any `json:"bindVars,omitempty"`
	BatchSize int            `json:"batchSize,omitempty"`
	Count     bool           `json:"count,omitempty"`
}

// QueryRequest builds the request creating a cursor.
func QueryRequest(query Query) (*http.Request, error) {
	return http.NewRequest(method.POST, cursorPath).TryJSON(query)
}

// NextBatchRequest builds the request fetching the next batch of a cursor.
func NextBatchRequest(id string) *http.Request {
	return http.NewRequest(method.PUT, cursorPath+"/"+url.PathEscape(id))
}

type page struct {
	Result  []json.RawMessage `json:"result"`
	HasMore bool              `json:"hasMore"`
	ID      string            `json:"id"`
	Count   *int              `json:"count"`
}

// Cursor is a lazy sequence of rows of a query result. Rows are fetched page by page,
// as they're consumed. The sequence is finite and can be restarted via Reset, which
// re-issues the query. Cursor must not be used concurrently.
type Cursor struct {
	doer    Doer
	query   Query
	started bool
	rows    []json.RawMessage
	pos     int
	id      string
	hasMore bool
	count   int
	err     error
}

func NewCursor(doer Doer, query Query) *Cursor {
	return &Cursor{
		doer:  doer,
		query: query,
		pos:   -1,
	}
}

// Next advances the cursor to the next row, fetching the next page if needed. It returns
// false once the rows are exhausted or a fault occurred, which is reported by Err.
func (c *Cursor) Next() bool {
	if c.err != nil {
		return false
	}

	if !c.started {
		c.started = true
		request, err := QueryRequest(c.query)
		if err != nil {
			c.err = err
			return false
		}

		if !c.fetch(request) {
			return false
		}
	}

	for c.pos+1 >= len(c.rows) {
		if !c.hasMore {
			return false
		}

		if !c.fetch(NextBatchRequest(c.id)) {
			return false
		}
	}

	c.pos++
	return true
}

func (c *Cursor) fetch(request *http.Request) bool {
	response, err := c.doer.Do(request)
	if err == nil {
		err = guard.Apply(guard.Success(), "", response)
	}

	if err != nil {
		c.err = err
		return false
	}

	var p page
	if err = response.JSON(&p); err != nil {
		c.err = fmt.Errorf("decode cursor page: %w", err)
		return false
	}

	c.rows, c.pos, c.hasMore, c.id = p.Result, -1, p.HasMore, p.ID
	if p.Count != nil {
		c.count = *p.Count
	}

	return true
}

// Row returns the current raw row.
func (c *Cursor) Row() json.RawMessage {
	if c.pos < 0 || c.pos >= len(c.rows) {
		return nil
	}

	return c.rows[c.pos]
}

// Decode decodes the current row into the model.
func (c *Cursor) Decode(model any) error {
	row := c.Row()
	if row == nil {
		return fmt.Errorf("no current row")
	}

	return json.ConfigDefault.Unmarshal(row, model)
}

// Count returns the total number of rows, if the query requested it.
func (c *Cursor) Count() int {
	return c.count
}

func (c *Cursor) Err() error {
	return c.err
}

// Reset rewinds the cursor. The query is re-issued on the next call to Next. The previous
// server-side cursor isn't deleted, it expires on its own.
func (c *Cursor) Reset() {
	*c = *NewCursor(c.doer, c.query)
}

// Rows iterates over the remaining rows. Faults stop the iteration and are reported by Err.
func (c *Cursor) Rows() iter.Seq2[int, json.RawMessage] {
	return func(yield func(int, json.RawMessage) bool) {
		for i := 0; c.Next(); i++ {
			if !yield(i, c.Row()) {
				return
			}
		}
	}
}
