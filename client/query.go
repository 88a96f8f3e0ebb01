package client

import (
	"net/url"
	"strings"
)

// Query is a set of URL query parameters. Unlike url.Values, parameters are rendered in
// the order they were added.
type Query struct {
	keys   []string
	values map[string][]string
}

func NewQuery() *Query {
	return &Query{
		values: make(map[string][]string),
	}
}

func (q *Query) WithValue(key string, values ...string) *Query {
	if _, seen := q.values[key]; !seen {
		q.keys = append(q.keys, key)
	}

	q.values[key] = append(q.values[key], values...)
	return q
}

// Encode renders the query, including the leading question mark. Empty query renders
// into the empty string.
func (q *Query) Encode() string {
	if q == nil || len(q.keys) == 0 {
		return ""
	}

	var b strings.Builder
	for _, key := range q.keys {
		for _, value := range q.values[key] {
			if b.Len() == 0 {
				b.WriteByte('?')
			} else {
				b.WriteByte('&')
			}

			b.WriteString(url.QueryEscape(key))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(value))
		}
	}

	return b.String()
}
