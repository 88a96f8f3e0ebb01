// Package guard provides validation predicates over responses. A guard is either scoped
// to a single batch part, identified by its content-id, or unscoped, checking every
// response it's given.
package guard

import (
	"fmt"
	"slices"

	dberrors "github.com/indigo-web/arango/errors"
	"github.com/indigo-web/arango/http"
	"github.com/indigo-web/arango/http/status"
)

type Guard interface {
	// ContentID is the content-id of the only batch part the guard applies to. Empty value
	// means the guard is unscoped.
	ContentID() string
	// Check refuses the response by returning an error.
	Check(response *http.Response) error
}

// Func is an unscoped guard made of a plain function.
type Func func(response *http.Response) error

func (Func) ContentID() string {
	return ""
}

func (f Func) Check(response *http.Response) error {
	return f(response)
}

// Success refuses every response with non-2xx status code.
func Success() Guard {
	return Func(func(response *http.Response) error {
		if !response.Code.IsSuccess() {
			return fmt.Errorf("unexpected status %d %s", response.Code, response.Status)
		}

		return nil
	})
}

// Status refuses every response whose status code isn't one of the passed.
func Status(codes ...status.Code) Guard {
	return Func(func(response *http.Response) error {
		if !slices.Contains(codes, response.Code) {
			return fmt.Errorf("unexpected status %d %s, want one of %v", response.Code, response.Status, codes)
		}

		return nil
	})
}

type scoped struct {
	id string
	g  Guard
}

// Scoped narrows the guard down to a single batch part.
func Scoped(contentID string, g Guard) Guard {
	return scoped{id: contentID, g: g}
}

func (s scoped) ContentID() string {
	return s.id
}

func (s scoped) Check(response *http.Response) error {
	return s.g.Check(response)
}

// Apply runs the guard against the response. Any refusal is returned as a
// *errors.ResponseError carrying the response.
func Apply(g Guard, contentID string, response *http.Response) error {
	err := g.Check(response)
	if err == nil {
		return nil
	}

	respErr, ok := err.(*dberrors.ResponseError)
	if !ok {
		respErr = dberrors.NewResponseError(response, err)
	}

	if len(respErr.ContentID) == 0 {
		respErr.ContentID = contentID
	}

	if respErr.Response == nil {
		respErr.Response = response
	}

	return respErr
}
