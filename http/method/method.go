package method

import "github.com/indigo-web/utils/strcomp"

// Method is a request method the database server understands.
type Method uint8

const (
	Unknown Method = iota
	GET
	HEAD
	POST
	PUT
	DELETE
	PATCH
	OPTIONS
)

// List contains all the known methods in the order of their integer values, excluding Unknown.
var List = []Method{GET, HEAD, POST, PUT, DELETE, PATCH, OPTIONS}

var names = [...]string{
	Unknown: "UNKNOWN",
	GET:     "GET",
	HEAD:    "HEAD",
	POST:    "POST",
	PUT:     "PUT",
	DELETE:  "DELETE",
	PATCH:   "PATCH",
	OPTIONS: "OPTIONS",
}

func (m Method) String() string {
	if int(m) >= len(names) {
		return names[Unknown]
	}

	return names[m]
}

// Parse recognizes the method name case-insensitively. Unrecognized names result in Unknown.
func Parse(str string) Method {
	for _, m := range List {
		if strcomp.EqualFold(names[m], str) {
			return m
		}
	}

	return Unknown
}
