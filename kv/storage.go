package kv

import (
	"iter"

	"github.com/indigo-web/utils/strcomp"
)

type Pair struct {
	Key, Value string
}

// Storage is an associative structure for storing (string, string) pairs. It acts as a map but
// uses linear search instead, which proves to be more efficient on relatively low amount of
// entries, which often enough is the case for HTTP headers.
//
// Keys are kept exactly as they were supplied, so "Content-Type" and "content-type" are two
// distinct keys for Get, Values and Keys. Use Lookup and HasFold when HTTP semantics
// (case-insensitive header names) are wanted.
type Storage struct {
	pairs []Pair
}

func New() *Storage {
	return new(Storage)
}

// NewPrealloc returns an instance of Storage with pre-allocated underlying storage.
func NewPrealloc(n int) *Storage {
	return &Storage{
		pairs: make([]Pair, 0, n),
	}
}

// NewFromMap returns a new instance with already inserted values from given map.
// Note: as maps are unordered, resulting underlying structure will also contain unordered
// pairs.
func NewFromMap(m map[string][]string) *Storage {
	kv := NewPrealloc(len(m))

	for key, values := range m {
		for _, value := range values {
			kv.Add(key, value)
		}
	}

	return kv
}

// Add appends a new pair of key and value. Already existing values of the same key are kept.
func (s *Storage) Add(key, value string) *Storage {
	s.pairs = append(s.pairs, Pair{
		Key:   key,
		Value: value,
	})
	return s
}

// Set replaces all the values of the key by the single passed value. The first occurrence keeps
// its position, if there was any.
func (s *Storage) Set(key, value string) *Storage {
	for i, pair := range s.pairs {
		if pair.Key == key {
			s.pairs[i].Value = value
			s.pairs = deleteFrom(s.pairs, i+1, func(p Pair) bool {
				return p.Key == key
			})

			return s
		}
	}

	return s.Add(key, value)
}

// Delete removes all the pairs of the key.
func (s *Storage) Delete(key string) *Storage {
	s.pairs = deleteFrom(s.pairs, 0, func(p Pair) bool {
		return p.Key == key
	})

	return s
}

// DeleteFold removes all the pairs whose key matches case-insensitively.
func (s *Storage) DeleteFold(key string) *Storage {
	s.pairs = deleteFrom(s.pairs, 0, func(p Pair) bool {
		return strcomp.EqualFold(p.Key, key)
	})

	return s
}

// Value returns the first value, corresponding to the key. Otherwise, empty string is returned
func (s *Storage) Value(key string) string {
	return s.ValueOr(key, "")
}

// ValueOr returns either the first value corresponding to the key or custom value, defined
// via the second parameter.
func (s *Storage) ValueOr(key, or string) string {
	value, found := s.Get(key)
	if !found {
		return or
	}

	return value
}

// Get returns a value and a bool, indicating whether the value was found. If it wasn't, it'll
// be an empty string.
func (s *Storage) Get(key string) (value string, found bool) {
	for _, pair := range s.pairs {
		if pair.Key == key {
			return pair.Value, true
		}
	}

	return "", false
}

// Lookup is the same as Get, except the key is compared case-insensitively.
func (s *Storage) Lookup(key string) (value string, found bool) {
	for _, pair := range s.pairs {
		if strcomp.EqualFold(key, pair.Key) {
			return pair.Value, true
		}
	}

	return "", false
}

// Values returns all values of the key in order of insertion. Returns nil if key doesn't exist.
func (s *Storage) Values(key string) (values []string) {
	for _, pair := range s.pairs {
		if pair.Key == key {
			values = append(values, pair.Value)
		}
	}

	return values
}

// Keys returns all unique presented keys in order they were first seen.
func (s *Storage) Keys() []string {
	var keys []string

	for _, pair := range s.pairs {
		if contains(keys, pair.Key) {
			continue
		}

		keys = append(keys, pair.Key)
	}

	return keys
}

// Pairs returns an iterator over the pairs.
func (s *Storage) Pairs() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, pair := range s.pairs {
			if !yield(pair.Key, pair.Value) {
				break
			}
		}
	}
}

// Has indicates, whether there's an entry of the key.
func (s *Storage) Has(key string) bool {
	_, found := s.Get(key)
	return found
}

// HasFold is the same as Has, except the key is compared case-insensitively.
func (s *Storage) HasFold(key string) bool {
	_, found := s.Lookup(key)
	return found
}

// Len returns a number of stored pairs.
func (s *Storage) Len() int {
	return len(s.pairs)
}

func (s *Storage) Empty() bool {
	return s.Len() == 0
}

// Map groups the pairs by keys. Mostly useful for comparisons in tests, as the order of keys
// is lost.
func (s *Storage) Map() map[string][]string {
	m := make(map[string][]string, len(s.pairs))
	for _, pair := range s.pairs {
		m[pair.Key] = append(m[pair.Key], pair.Value)
	}

	return m
}

// Clone creates a deep copy, which may be used later or stored somewhere safely.
func (s *Storage) Clone() *Storage {
	return &Storage{
		pairs: clone(s.pairs),
	}
}

// Expose exposes the underlying pairs slice.
func (s *Storage) Expose() []Pair {
	return s.pairs
}

// Clear all the entries. However, all the allocated space won't be freed.
func (s *Storage) Clear() *Storage {
	s.pairs = s.pairs[:0]
	return s
}

func deleteFrom(pairs []Pair, offset int, match func(Pair) bool) []Pair {
	n := offset
	for i := offset; i < len(pairs); i++ {
		if !match(pairs[i]) {
			pairs[n] = pairs[i]
			n++
		}
	}

	return pairs[:n]
}

func contains(collection []string, key string) bool {
	for _, element := range collection {
		if element == key {
			return true
		}
	}

	return false
}

func clone[T any](source []T) []T {
	if len(source) == 0 {
		return nil
	}

	newSlice := make([]T, len(source))
	copy(newSlice, source)

	return newSlice
}
