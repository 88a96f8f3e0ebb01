package kv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	getHeaders := func() *Storage {
		return New().
			Add("Foo", "bar").
			Add("Hello", "World").
			Add("Lorem", "ipsum").
			Add("hello", "Pavlo").
			Add("Hello", "again")
	}

	t.Run("keys are case-sensitive", func(t *testing.T) {
		kv := getHeaders()
		require.Equal(t, []string{"World", "again"}, kv.Values("Hello"))
		require.Equal(t, []string{"Pavlo"}, kv.Values("hello"))
		require.Nil(t, kv.Values("HELLO"))
		require.False(t, kv.Has("HELLO"))
	})

	t.Run("lookup folds the case", func(t *testing.T) {
		kv := getHeaders()
		value, found := kv.Lookup("HELLO")
		require.True(t, found)
		require.Equal(t, "World", value)
		require.True(t, kv.HasFold("lorem"))
	})

	t.Run("keys in first-seen order", func(t *testing.T) {
		require.Equal(t, []string{"Foo", "Hello", "Lorem", "hello"}, getHeaders().Keys())
	})

	t.Run("delete", func(t *testing.T) {
		kv := getHeaders().Delete("Hello")

		want := []Pair{
			{"Foo", "bar"},
			{"Lorem", "ipsum"},
			{"hello", "Pavlo"},
		}

		require.Equal(t, want, kv.Expose())
	})

	t.Run("delete fold", func(t *testing.T) {
		kv := getHeaders().DeleteFold("HELLO")
		require.Equal(t, []string{"Foo", "Lorem"}, kv.Keys())
	})

	t.Run("set", func(t *testing.T) {
		kv := getHeaders().Set("Hello", "no more Pavlo")

		want := []Pair{
			{"Foo", "bar"},
			{"Hello", "no more Pavlo"},
			{"Lorem", "ipsum"},
			{"hello", "Pavlo"},
		}

		require.Equal(t, want, kv.Expose())
	})

	t.Run("set new key", func(t *testing.T) {
		kv := New().
			Add("Pavlo", "the best").
			Set("Glory to", "Ukraine")

		require.Equal(t, []Pair{{"Pavlo", "the best"}, {"Glory to", "Ukraine"}}, kv.Expose())
	})

	t.Run("pairs", func(t *testing.T) {
		var got []Pair
		for key, value := range getHeaders().Pairs() {
			got = append(got, Pair{key, value})
		}

		require.Equal(t, getHeaders().Expose(), got)
	})

	t.Run("map", func(t *testing.T) {
		require.Equal(t, map[string][]string{
			"Foo":   {"bar"},
			"Hello": {"World", "again"},
			"Lorem": {"ipsum"},
			"hello": {"Pavlo"},
		}, getHeaders().Map())
	})

	t.Run("clone is independent", func(t *testing.T) {
		kv := getHeaders()
		clone := kv.Clone()
		kv.Clear()
		require.True(t, kv.Empty())
		require.Equal(t, 5, clone.Len())
	})
}
