package completion

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinylittleshell/gshcomplete/internal/completion/matcher"
	"github.com/atinylittleshell/gshcomplete/internal/shape"
	"github.com/atinylittleshell/gshcomplete/internal/value"
)

func TestSpecRegistry(t *testing.T) {
	r := NewSpecRegistry()
	assert.Empty(t, r.ListSpecs())

	git := CompletionSpec{Command: "git", Type: WordListCompletion, Value: "add commit"}
	r.AddSpec(git)
	r.AddSpec(CompletionSpec{Command: "docker", Type: FunctionCompletion, Value: "_docker"})

	got, ok := r.GetSpec("git")
	require.True(t, ok)
	assert.Equal(t, git, got)

	t.Run("list is ordered by command", func(t *testing.T) {
		listed := r.ListSpecs()
		require.Len(t, listed, 2)
		assert.Equal(t, "docker", listed[0].Command)
		assert.Equal(t, "git", listed[1].Command)
	})

	t.Run("add replaces", func(t *testing.T) {
		r.AddSpec(CompletionSpec{Command: "git", Type: WordListCompletion, Value: "add commit push pull"})
		got, ok := r.GetSpec("git")
		require.True(t, ok)
		assert.Equal(t, "add commit push pull", got.Value)
	})

	t.Run("remove", func(t *testing.T) {
		r.RemoveSpec("git")
		_, ok := r.GetSpec("git")
		assert.False(t, ok)
		_, ok = r.GetSpec("nonexistent")
		assert.False(t, ok)
	})

	t.Run("clear", func(t *testing.T) {
		r.Clear()
		assert.Empty(t, r.ListSpecs())
	})
}

func TestCompletionSpecCompleter(t *testing.T) {
	words := CompletionSpec{Command: "git", Type: WordListCompletion, Value: "add  commit\tpush"}
	c := words.Completer(nil, nil, "git ", nil)
	require.IsType(t, &WordListCompleter{}, c)
	assert.Equal(t, []string{"add", "commit", "push"}, c.(*WordListCompleter).Words)

	eval := &fakeEvaluator{result: value.Strings("build")}
	fn := CompletionSpec{Command: "docker", Type: FunctionCompletion, Value: "_docker"}
	c = fn.Completer(eval, nil, "docker b", nil)
	require.IsType(t, &CustomCompletion{}, c)

	got, err := c.Fetch(DefaultOptions(), nil, []byte("b"), shape.Span{Start: 7, End: 8}, 0, 8)
	require.NoError(t, err)
	assert.Equal(t, []string{"build"}, values(got))
	require.Len(t, eval.calls, 1)
	assert.Equal(t, "_docker", eval.calls[0].Decl)
}

func TestWordListCompleter(t *testing.T) {
	c := &WordListCompleter{Words: []string{"add", "commit", "push", "pull", "Push"}}
	span := shape.Span{Start: 14, End: 16}

	got, err := c.Fetch(DefaultOptions(), nil, []byte("pu"), span, 10, 16)
	require.NoError(t, err)
	assert.Equal(t, []string{"push", "pull"}, values(got))
	for _, s := range got {
		assert.Equal(t, shape.Span{Start: 4, End: 6}, s.Span)
		assert.NotNil(t, s.Score)
	}

	opts := DefaultOptions()
	opts.Matcher = matcher.Prefix
	opts.CaseSensitive = false
	got, err = c.Fetch(opts, nil, []byte("pu"), span, 10, 16)
	require.NoError(t, err)
	assert.Equal(t, []string{"push", "pull", "Push"}, values(got))

	got, err = c.Fetch(DefaultOptions(), nil, nil, span, 10, 16)
	require.NoError(t, err)
	assert.Len(t, got, 5)

	opts.Matcher = matcher.Algorithm(7)
	_, err = c.Fetch(opts, nil, nil, span, 10, 16)
	assert.True(t, errors.Is(err, ErrUnknownMatcher))
}

func TestCompletionTypeConstants(t *testing.T) {
	assert.Equal(t, CompletionType("W"), WordListCompletion)
	assert.Equal(t, CompletionType("F"), FunctionCompletion)
}
