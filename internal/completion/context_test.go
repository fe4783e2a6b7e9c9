package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atinylittleshell/gshcomplete/internal/shape"
)

func flat(start, end int, s shape.Shape) shape.Flat {
	return shape.Flat{Span: shape.Span{Start: start, End: end}, Shape: s}
}

func TestSubcommandRoot(t *testing.T) {
	tests := []struct {
		name      string
		flattened []shape.Flat
		pos       int
		want      shape.Flat
		found     bool
	}{
		{
			name: "multi word command",
			flattened: []shape.Flat{
				flat(0, 3, shape.InternalCall),
				flat(4, 10, shape.Literal),
				flat(11, 14, shape.ExternalArg),
			},
			pos:   14,
			want:  flat(0, 3, shape.InternalCall),
			found: true,
		},
		{
			name: "spans after the cursor are ignored",
			flattened: []shape.Flat{
				flat(0, 3, shape.External),
				flat(4, 8, shape.ExternalArg),
			},
			pos:   3,
			want:  flat(0, 3, shape.External),
			found: true,
		},
		{
			name: "run stops at an operator",
			flattened: []shape.Flat{
				flat(0, 2, shape.External),
				flat(3, 4, shape.Operator),
				flat(5, 9, shape.External),
				flat(10, 12, shape.ExternalArg),
			},
			pos:   12,
			want:  flat(5, 9, shape.External),
			found: true,
		},
		{
			name: "run stops at a flag",
			flattened: []shape.Flat{
				flat(0, 4, shape.InternalCall),
				flat(5, 7, shape.Flag),
				flat(8, 12, shape.Literal),
			},
			pos:   12,
			want:  flat(8, 12, shape.Literal),
			found: true,
		},
		{
			name: "last span is not command like",
			flattened: []shape.Flat{
				flat(0, 4, shape.InternalCall),
				flat(5, 10, shape.Variable),
			},
			pos: 10,
		},
		{
			name: "empty stream",
			pos:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := subcommandRoot(tt.flattened, tt.pos)
			assert.Equal(t, tt.found, found)
			if tt.found {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestInCommandPosition(t *testing.T) {
	assert.True(t, inCommandPosition(shape.External, shape.Span{Start: 0, End: 2}))
	assert.True(t, inCommandPosition(shape.InternalCall, shape.Span{Start: 0, End: 2}))
	assert.True(t, inCommandPosition(shape.Literal, shape.Span{Start: 4, End: 4}))
	assert.False(t, inCommandPosition(shape.ExternalArg, shape.Span{Start: 4, End: 6}))
	assert.False(t, inCommandPosition(shape.Flag, shape.Span{Start: 4, End: 6}))
}

func TestLocate(t *testing.T) {
	// git commit -m | wc
	flattened := []shape.Flat{
		flat(0, 3, shape.InternalCall),
		flat(4, 10, shape.Literal),
		flat(11, 13, shape.Flag),
		flat(14, 15, shape.Operator),
		flat(16, 18, shape.External),
	}

	tests := []struct {
		name string
		pos  int
		want cursorContext
	}{
		{
			name: "inside the head",
			pos:  2,
			want: cursorContext{flatIdx: 0, flatShape: shape.InternalCall, span: shape.Span{Start: 0, End: 2}, headIdx: 0},
		},
		{
			name: "end of an argument",
			pos:  10,
			want: cursorContext{flatIdx: 1, flatShape: shape.Literal, span: shape.Span{Start: 4, End: 10}, headIdx: 0},
		},
		{
			name: "gap before the operator",
			pos:  13,
			want: cursorContext{flatIdx: 2, flatShape: shape.Flag, span: shape.Span{Start: 11, End: 13}, headIdx: 0},
		},
		{
			name: "after the operator",
			pos:  16,
			want: cursorContext{flatIdx: 4, flatShape: shape.External, span: shape.Span{Start: 16, End: 16}, headIdx: 4},
		},
		{
			name: "whitespace after the operator",
			pos:  15,
			want: cursorContext{flatIdx: 4, flatShape: shape.Garbage, span: shape.Span{Start: 15, End: 15}, headIdx: -1},
		},
		{
			name: "end of line",
			pos:  18,
			want: cursorContext{flatIdx: 4, flatShape: shape.External, span: shape.Span{Start: 16, End: 18}, headIdx: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, locate(flattened, tt.pos))
		})
	}
}

func TestLocateTrailingWhitespace(t *testing.T) {
	flattened := []shape.Flat{flat(0, 3, shape.InternalCall)}

	got := locate(flattened, 4)
	assert.Equal(t, 1, got.flatIdx)
	assert.Equal(t, shape.Garbage, got.flatShape)
	assert.True(t, got.span.IsEmpty())
	assert.Equal(t, 0, got.headIdx)
}
