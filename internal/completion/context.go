package completion

import "github.com/atinylittleshell/gshcomplete/internal/shape"

// subcommandRoot finds the earliest span of the unbroken run of command-like
// spans that ends at or before pos. For "git remote ad|" it is "git".
func subcommandRoot(flattened []shape.Flat, pos int) (shape.Flat, bool) {
	i := len(flattened) - 1
	for i >= 0 && flattened[i].Span.End > pos {
		i--
	}

	var root shape.Flat
	found := false
	for ; i >= 0 && flattened[i].Shape.IsCommandLike(); i-- {
		root = flattened[i]
		found = true
	}
	return root, found
}

// inCommandPosition reports whether the cursor is on a command name or in
// the gap between tokens.
func inCommandPosition(flatShape shape.Shape, span shape.Span) bool {
	return flatShape.IsCommandHead() || span.IsEmpty()
}

// cursorContext describes the token under the cursor.
type cursorContext struct {
	// flatIdx is the index of the token in the classified stream, or the index
	// of the next token when the cursor sits in whitespace.
	flatIdx   int
	flatShape shape.Shape
	// span runs from the token start to the cursor.
	span shape.Span
	// headIdx is the index of the command head of the statement under the
	// cursor, or -1.
	headIdx int
}

// locate maps an absolute cursor position onto the classified stream.
func locate(flattened []shape.Flat, pos int) cursorContext {
	ctx := cursorContext{
		flatIdx:   len(flattened),
		flatShape: shape.Garbage,
		span:      shape.Span{Start: pos, End: pos},
		headIdx:   -1,
	}

	for i, flat := range flattened {
		if flat.Span.Start > pos {
			ctx.flatIdx = i
			break
		}
		if flat.Shape != shape.Operator && flat.Span.Touches(pos) {
			ctx.flatIdx = i
			ctx.flatShape = flat.Shape
			ctx.span = shape.Span{Start: flat.Span.Start, End: pos}
			break
		}
	}

	for i := ctx.flatIdx - 1; i >= 0; i-- {
		if flattened[i].Shape == shape.Operator {
			break
		}
		if flattened[i].Shape.IsCommandHead() {
			ctx.headIdx = i
		}
	}
	if ctx.flatIdx < len(flattened) && ctx.flatShape.IsCommandHead() {
		ctx.headIdx = ctx.flatIdx
	}
	return ctx
}
