// Package shape classifies the tokens of a command line into byte spans tagged
// with their syntactic role. The completion engine reads this stream to decide
// whether the cursor sits on a command name, a subcommand chain or an argument.
package shape

import "fmt"

// Span is a half-open byte range [Start, End).
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty reports whether the span covers no bytes.
func (s Span) IsEmpty() bool {
	return s.End <= s.Start
}

// Touches reports whether pos lies inside the span or directly after its last byte.
func (s Span) Touches(pos int) bool {
	return pos >= s.Start && pos <= s.End
}

// Shifted returns the span moved left by offset.
func (s Span) Shifted(offset int) Span {
	return Span{Start: s.Start - offset, End: s.End - offset}
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Shape is the syntactic role of a token.
type Shape int

const (
	// Garbage marks bytes the classifier could not make sense of.
	Garbage Shape = iota
	// InternalCall is the head of a command known to the shell.
	InternalCall
	// External is the head of a command resolved through PATH.
	External
	// ExternalArg is an argument passed to an external command.
	ExternalArg
	// Literal is a bare word argument of an internal command.
	Literal
	// String is a quoted word.
	String
	// Flag is a dash-prefixed argument of an internal command.
	Flag
	// Variable is a parameter expansion such as $HOME.
	Variable
	// Operator separates commands: pipes, && and ||, semicolons.
	Operator
)

func (s Shape) String() string {
	switch s {
	case Garbage:
		return "garbage"
	case InternalCall:
		return "internalcall"
	case External:
		return "external"
	case ExternalArg:
		return "externalarg"
	case Literal:
		return "literal"
	case String:
		return "string"
	case Flag:
		return "flag"
	case Variable:
		return "variable"
	case Operator:
		return "operator"
	default:
		return "unknown"
	}
}

// IsCommandLike reports whether a token of this shape can belong to a
// multi-word command name such as "git remote add".
func (s Shape) IsCommandLike() bool {
	switch s {
	case InternalCall, External, ExternalArg, Literal, String:
		return true
	default:
		return false
	}
}

// IsCommandHead reports whether the shape marks a command name.
func (s Shape) IsCommandHead() bool {
	return s == InternalCall || s == External
}

// Flat is one classified token.
type Flat struct {
	Span  Span
	Shape Shape
}

func (f Flat) String() string {
	return fmt.Sprintf("%s(%s)", f.Shape, f.Span)
}
