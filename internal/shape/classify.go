package shape

import (
	"sort"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Classify splits line into classified spans ordered by start offset.
// isInternal decides whether a command head names a command known to the
// shell; a nil func treats every head as external.
//
// The line is parsed as bash. Input that does not parse yet (an open quote, a
// trailing pipe) goes through a quote-aware scanner that yields the same shapes.
func Classify(line string, isInternal func(name string) bool) []Flat {
	if isInternal == nil {
		isInternal = func(string) bool { return false }
	}

	file, err := syntax.NewParser().Parse(strings.NewReader(line), "")
	if err != nil {
		return scan(line, isInternal)
	}

	var flats []Flat
	syntax.Walk(file, func(node syntax.Node) bool {
		switch n := node.(type) {
		case *syntax.CallExpr:
			flats = append(flats, classifyCall(line, n, isInternal)...)
			return false
		case *syntax.BinaryCmd:
			start := int(n.OpPos.Offset())
			flats = append(flats, Flat{
				Span:  Span{Start: start, End: start + len(n.Op.String())},
				Shape: Operator,
			})
		case *syntax.Stmt:
			if n.Semicolon.IsValid() {
				start := int(n.Semicolon.Offset())
				end := start + 1
				if strings.HasPrefix(line[start:], "|&") {
					end++
				}
				flats = append(flats, Flat{Span: Span{Start: start, End: end}, Shape: Operator})
			}
		}
		return true
	})

	sort.SliceStable(flats, func(i, j int) bool {
		return flats[i].Span.Start < flats[j].Span.Start
	})
	return flats
}

func classifyCall(line string, call *syntax.CallExpr, isInternal func(string) bool) []Flat {
	if len(call.Args) == 0 {
		return nil
	}

	flats := make([]Flat, 0, len(call.Args))
	var internal bool
	for i, word := range call.Args {
		span := Span{Start: int(word.Pos().Offset()), End: int(word.End().Offset())}
		if i == 0 {
			internal = isInternal(line[span.Start:span.End])
			if internal {
				flats = append(flats, Flat{Span: span, Shape: InternalCall})
			} else {
				flats = append(flats, Flat{Span: span, Shape: External})
			}
			continue
		}
		flats = append(flats, Flat{Span: span, Shape: wordShape(word, internal)})
	}
	return flats
}

func wordShape(word *syntax.Word, internal bool) Shape {
	if len(word.Parts) == 1 {
		switch part := word.Parts[0].(type) {
		case *syntax.SglQuoted, *syntax.DblQuoted:
			return String
		case *syntax.ParamExp:
			return Variable
		case *syntax.Lit:
			if internal && strings.HasPrefix(part.Value, "-") {
				return Flag
			}
		}
	}
	if internal {
		return Literal
	}
	return ExternalArg
}

// scan is the fallback tokenizer for lines the parser rejects.
func scan(line string, isInternal func(string) bool) []Flat {
	var flats []Flat
	atHead := true
	internal := false

	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n':
			i++
			continue
		case c == '|' || c == '&' || c == ';':
			end := i + 1
			if end < len(line) && (line[end] == '|' || line[end] == '&') && c != ';' {
				end++
			}
			flats = append(flats, Flat{Span: Span{Start: i, End: end}, Shape: Operator})
			atHead = true
			i = end
			continue
		}

		start := i
		i = scanWord(line, i)
		word := line[start:i]
		span := Span{Start: start, End: i}

		if atHead {
			internal = isInternal(word)
			if internal {
				flats = append(flats, Flat{Span: span, Shape: InternalCall})
			} else {
				flats = append(flats, Flat{Span: span, Shape: External})
			}
			atHead = false
			continue
		}
		flats = append(flats, Flat{Span: span, Shape: textShape(word, internal)})
	}
	return flats
}

// scanWord returns the offset just past the word starting at i. An
// unterminated quote extends the word to the end of the line.
func scanWord(line string, i int) int {
	var quote byte
	for i < len(line) {
		c := line[i]
		if quote != 0 {
			if c == '\\' && quote == '"' && i+1 < len(line) {
				i += 2
				continue
			}
			if c == quote {
				quote = 0
			}
			i++
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '\\':
			if i+1 < len(line) {
				i++
			}
		case ' ', '\t', '\n', '|', '&', ';':
			return i
		}
		i++
	}
	return i
}

func textShape(word string, internal bool) Shape {
	switch {
	case strings.HasPrefix(word, "'") || strings.HasPrefix(word, `"`):
		return String
	case strings.HasPrefix(word, "$"):
		return Variable
	case internal && strings.HasPrefix(word, "-"):
		return Flag
	case internal:
		return Literal
	default:
		return ExternalArg
	}
}
