package completion

import (
	"context"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/atinylittleshell/gshcomplete/internal/shape"
	"github.com/atinylittleshell/gshcomplete/internal/value"
)

// completionsField is the record field a completer may wrap its list in.
const completionsField = "completions"

// CustomCompletion delegates to a user-defined completion function. The
// function is called with the whole line and the cursor offset within it and
// returns either a list or a record with a "completions" list.
type CustomCompletion struct {
	evaluator Evaluator
	stack     Stack
	decl      string
	line      string
	logger    *zap.Logger
}

// NewCustomCompletion returns a completer calling decl through evaluator.
// stack is cloned on every call, so the function cannot mutate it.
func NewCustomCompletion(evaluator Evaluator, stack Stack, decl, line string, logger *zap.Logger) *CustomCompletion {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomCompletion{
		evaluator: evaluator,
		stack:     stack,
		decl:      decl,
		line:      line,
		logger:    logger,
	}
}

// TODO: apply opts.Matcher, opts.CaseSensitive and opts.SortBy to dynamic results.
func (c *CustomCompletion) Fetch(
	_ Options,
	_ WorkingSet,
	_ []byte,
	span shape.Span,
	offset, pos int,
) ([]Suggestion, error) {
	if c.evaluator == nil {
		return nil, nil
	}

	var stack Stack
	if c.stack != nil {
		stack = c.stack.Clone()
	}

	call := Call{
		Decl: c.decl,
		Head: span,
		Args: []value.Value{
			&value.String{Value: c.line},
			&value.Number{Value: float64(pos - offset)},
		},
	}

	result, err := c.evaluator.Invoke(context.Background(), stack, call)
	if err != nil {
		c.logger.Debug("completion function failed", zap.String("function", c.decl), zap.Error(err))
		return nil, nil
	}

	items, ok := completionList(result)
	if !ok {
		c.logger.Debug("completion function returned an unusable value",
			zap.String("function", c.decl),
			zap.Stringer("type", typeOf(result)),
		)
		return nil, nil
	}

	replace := span.Shifted(offset)
	return lo.FilterMap(items, func(item value.Value, _ int) (Suggestion, bool) {
		text, ok := value.AsText(item)
		if !ok {
			return Suggestion{}, false
		}
		return Suggestion{Value: text, Span: replace}, true
	}), nil
}

// Filter returns items unchanged.
func (c *CustomCompletion) Filter(_ []byte, items []Suggestion, _ Options) []Suggestion {
	return items
}

func completionList(result value.Value) ([]value.Value, bool) {
	switch v := result.(type) {
	case *value.List:
		return v.Elements, true
	case *value.Record:
		field, ok := v.Get(completionsField)
		if !ok {
			return nil, false
		}
		list, ok := field.(*value.List)
		if !ok {
			return nil, false
		}
		return list.Elements, true
	default:
		return nil, false
	}
}

func typeOf(v value.Value) value.Type {
	if v == nil {
		return value.TypeNull
	}
	return v.Type()
}
