package bash

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/atinylittleshell/gshcomplete/internal/completion"
	"github.com/atinylittleshell/gshcomplete/internal/value"
)

var (
	// ErrUnknownFunction is returned when the completion function is not defined.
	ErrUnknownFunction = errors.New("unknown shell function")
	// ErrNotRunnerStack is returned when Invoke receives a stack it did not create.
	ErrNotRunnerStack = errors.New("stack is not a shell runner")
)

// RunnerStack is the evaluation state of the embedded shell.
type RunnerStack struct {
	runner *interp.Runner
}

// NewRunnerStack wraps runner.
func NewRunnerStack(runner *interp.Runner) *RunnerStack {
	return &RunnerStack{runner: runner}
}

// Clone returns a subshell: variables, functions and the working directory
// are copied, and changes to the copy do not reach the original.
func (s *RunnerStack) Clone() completion.Stack {
	return &RunnerStack{runner: s.runner.Subshell()}
}

// Runner returns the wrapped runner.
func (s *RunnerStack) Runner() *interp.Runner {
	return s.runner
}

// Evaluator invokes shell functions on a RunnerStack.
//
// The function is called as `fn "line" point` with the bash completion
// variables COMP_LINE, COMP_POINT, COMP_WORDS and COMP_CWORD set. If it fills
// COMPREPLY that array is the result. Otherwise its standard output is
// decoded as YAML, which also accepts JSON, so a function may print
// `{"completions": [...]}` or a list.
type Evaluator struct {
	timeout time.Duration
	logger  *zap.Logger
}

// NewEvaluator returns an Evaluator. A positive timeout bounds every call.
func NewEvaluator(timeout time.Duration, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{timeout: timeout, logger: logger}
}

func (e *Evaluator) Invoke(ctx context.Context, stack completion.Stack, call completion.Call) (value.Value, error) {
	rs, ok := stack.(*RunnerStack)
	if !ok || rs == nil || rs.runner == nil {
		return nil, ErrNotRunnerStack
	}
	runner := rs.runner
	if _, ok := runner.Funcs[call.Decl]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, call.Decl)
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(callScript(call)), call.Decl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse completion call: %w", err)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	outBuf := &threadSafeBuffer{}
	errBuf := &threadSafeBuffer{}
	interp.StdIO(nil, outBuf, errBuf)(runner) //nolint:errcheck

	start := time.Now()
	err = runner.Run(ctx, prog)
	e.logger.Debug("completion function finished",
		zap.String("function", call.Decl),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("stderr", errBuf.String()),
		zap.Error(err),
	)
	if err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return nil, fmt.Errorf("%s exited with status %d", call.Decl, status)
		}
		return nil, fmt.Errorf("failed to run %s: %w", call.Decl, err)
	}

	if reply := runner.Vars["COMPREPLY"]; reply.Kind == expand.Indexed && len(reply.List) > 0 {
		return value.Strings(reply.List...), nil
	}
	return decodeOutput(outBuf.String())
}

// callScript sets up the completion variables and calls the function with
// its arguments quoted.
func callScript(call completion.Call) string {
	args := make([]string, len(call.Args))
	for i, arg := range call.Args {
		text, ok := value.AsText(arg)
		if !ok {
			text = arg.String()
		}
		args[i] = text
	}

	var b strings.Builder
	if len(args) >= 2 {
		line := args[0]
		point, err := strconv.Atoi(args[1])
		if err != nil || point < 0 || point > len(line) {
			point = len(line)
		}
		words, cword := compWords(line[:point])

		fmt.Fprintf(&b, "COMP_LINE=%s\n", quote(line))
		fmt.Fprintf(&b, "COMP_POINT=%d\n", point)
		b.WriteString("COMP_WORDS=(")
		for i, w := range words {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(quote(w))
		}
		b.WriteString(")\n")
		fmt.Fprintf(&b, "COMP_CWORD=%d\n", cword)
	}
	b.WriteString("COMPREPLY=()\n")

	b.WriteString(call.Decl)
	for _, arg := range args {
		b.WriteByte(' ')
		b.WriteString(quote(arg))
	}
	b.WriteByte('\n')
	return b.String()
}

// compWords splits the line up to the cursor into words and returns the
// index of the word being completed. A trailing blank starts a new word.
func compWords(beforeCursor string) ([]string, int) {
	words := strings.Fields(beforeCursor)
	if beforeCursor == "" || strings.HasSuffix(beforeCursor, " ") || strings.HasSuffix(beforeCursor, "\t") {
		words = append(words, "")
	}
	return words, len(words) - 1
}

func quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		// Only strings with NUL bytes cannot be quoted.
		return "''"
	}
	return q
}

// decodeOutput reads structured output. Plain text that YAML reads as a
// single string is taken as one candidate per line, as compgen prints them.
func decodeOutput(out string) (value.Value, error) {
	if strings.TrimSpace(out) == "" {
		return &value.List{}, nil
	}

	var decoded interface{}
	if err := yaml.Unmarshal([]byte(out), &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode completion output: %w", err)
	}
	if _, ok := decoded.(string); ok {
		return value.Strings(outputLines(out)...), nil
	}
	return value.FromInterface(decoded), nil
}

func outputLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimRight(line, "\r"); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
