package completion

import (
	"context"
	"fmt"
	"io"
	"strings"

	"mvdan.cc/sh/v3/interp"
)

// NewCompgenCommandHandler returns exec handler middleware implementing the
// compgen builtin for completion functions:
//
//	compgen -W "words" [--] [word]
//
// prints the words starting with word, one per line.
func NewCompgenCommandHandler() func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
		return func(ctx context.Context, args []string) error {
			if len(args) == 0 || args[0] != "compgen" {
				return next(ctx, args)
			}

			hc := interp.HandlerCtx(ctx)
			found, err := handleCompgenCommand(hc.Stdout, args[1:])
			if err != nil {
				fmt.Fprintf(hc.Stderr, "compgen: %v\n", err)
				return interp.ExitStatus(2)
			}
			if !found {
				return interp.ExitStatus(1)
			}
			return nil
		}
	}
}

func handleCompgenCommand(out io.Writer, args []string) (bool, error) {
	var (
		wordList string
		hasWords bool
		word     string
	)

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-W":
			if i+1 >= len(args) {
				return false, fmt.Errorf("option -W requires a word list")
			}
			i++
			wordList = args[i]
			hasWords = true
		case arg == "--":
			if i+1 < len(args) {
				word = args[i+1]
			}
			i = len(args)
		case strings.HasPrefix(arg, "-"):
			return false, fmt.Errorf("unknown option: %s", arg)
		default:
			word = arg
		}
	}

	if !hasWords {
		return false, fmt.Errorf("no completion type specified")
	}

	found := false
	for _, w := range strings.Fields(wordList) {
		if !strings.HasPrefix(w, word) {
			continue
		}
		found = true
		if _, err := fmt.Fprintln(out, w); err != nil {
			return found, err
		}
	}
	return found, nil
}
