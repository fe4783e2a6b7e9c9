package completion

import (
	"context"
	"fmt"
	"io"
	"strings"

	"mvdan.cc/sh/v3/interp"
)

// NewCompleteCommandHandler returns exec handler middleware implementing the
// complete builtin against registry:
//
//	complete -F func cmd...   complete cmd with a shell function
//	complete -W "words" cmd...
//	complete -r [cmd...]      remove specs, all of them without arguments
//	complete [-p] [cmd...]    print specs in reusable form
func NewCompleteCommandHandler(registry *SpecRegistry) func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
		return func(ctx context.Context, args []string) error {
			if len(args) == 0 || args[0] != "complete" {
				return next(ctx, args)
			}

			hc := interp.HandlerCtx(ctx)
			if err := handleCompleteCommand(registry, hc.Stdout, args[1:]); err != nil {
				fmt.Fprintf(hc.Stderr, "complete: %v\n", err)
				return interp.ExitStatus(2)
			}
			return nil
		}
	}
}

func handleCompleteCommand(registry *SpecRegistry, out io.Writer, args []string) error {
	var (
		printMode  bool
		removeMode bool
		wordList   string
		hasWords   bool
		function   string
		commands   []string
	)

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-p":
			printMode = true
		case "-r":
			removeMode = true
		case "-W":
			if i+1 >= len(args) {
				return fmt.Errorf("option -W requires a word list")
			}
			i++
			wordList = args[i]
			hasWords = true
		case "-F":
			if i+1 >= len(args) {
				return fmt.Errorf("option -F requires a function name")
			}
			i++
			function = args[i]
		default:
			if strings.HasPrefix(arg, "-") {
				return fmt.Errorf("unknown option: %s", arg)
			}
			commands = append(commands, arg)
		}
	}

	switch {
	case removeMode:
		if len(commands) == 0 {
			registry.Clear()
		}
		for _, command := range commands {
			registry.RemoveSpec(command)
		}
		return nil

	case function != "" || hasWords:
		if len(commands) == 0 {
			return fmt.Errorf("no command specified")
		}
		spec := CompletionSpec{Type: FunctionCompletion, Value: function}
		if function == "" {
			spec = CompletionSpec{Type: WordListCompletion, Value: wordList}
		}
		for _, command := range commands {
			spec.Command = command
			registry.AddSpec(spec)
		}
		return nil

	case printMode || len(commands) == 0:
		return printCompletionSpecs(registry, out, commands)

	default:
		return fmt.Errorf("invalid complete command usage")
	}
}

func printCompletionSpecs(registry *SpecRegistry, out io.Writer, commands []string) error {
	specs := registry.ListSpecs()
	if len(commands) > 0 {
		specs = specs[:0]
		for _, command := range commands {
			if spec, ok := registry.GetSpec(command); ok {
				specs = append(specs, spec)
			}
		}
	}

	for _, spec := range specs {
		var err error
		switch spec.Type {
		case WordListCompletion:
			_, err = fmt.Fprintf(out, "complete -W %q %s\n", spec.Value, spec.Command)
		case FunctionCompletion:
			_, err = fmt.Fprintf(out, "complete -F %s %s\n", spec.Value, spec.Command)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
