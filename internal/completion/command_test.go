package completion

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// runWithComplete runs script in a runner that has the complete builtin.
func runWithComplete(t *testing.T, registry *SpecRegistry, script string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	runner, err := interp.New(
		interp.StdIO(nil, &stdout, &stderr),
		interp.ExecHandlers(NewCompleteCommandHandler(registry)),
	)
	require.NoError(t, err)

	file, err := syntax.NewParser().Parse(strings.NewReader(script), "")
	require.NoError(t, err)

	err = runner.Run(context.Background(), file)
	return stdout.String(), stderr.String(), err
}

func TestCompleteBuiltin(t *testing.T) {
	registry := NewSpecRegistry()

	_, _, err := runWithComplete(t, registry, `
complete -W "add commit push" git
complete -F _docker docker podman
`)
	require.NoError(t, err)

	spec, ok := registry.GetSpec("git")
	require.True(t, ok)
	assert.Equal(t, CompletionSpec{Command: "git", Type: WordListCompletion, Value: "add commit push"}, spec)

	for _, command := range []string{"docker", "podman"} {
		spec, ok = registry.GetSpec(command)
		require.True(t, ok, command)
		assert.Equal(t, FunctionCompletion, spec.Type)
		assert.Equal(t, "_docker", spec.Value)
	}

	t.Run("print all", func(t *testing.T) {
		stdout, _, err := runWithComplete(t, registry, "complete -p")
		require.NoError(t, err)
		assert.Equal(t,
			"complete -F _docker docker\n"+
				"complete -W \"add commit push\" git\n"+
				"complete -F _docker podman\n",
			stdout)
	})

	t.Run("print one", func(t *testing.T) {
		stdout, _, err := runWithComplete(t, registry, "complete -p git missing")
		require.NoError(t, err)
		assert.Equal(t, "complete -W \"add commit push\" git\n", stdout)
	})

	t.Run("remove", func(t *testing.T) {
		_, _, err := runWithComplete(t, registry, "complete -r git")
		require.NoError(t, err)
		_, ok := registry.GetSpec("git")
		assert.False(t, ok)

		_, _, err = runWithComplete(t, registry, "complete -r")
		require.NoError(t, err)
		assert.Empty(t, registry.ListSpecs())
	})

	t.Run("other commands pass through", func(t *testing.T) {
		stdout, _, err := runWithComplete(t, registry, "echo hello")
		require.NoError(t, err)
		assert.Equal(t, "hello\n", stdout)
	})
}

func TestCompleteBuiltinErrors(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		message string
	}{
		{name: "missing word list", script: "complete -W", message: "option -W requires a word list"},
		{name: "missing function", script: "complete -F", message: "option -F requires a function name"},
		{name: "unknown option", script: "complete -X test", message: "unknown option: -X"},
		{name: "no command", script: `complete -W "a b"`, message: "no command specified"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := runWithComplete(t, NewSpecRegistry(), tt.script)
			assert.Error(t, err)
			assert.Equal(t, "complete: "+tt.message+"\n", stderr)
		})
	}
}

func TestHandleCompleteCommand(t *testing.T) {
	t.Run("print with no specs", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, handleCompleteCommand(NewSpecRegistry(), &out, []string{"-p"}))
		assert.Empty(t, out.String())
	})

	t.Run("no arguments prints every spec", func(t *testing.T) {
		registry := NewSpecRegistry()
		registry.AddSpec(CompletionSpec{Command: "git", Type: FunctionCompletion, Value: "_git"})

		var out bytes.Buffer
		require.NoError(t, handleCompleteCommand(registry, &out, []string{}))
		assert.Equal(t, "complete -F _git git\n", out.String())
	})

	t.Run("bare command name without print flag", func(t *testing.T) {
		var out bytes.Buffer
		err := handleCompleteCommand(NewSpecRegistry(), &out, []string{"mycommand"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid complete command usage")
	})
}
