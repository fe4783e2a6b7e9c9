// Package bash runs the shell functions that back dynamic completions on an
// embedded mvdan.cc/sh interpreter.
package bash

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"
	"time"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// ExecMiddleware wraps an ExecHandlerFunc, e.g. to implement a builtin.
type ExecMiddleware = func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc

// DefaultKillTimeout is how long an external command started by a completion
// function gets to exit after an interrupt before it is killed.
const DefaultKillTimeout = 2 * time.Second

// threadSafeBuffer provides a thread-safe wrapper around bytes.Buffer
type threadSafeBuffer struct {
	buffer bytes.Buffer
	mutex  sync.Mutex
}

func (b *threadSafeBuffer) Write(p []byte) (n int, err error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.Write(p)
}

func (b *threadSafeBuffer) String() string {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.String()
}

// NewRunner creates a runner in dir over environ. External commands run in
// their own process group; middlewares run before them, in order.
func NewRunner(dir string, environ []string, middlewares ...ExecMiddleware) (*interp.Runner, error) {
	handlers := append([]ExecMiddleware{}, middlewares...)
	handlers = append(handlers, func(interp.ExecHandlerFunc) interp.ExecHandlerFunc {
		return NewProcessGroupExecHandler(DefaultKillTimeout)
	})

	return interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(environ...)),
		interp.StdIO(nil, os.Stdout, os.Stderr),
		interp.ExecHandlers(handlers...),
	)
}

// RunScriptFromReader parses and runs a script in runner itself, so the
// functions and variables it defines stay available.
func RunScriptFromReader(ctx context.Context, runner *interp.Runner, reader io.Reader, name string) error {
	prog, err := syntax.NewParser().Parse(reader, name)
	if err != nil {
		return err
	}
	return runner.Run(ctx, prog)
}

// RunScriptFromFile parses and runs a script file in runner.
func RunScriptFromFile(ctx context.Context, runner *interp.Runner, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()
	return RunScriptFromReader(ctx, runner, f, filePath)
}
