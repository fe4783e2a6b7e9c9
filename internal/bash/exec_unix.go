//go:build !windows

package bash

import (
	"context"
	"os"
	"os/exec"
	"syscall"
	"time"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
)

// NewProcessGroupExecHandler runs external commands in their own process
// group. When ctx is cancelled the whole group gets SIGINT, and SIGKILL once
// killTimeout has passed; a negative killTimeout kills right away. Helpers a
// completion function spawns (git, kubectl, ...) therefore never outlive it.
func NewProcessGroupExecHandler(killTimeout time.Duration) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		hc := interp.HandlerCtx(ctx)
		path, err := interp.LookPathDir(hc.Dir, hc.Env, args[0])
		if err != nil {
			return err
		}

		cmd := exec.Cmd{
			Path:        path,
			Args:        args,
			Dir:         hc.Dir,
			Env:         execEnv(hc.Env),
			Stdin:       hc.Stdin,
			Stdout:      hc.Stdout,
			Stderr:      hc.Stderr,
			SysProcAttr: &syscall.SysProcAttr{Setpgid: true},
		}
		if err := cmd.Start(); err != nil {
			return err
		}
		pgid := cmd.Process.Pid

		waitDone := make(chan error, 1)
		go func() {
			waitDone <- cmd.Wait()
		}()

		select {
		case err := <-waitDone:
			return exitError(err)
		case <-ctx.Done():
		}

		if killTimeout < 0 {
			_ = syscall.Kill(-pgid, syscall.SIGKILL)
			return exitError(<-waitDone)
		}

		_ = syscall.Kill(-pgid, syscall.SIGINT)
		select {
		case err := <-waitDone:
			return exitError(err)
		case <-time.After(killTimeout):
			_ = syscall.Kill(-pgid, syscall.SIGKILL)
			return exitError(<-waitDone)
		}
	}
}

// exitError maps a non-zero exit to the status the interpreter expects.
func exitError(err error) error {
	if exitErr, ok := err.(*exec.ExitError); ok {
		if code := exitErr.ExitCode(); code >= 0 {
			return interp.ExitStatus(uint8(code))
		}
		return interp.ExitStatus(1)
	}
	return err
}

// execEnv lists the exported variables of env as NAME=value pairs.
func execEnv(env expand.Environ) []string {
	var result []string
	env.Each(func(name string, vr expand.Variable) bool {
		if vr.Exported {
			result = append(result, name+"="+vr.String())
		}
		return true
	})
	if len(result) == 0 {
		return os.Environ()
	}
	return result
}
