// Package environment exposes shell variables to the completion engine as
// structured values.
package environment

import (
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"

	"github.com/atinylittleshell/gshcomplete/internal/value"
)

// listVars are split on the path list separator and returned as lists.
var listVars = map[string]bool{
	"PATH": true,
}

// Env reads variables from an expand.Environ.
type Env struct {
	environ expand.Environ
}

// FromRunner reads variables from the runner's current environment. The
// working directory comes from the runner, which keeps PWD current across cd.
func FromRunner(runner *interp.Runner) *Env {
	if runner == nil {
		return FromEnviron(expand.ListEnviron())
	}
	return FromEnviron(runnerEnviron{runner: runner})
}

// FromEnviron wraps an expand.Environ.
func FromEnviron(environ expand.Environ) *Env {
	return &Env{environ: environ}
}

// FromPairs builds an Env from "NAME=value" pairs.
func FromPairs(pairs ...string) *Env {
	return FromEnviron(expand.ListEnviron(pairs...))
}

// FromOS builds an Env from the process environment.
func FromOS() *Env {
	return FromPairs(os.Environ()...)
}

// Lookup returns the variable as a value. List variables such as PATH come
// back as a list of strings with empty entries dropped.
func (e *Env) Lookup(name string) (value.Value, bool) {
	vr := e.environ.Get(name)
	if !vr.IsSet() {
		return nil, false
	}

	if vr.Kind == expand.Indexed {
		return value.Strings(vr.List...), true
	}

	str := vr.String()
	if listVars[name] {
		return value.Strings(SplitList(str)...), true
	}
	return &value.String{Value: str}, true
}

// SplitList splits a PATH-style list, dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, dir := range filepath.SplitList(s) {
		if strings.TrimSpace(dir) != "" {
			out = append(out, dir)
		}
	}
	return out
}

// runnerEnviron layers the runner's variables over its starting environment.
type runnerEnviron struct {
	runner *interp.Runner
}

func (r runnerEnviron) Get(name string) expand.Variable {
	if name == "PWD" && r.runner.Dir != "" {
		return expand.Variable{Exported: true, Kind: expand.String, Str: r.runner.Dir}
	}
	if vr, ok := r.runner.Vars[name]; ok {
		return vr
	}
	if r.runner.Env != nil {
		return r.runner.Env.Get(name)
	}
	return expand.Variable{}
}

func (r runnerEnviron) Each(fn func(name string, vr expand.Variable) bool) {
	seen := make(map[string]bool, len(r.runner.Vars))
	for name, vr := range r.runner.Vars {
		seen[name] = true
		if !fn(name, vr) {
			return
		}
	}
	if r.runner.Env == nil {
		return
	}
	r.runner.Env.Each(func(name string, vr expand.Variable) bool {
		if seen[name] {
			return true
		}
		return fn(name, vr)
	})
}
