// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package scenario

import (
	"embed"
	"io/fs"
	"sort"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Builtins returns the scenarios shipped with the module, sorted by name.
func Builtins() ([]*Definition, error) {
	paths, err := fs.Glob(builtinFS, "builtin/*.yaml")
	if err != nil {
		return nil, Error.Wrap(err)
	}

	defs := make([]*Definition, 0, len(paths))
	for _, path := range paths {
		data, err := builtinFS.ReadFile(path)
		if err != nil {
			return nil, Error.Wrap(err)
		}
		def, err := Parse(data)
		if err != nil {
			return nil, ErrDefinition.New("%s: %v", path, err)
		}
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, k int) bool { return defs[i].Name < defs[k].Name })
	return defs, nil
}

// Builtin returns the shipped scenario called name.
func Builtin(name string) (*Definition, error) {
	defs, err := Builtins()
	if err != nil {
		return nil, err
	}
	for _, def := range defs {
		if def.Name == name {
			return def, nil
		}
	}
	return nil, Error.New("no builtin scenario %q", name)
}

// Compile turns definitions into runnable scenarios.
func Compile(defs ...*Definition) ([]Scenario, error) {
	scenarios := make([]Scenario, 0, len(defs))
	for _, def := range defs {
		scenario, err := def.Scenario()
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios, nil
}
