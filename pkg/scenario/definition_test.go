// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package scenario_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"storj.io/common/testcontext"
	"storj.io/console-uitest/pkg/scenario"
)

func TestParse(t *testing.T) {
	def, err := scenario.Parse([]byte(`
name: example
vars:
  bucket: name(${prefix}-x)
  label: fixed-${prefix}
steps:
  - action: wait
    duration: 5ms
  - action: expect-bucket-count
    bucket: ${bucket}
    count: 0
  - action: select-lifecycle-version
    option: Current Version
`))
	require.NoError(t, err)
	require.Equal(t, "example", def.Name)
	require.Len(t, def.Steps, 3)
	require.Equal(t, "wait duration=5ms", def.Steps[0].Label())
	require.Equal(t, "expect-bucket-count bucket=${bucket} count=0", def.Steps[1].Label())
	require.Equal(t, `select-lifecycle-version option="Current Version"`, def.Steps[2].Label())

	compiled, err := def.Scenario()
	require.NoError(t, err)
	require.NotNil(t, compiled.Prepare)

	env := &scenario.Env{Vars: map[string]string{"prefix": "e2e"}}
	require.NoError(t, compiled.Prepare(env))
	require.Regexp(t, `^e2e-x-[0-9a-f]{12}$`, env.Vars["bucket"])
	require.Equal(t, "fixed-e2e", env.Vars["label"])
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		yaml string
		want string
	}{
		{"no name", "steps:\n  - action: load-buckets\n", "missing name"},
		{"no steps", "name: x\n", "no steps"},
		{"unknown action", "name: x\nsteps:\n  - action: fly\n", `unknown action "fly"`},
		{"missing bucket", "name: x\nsteps:\n  - action: open-bucket\n", "open-bucket requires bucket"},
		{"missing count", "name: x\nsteps:\n  - action: expect-lifecycle-rules\n", "requires count"},
		{"unknown field", "name: x\nsteps:\n  - action: load-buckets\n    color: red\n", "color"},
		{"bad var", "name: x\nvars:\n  1x: y\nsteps:\n  - action: load-buckets\n", "invalid variable name"},
	} {
		_, err := scenario.Parse([]byte(tc.yaml))
		require.Error(t, err, tc.name)
		require.True(t, scenario.ErrDefinition.Has(err), tc.name)
		require.Contains(t, err.Error(), tc.want, tc.name)
	}
}

func TestUndefinedVariable(t *testing.T) {
	ctx := testcontext.New(t)

	def, err := scenario.Parse([]byte(`
name: undefined
steps:
  - action: open-bucket
    bucket: ${nope}
`))
	require.NoError(t, err)
	compiled, err := def.Scenario()
	require.NoError(t, err)

	trace, err := scenario.Run(ctx, &scenario.Env{Log: zaptest.NewLogger(t), Vars: map[string]string{}}, compiled, 0)
	require.Error(t, err)
	require.True(t, scenario.ErrDefinition.Has(err))
	require.Contains(t, err.Error(), "undefined variables nope")
	require.Equal(t, "scenario: undefined\nstep     FAIL open-bucket bucket=${nope} (error)\nresult: failed\n", trace.String())
}

func TestBuiltins(t *testing.T) {
	defs, err := scenario.Builtins()
	require.NoError(t, err)

	var names []string
	for _, def := range defs {
		names = append(names, def.Name)
	}
	require.Equal(t, []string{"bucket-lifecycle", "lifecycle-rule", "tab-navigation"}, names)

	scenarios, err := scenario.Compile(defs...)
	require.NoError(t, err)
	require.Len(t, scenarios, 3)

	_, err = scenario.Builtin("nope")
	require.Error(t, err)

	require.Contains(t, scenario.Actions(), "create-bucket")
}
