// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package scenario

import (
	"bytes"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/zeebo/errs"
	"gopkg.in/yaml.v3"
)

// ErrDefinition is returned for malformed scenario files.
var ErrDefinition = errs.Class("scenario definition")

// Definition is the declarative form of a scenario.
type Definition struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Vars        map[string]string `yaml:"vars,omitempty"`
	Setup       []StepSpec        `yaml:"setup,omitempty"`
	Steps       []StepSpec        `yaml:"steps"`
	Teardown    []StepSpec        `yaml:"teardown,omitempty"`
}

// StepSpec is a single declarative step. Which fields are required depends
// on the action.
type StepSpec struct {
	Action   string        `yaml:"action"`
	Bucket   string        `yaml:"bucket,omitempty"`
	Tab      string        `yaml:"tab,omitempty"`
	Option   string        `yaml:"option,omitempty"`
	Count    *int          `yaml:"count,omitempty"`
	Exists   *bool         `yaml:"exists,omitempty"`
	Duration time.Duration `yaml:"duration,omitempty"`
}

// Label renders the step with its unexpanded arguments.
func (step StepSpec) Label() string {
	parts := []string{step.Action}
	if step.Bucket != "" {
		parts = append(parts, "bucket="+step.Bucket)
	}
	if step.Tab != "" {
		parts = append(parts, "tab="+step.Tab)
	}
	if step.Option != "" {
		parts = append(parts, "option="+strconv.Quote(step.Option))
	}
	if step.Count != nil {
		parts = append(parts, "count="+strconv.Itoa(*step.Count))
	}
	if step.Exists != nil {
		parts = append(parts, "exists="+strconv.FormatBool(*step.Exists))
	}
	if step.Duration != 0 {
		parts = append(parts, "duration="+step.Duration.String())
	}
	return strings.Join(parts, " ")
}

// Parse decodes a scenario definition. Unknown fields are rejected.
func Parse(data []byte) (*Definition, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var def Definition
	if err := decoder.Decode(&def); err != nil {
		return nil, ErrDefinition.Wrap(err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadFile parses the scenario definition stored at path.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrDefinition.Wrap(err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, ErrDefinition.New("%s: %v", path, err)
	}
	return def, nil
}

// Validate checks the actions and their arguments.
func (def *Definition) Validate() error {
	var group errs.Group
	if strings.TrimSpace(def.Name) == "" {
		group.Add(ErrDefinition.New("missing name"))
	}
	if len(def.Steps) == 0 {
		group.Add(ErrDefinition.New("%s: no steps", def.Name))
	}
	for name := range def.Vars {
		if !varName.MatchString(name) {
			group.Add(ErrDefinition.New("%s: invalid variable name %q", def.Name, name))
		}
	}
	for phase, stepSpecs := range map[Phase][]StepSpec{
		PhaseSetup:    def.Setup,
		PhaseStep:     def.Steps,
		PhaseTeardown: def.Teardown,
	} {
		for i, step := range stepSpecs {
			if err := step.validate(); err != nil {
				group.Add(ErrDefinition.New("%s: %s %d: %v", def.Name, phase, i+1, err))
			}
		}
	}
	return group.Err()
}

// Scenario compiles the definition.
func (def *Definition) Scenario() (Scenario, error) {
	if err := def.Validate(); err != nil {
		return Scenario{}, err
	}
	return Scenario{
		Name:     def.Name,
		Prepare:  def.prepare,
		Setup:    compile(def.Setup),
		Steps:    compile(def.Steps),
		Teardown: compile(def.Teardown),
	}, nil
}

// prepare resolves the definition variables in name order. A value of the
// form name(prefix) becomes a unique name.
func (def *Definition) prepare(env *Env) error {
	if env.Vars == nil {
		env.Vars = map[string]string{}
	}
	names := make([]string, 0, len(def.Vars))
	for name := range def.Vars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		raw := strings.TrimSpace(def.Vars[name])
		if match := nameCall.FindStringSubmatch(raw); match != nil {
			prefix, err := expand(match[1], env.Vars)
			if err != nil {
				return err
			}
			env.Vars[name] = env.Name(prefix)
			continue
		}
		value, err := expand(raw, env.Vars)
		if err != nil {
			return err
		}
		env.Vars[name] = value
	}
	return nil
}

var (
	varName  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	varRef   = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)
	nameCall = regexp.MustCompile(`^name\((.*)\)$`)
)

// expand replaces ${var} references. Unknown variables are an error.
func expand(s string, vars map[string]string) (string, error) {
	var missing []string
	expanded := varRef.ReplaceAllStringFunc(s, func(ref string) string {
		name := varRef.FindStringSubmatch(ref)[1]
		value, ok := vars[name]
		if !ok {
			missing = append(missing, name)
		}
		return value
	})
	if len(missing) > 0 {
		return "", ErrDefinition.New("undefined variables %s in %q", strings.Join(missing, ", "), s)
	}
	return expanded, nil
}
