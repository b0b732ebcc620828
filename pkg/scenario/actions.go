// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package scenario

import (
	"context"
	"sort"
	"strconv"
	"time"

	"storj.io/console-uitest/pkg/browser"
)

// args are the expanded arguments of a step.
type args struct {
	Bucket   string
	Tab      string
	Option   string
	Count    int
	Exists   bool
	Duration time.Duration
}

type requirement int

const (
	needBucket requirement = 1 << iota
	needTab
	needOption
	needCount
	needExists
	needDuration
)

type action struct {
	needs requirement
	run   func(ctx context.Context, env *Env, args args) error
}

// actions maps step actions to page object operations.
var actions = map[string]action{
	"load-buckets": {
		run: func(ctx context.Context, env *Env, args args) error {
			list, err := env.BucketList()
			if err != nil {
				return err
			}
			return list.LoadPage(ctx)
		},
	},
	"create-bucket": {
		needs: needBucket,
		run: func(ctx context.Context, env *Env, args args) error {
			list, err := env.BucketList()
			if err != nil {
				return err
			}
			return list.CreateBucket(ctx, args.Bucket)
		},
	},
	"open-bucket": {
		needs: needBucket,
		run: func(ctx context.Context, env *Env, args args) error {
			list, err := env.BucketList()
			if err != nil {
				return err
			}
			return list.OpenBucket(ctx, args.Bucket)
		},
	},
	"delete-bucket": {
		needs: needBucket,
		run: func(ctx context.Context, env *Env, args args) error {
			list, err := env.BucketList()
			if err != nil {
				return err
			}
			return list.DeleteBucket(ctx, args.Bucket)
		},
	},
	"expect-bucket-count": {
		needs: needBucket | needCount,
		run: func(ctx context.Context, env *Env, args args) error {
			list, err := env.BucketList()
			if err != nil {
				return err
			}
			count, err := list.IsBucketPresent(ctx, args.Bucket)
			if err != nil {
				return err
			}
			return Equal("rows of bucket "+args.Bucket, args.Count, count)
		},
	},
	"wait-bucket-count": {
		needs: needBucket | needCount,
		run: func(ctx context.Context, env *Env, args args) error {
			list, err := env.BucketList()
			if err != nil {
				return err
			}
			err = list.WaitBucketCount(ctx, args.Bucket, args.Count)
			if browser.ErrTimeout.Has(err) {
				count, countErr := list.IsBucketPresent(ctx, args.Bucket)
				if countErr != nil {
					return countErr
				}
				return Equal("rows of bucket "+args.Bucket, args.Count, count)
			}
			return err
		},
	},
	"switch-tab": {
		needs: needTab,
		run: func(ctx context.Context, env *Env, args args) error {
			summary, err := env.BucketSummary()
			if err != nil {
				return err
			}
			return summary.SwitchTab(ctx, args.Tab)
		},
	},
	"confirm-delete": {
		run: func(ctx context.Context, env *Env, args args) error {
			summary, err := env.BucketSummary()
			if err != nil {
				return err
			}
			return summary.ConfirmDelete(ctx)
		},
	},
	"open-replication": {
		run: func(ctx context.Context, env *Env, args args) error {
			summary, err := env.BucketSummary()
			if err != nil {
				return err
			}
			return summary.OpenReplication(ctx)
		},
	},
	"open-lifecycle-version": {
		run: func(ctx context.Context, env *Env, args args) error {
			summary, err := env.BucketSummary()
			if err != nil {
				return err
			}
			_, err = summary.OpenLifecycleVersionSelector(ctx)
			return err
		},
	},
	"select-lifecycle-version": {
		needs: needOption,
		run: func(ctx context.Context, env *Env, args args) error {
			summary, err := env.BucketSummary()
			if err != nil {
				return err
			}
			return summary.SelectLifecycleVersionOption(ctx, args.Option)
		},
	},
	"save-lifecycle-rule": {
		run: func(ctx context.Context, env *Env, args args) error {
			summary, err := env.BucketSummary()
			if err != nil {
				return err
			}
			return summary.SaveLifecycleRule(ctx)
		},
	},
	"expect-lifecycle-rules": {
		needs: needCount,
		run: func(ctx context.Context, env *Env, args args) error {
			summary, err := env.BucketSummary()
			if err != nil {
				return err
			}
			count, err := summary.LifecycleRuleCount(ctx)
			if err != nil {
				return err
			}
			return Equal("lifecycle rules", args.Count, count)
		},
	},
	"ensure-bucket": {
		needs: needBucket,
		run: func(ctx context.Context, env *Env, args args) error {
			if env.Fixture == nil {
				return Error.New("ensure-bucket requires an out-of-band fixture")
			}
			return env.Fixture.EnsureBucket(ctx, args.Bucket)
		},
	},
	"remove-bucket": {
		needs: needBucket,
		run: func(ctx context.Context, env *Env, args args) error {
			if env.Fixture != nil {
				return env.Fixture.DeleteBucket(ctx, args.Bucket)
			}
			list, err := env.BucketList()
			if err != nil {
				return err
			}
			return list.RemoveBucket(ctx, args.Bucket)
		},
	},
	"expect-bucket-exists": {
		needs: needBucket | needExists,
		run: func(ctx context.Context, env *Env, args args) error {
			if env.Fixture == nil {
				return Error.New("expect-bucket-exists requires an out-of-band fixture")
			}
			exists, err := env.Fixture.BucketExists(ctx, args.Bucket)
			if err != nil {
				return err
			}
			return Equal("bucket "+args.Bucket+" exists", args.Exists, exists)
		},
	},
	"wait": {
		needs: needDuration,
		run: func(ctx context.Context, env *Env, args args) error {
			return env.Page.WaitForTimeout(ctx, args.Duration)
		},
	},
}

// Actions returns the names of all step actions.
func Actions() []string {
	names := make([]string, 0, len(actions))
	for name := range actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (step StepSpec) validate() error {
	act, ok := actions[step.Action]
	if !ok {
		return Error.New("unknown action %q", step.Action)
	}
	missing := func(need requirement, present bool, field string) error {
		if act.needs&need != 0 && !present {
			return Error.New("%s requires %s", step.Action, field)
		}
		return nil
	}
	if err := missing(needBucket, step.Bucket != "", "bucket"); err != nil {
		return err
	}
	if err := missing(needTab, step.Tab != "", "tab"); err != nil {
		return err
	}
	if err := missing(needOption, step.Option != "", "option"); err != nil {
		return err
	}
	if err := missing(needCount, step.Count != nil, "count"); err != nil {
		return err
	}
	if err := missing(needExists, step.Exists != nil, "exists"); err != nil {
		return err
	}
	if err := missing(needDuration, step.Duration > 0, "duration"); err != nil {
		return err
	}
	if step.Count != nil && *step.Count < 0 {
		return Error.New("%s: negative count %s", step.Action, strconv.Itoa(*step.Count))
	}
	return nil
}

func (step StepSpec) resolve(vars map[string]string) (resolved args, err error) {
	if resolved.Bucket, err = expand(step.Bucket, vars); err != nil {
		return resolved, err
	}
	if resolved.Tab, err = expand(step.Tab, vars); err != nil {
		return resolved, err
	}
	if resolved.Option, err = expand(step.Option, vars); err != nil {
		return resolved, err
	}
	if step.Count != nil {
		resolved.Count = *step.Count
	}
	if step.Exists != nil {
		resolved.Exists = *step.Exists
	}
	resolved.Duration = step.Duration
	return resolved, nil
}

func compile(stepSpecs []StepSpec) []Step {
	steps := make([]Step, 0, len(stepSpecs))
	for _, step := range stepSpecs {
		act := actions[step.Action]
		steps = append(steps, Step{
			Name: step.Label(),
			Run: func(ctx context.Context, env *Env) error {
				resolved, err := step.resolve(env.Vars)
				if err != nil {
					return err
				}
				return act.run(ctx, env, resolved)
			},
		})
	}
	return steps
}

