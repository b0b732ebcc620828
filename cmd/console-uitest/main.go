// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"storj.io/common/cfgstruct"
	"storj.io/common/fpath"
	"storj.io/common/process"
	"storj.io/console-uitest/pkg/s3fixture"
	"storj.io/console-uitest/pkg/scenario"
	"storj.io/console-uitest/private/consoletest"
)

var (
	rootCmd = &cobra.Command{
		Use:   "console-uitest",
		Short: "Console UI end-to-end scenarios",
	}
	setupCmd = &cobra.Command{
		Use:         "setup",
		Short:       "Create config files",
		RunE:        cmdSetup,
		Annotations: map[string]string{"type": "setup"},
	}
	bootstrapCmd = &cobra.Command{
		Use:   "bootstrap",
		Short: "Sign in once and persist the storage state",
		RunE:  cmdBootstrap,
	}
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the configured scenarios",
		RunE:  cmdRun,
	}
	sweepCmd = &cobra.Command{
		Use:   "sweep",
		Short: "Delete buckets left behind by scenarios",
		RunE:  cmdSweep,
	}
	scenariosCmd = &cobra.Command{
		Use:   "scenarios",
		Short: "List builtin scenarios and step actions",
		RunE:  cmdScenarios,
	}
	confDir string

	runCfg   consoletest.Config
	setupCfg consoletest.Config
)

func cmdSetup(cmd *cobra.Command, args []string) (err error) {
	setupDir, err := filepath.Abs(confDir)
	if err != nil {
		return err
	}

	valid, _ := fpath.IsValidSetupDir(setupDir)
	if !valid {
		return fmt.Errorf("console-uitest configuration already exists (%v)", setupDir)
	}

	err = os.MkdirAll(setupDir, 0700)
	if err != nil {
		return err
	}

	return process.SaveConfig(cmd, filepath.Join(setupDir, "config.yaml"))
}

func cmdBootstrap(cmd *cobra.Command, args []string) (err error) {
	ctx, _ := process.Ctx(cmd)
	log := zap.L()

	harness, err := consoletest.New(ctx, log, runCfg)
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, harness.Close()) }()

	sess, err := harness.Bootstrap(ctx)
	if err != nil {
		return err
	}
	log.Info("session ready", zap.Time("created", sess.Created()), zap.String("path", runCfg.Session.StatePath))
	return nil
}

func cmdRun(cmd *cobra.Command, args []string) (err error) {
	ctx, _ := process.Ctx(cmd)
	log := zap.L()

	harness, err := consoletest.New(ctx, log, runCfg)
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, harness.Close()) }()

	if harness.Console != nil {
		log.Info("running against the simulated console")
	}

	report, err := harness.RunScenarios(ctx)
	if err != nil {
		return err
	}
	if _, err := report.WriteTo(cmd.OutOrStdout()); err != nil {
		return err
	}
	return report.Err()
}

func cmdSweep(cmd *cobra.Command, args []string) (err error) {
	ctx, _ := process.Ctx(cmd)
	log := zap.L()

	if !runCfg.S3.Enabled() {
		return errs.New("sweep requires --s3.endpoint")
	}
	creds := runCfg.Credentials.WithEnv()
	if err := creds.Validate(); err != nil {
		return err
	}

	buckets, err := s3fixture.New(log.Named("s3"), runCfg.S3, creds.AccessKey, creds.SecretKey)
	if err != nil {
		return err
	}
	deleted, err := buckets.Sweep(ctx, runCfg.Run.BucketPrefix)
	for _, name := range deleted {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return err
}

func cmdScenarios(cmd *cobra.Command, args []string) (err error) {
	defs, err := scenario.Builtins()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "scenarios:")
	for _, def := range defs {
		_, _ = fmt.Fprintf(out, "  %-20s %s\n", def.Name, def.Description)
	}

	_, _ = fmt.Fprintln(out, "actions:")
	for _, action := range scenario.Actions() {
		_, _ = fmt.Fprintf(out, "  %s\n", action)
	}
	return nil
}

func init() {
	defaultConfDir := fpath.ApplicationDir("storj", "console-uitest")
	cfgstruct.SetupFlag(zap.L(), rootCmd, &confDir, "config-dir", defaultConfDir, "main directory for console-uitest configuration")
	defaults := cfgstruct.DefaultsFlag(rootCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(bootstrapCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(scenariosCmd)
	process.Bind(setupCmd, &setupCfg, defaults, cfgstruct.ConfDir(confDir), cfgstruct.SetupMode())
	process.Bind(bootstrapCmd, &runCfg, defaults, cfgstruct.ConfDir(confDir))
	process.Bind(runCmd, &runCfg, defaults, cfgstruct.ConfDir(confDir))
	process.Bind(sweepCmd, &runCfg, defaults, cfgstruct.ConfDir(confDir))
}

func main() {
	logger, _, _ := process.NewLogger("console-uitest")
	zap.ReplaceGlobals(logger)

	process.Exec(rootCmd)
}
