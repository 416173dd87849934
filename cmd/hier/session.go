package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"hier/internal/config"
	"hier/internal/hier"
	"hier/internal/observ"
	"hier/internal/prof"
	"hier/internal/provider/fixture"
	"hier/internal/trace"
)

// session is everything a query command needs: the resolved configuration,
// the fixture provider and an engine over it.
type session struct {
	cfg     config.Config
	fixture *fixture.Provider
	engine  *hier.Engine
	tracer  trace.Tracer
	timer   *observ.Timer
	out     io.Writer
}

// loadConfig reads --config (or discovers hier.toml) and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	path, err := flags.GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return config.Config{}, fmt.Errorf("failed to get working directory: %w", wdErr)
		}
		cfg, err = config.Discover(wd)
	}
	if err != nil {
		return config.Config{}, err
	}

	if flags.Changed("fixture") {
		fx, err := flags.GetString("fixture")
		if err != nil {
			return config.Config{}, err
		}
		if strings.TrimSpace(fx) == "" {
			return config.Config{}, config.ErrEmptyFixture
		}
		cfg.Provider.Fixture = fx
	}
	if flags.Changed("assignability-cache") {
		n, err := flags.GetInt("assignability-cache")
		if err != nil {
			return config.Config{}, err
		}
		cfg.Cache.Assignability = n
	}
	if err := applyTraceFlags(cmd, &cfg); err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// withSession opens a session, runs fn and tears the session down. Timings are
// printed to stderr when --timings is set.
func withSession(cmd *cobra.Command, fn func(s *session) error) (err error) {
	timer := observ.NewTimer()
	var cfg config.Config
	if err := timer.Measure("load config", func() error {
		var loadErr error
		cfg, loadErr = loadConfig(cmd)
		return loadErr
	}); err != nil {
		return err
	}

	profOpts, err := profileOptions(cmd)
	if err != nil {
		return err
	}
	if profOpts.Enabled() {
		profiling, startErr := prof.Start(profOpts)
		if startErr != nil {
			return startErr
		}
		defer func() {
			if stopErr := profiling.Stop(); stopErr != nil && err == nil {
				err = stopErr
			}
		}()
	}

	tracer, cleanup, err := setupTracing(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { cleanup(err != nil) }()

	cmdSpan := trace.Begin(tracer, trace.ScopeCommand, cmd.CommandPath(), 0)
	defer func() {
		if err != nil {
			cmdSpan.EndErr(err)
			return
		}
		cmdSpan.End("")
	}()

	var prov *fixture.Provider
	if err := timer.Measure("load fixture", func() error {
		h, openErr := fixture.Open(cfg.Provider.Fixture)
		if openErr != nil {
			return openErr
		}
		prov, openErr = fixture.New(h)
		return openErr
	}); err != nil {
		return err
	}

	s := &session{
		cfg:     cfg,
		fixture: prov,
		tracer:  tracer,
		timer:   timer,
		out:     cmd.OutOrStdout(),
		engine: hier.New(prov, hier.Options{
			Tracer:             tracer,
			AssignabilityCache: cfg.Cache.Assignability,
			Capacity:           cfg.Cache.Capacity,
		}),
	}

	err = timer.Measure(cmd.Name(), func() error { return fn(s) })

	if showTimings, flagErr := cmd.Flags().GetBool("timings"); flagErr == nil && showTimings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
		fmt.Fprintf(cmd.ErrOrStderr(), "  %-20s %7d\n", "cached classes", s.engine.CacheSize())
	}
	return err
}

func profileOptions(cmd *cobra.Command) (prof.Options, error) {
	var opts prof.Options
	var err error
	flags := cmd.Flags()
	if opts.CPU, err = flags.GetString("cpuprofile"); err != nil {
		return opts, err
	}
	if opts.Mem, err = flags.GetString("memprofile"); err != nil {
		return opts, err
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return opts, err
	}
	return opts, nil
}
