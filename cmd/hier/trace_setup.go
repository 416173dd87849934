package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hier/internal/config"
	"hier/internal/trace"
)

// applyTraceFlags overlays explicitly set trace flags on cfg.
func applyTraceFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("trace") {
		out, err := flags.GetString("trace")
		if err != nil {
			return fmt.Errorf("failed to get trace flag: %w", err)
		}
		cfg.Trace.Output = out
		// Asking for an output without a level means "trace something".
		if !flags.Changed("trace-level") && cfg.Trace.Level == "off" {
			cfg.Trace.Level = "phase"
		}
	}
	if flags.Changed("trace-level") {
		level, err := flags.GetString("trace-level")
		if err != nil {
			return fmt.Errorf("failed to get trace-level flag: %w", err)
		}
		cfg.Trace.Level = level
	}
	if flags.Changed("trace-mode") {
		mode, err := flags.GetString("trace-mode")
		if err != nil {
			return fmt.Errorf("failed to get trace-mode flag: %w", err)
		}
		cfg.Trace.Mode = mode
	}
	if flags.Changed("trace-ring-size") {
		size, err := flags.GetInt("trace-ring-size")
		if err != nil {
			return fmt.Errorf("failed to get trace-ring-size flag: %w", err)
		}
		cfg.Trace.RingSize = size
	}
	return nil
}

// setupTracing builds the tracer described by cfg and attaches it to the
// command context. The cleanup flushes the tracer and, when failed is true
// and a ring is kept, dumps the ring to stderr.
func setupTracing(cmd *cobra.Command, cfg config.Config) (trace.Tracer, func(failed bool), error) {
	tcfg, err := cfg.TracerConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace configuration: %w", err)
	}
	if tcfg.OutputPath == "-" || tcfg.OutputPath == "" {
		tcfg.Output = cmd.ErrOrStderr()
	}
	tracer, err := trace.New(tcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	cleanup := func(failed bool) {
		if failed && tcfg.Mode != trace.ModeStream {
			if ring, ok := trace.RingOf(tracer); ok {
				fmt.Fprintln(cmd.ErrOrStderr(), "trace: last events before failure:")
				if err := ring.Dump(cmd.ErrOrStderr(), trace.FormatText); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
				}
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return tracer, cleanup, nil
}
