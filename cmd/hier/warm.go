package main

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-set/v3"
	"github.com/spf13/cobra"

	"hier/internal/classpool"
	"hier/internal/warm"
)

func newWarmCmd() *cobra.Command {
	var (
		jobs      int
		uiFlag    string
		keepGoing bool
	)
	cmd := &cobra.Command{
		Use:   "warm <id>...",
		Short: "Prefetch classes, their superclass chains and interfaces in parallel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := readUIMode(uiFlag)
			if err != nil {
				return err
			}
			ids := uniqueIDs(args)
			return withSession(cmd, func(s *session) error {
				opts := warm.Options{Jobs: jobs, KeepGoing: keepGoing}
				if !cmd.Flags().Changed("jobs") {
					opts.Jobs = s.cfg.Cache.PrefetchJobs
				}

				var results []warm.Result
				var err error
				if shouldUseTUI(mode, s.out) {
					results, err = runWarmWithUI(cmd.Context(), s.out, s.engine.Resolver(), ids, opts)
				} else {
					results, err = warm.Prefetch(cmd.Context(), s.engine.Resolver(), ids, opts)
				}
				printWarmResults(s, results)
				if err != nil {
					return err
				}
				for _, res := range results {
					if res.Err != nil {
						return fmt.Errorf("%d of %d classes failed", countFailed(results), len(results))
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "number of parallel workers (0 = GOMAXPROCS or [cache].prefetch_jobs)")
	cmd.Flags().StringVar(&uiFlag, "ui", "auto", "progress view (auto|on|off)")
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "continue after a class fails to load")
	return cmd
}

func printWarmResults(s *session, results []warm.Result) {
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(s.out, "%s %s: %v\n", failColor.Sprint("error"), res.ID, res.Err)
			continue
		}
		if res.Class == nil {
			continue
		}
		fmt.Fprintf(s.out, "%s %s (%d superclasses, %d interfaces) %s\n",
			okColor.Sprint("ok"), res.Class.SourceName(), res.Superclass, res.Interfaces,
			res.Elapsed.Round(time.Microsecond))
	}
	fmt.Fprintf(s.out, "%d classes cached\n", s.engine.CacheSize())
}

// uniqueIDs drops repeated identifiers, keeping first-seen order. Spellings
// that canonicalize to the same key count as repeats.
func uniqueIDs(args []string) []string {
	seen := set.New[string](len(args))
	out := make([]string, 0, len(args))
	for _, id := range args {
		if seen.Insert(classpool.Key(id)) {
			out = append(out, id)
		}
	}
	return out
}

func countFailed(results []warm.Result) int {
	n := 0
	for _, res := range results {
		if res.Err != nil {
			n++
		}
	}
	return n
}
