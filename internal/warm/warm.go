// Package warm prefetches many classes into a pool concurrently, forcing each
// one's memoized facts, superclass chain and interfaces.
package warm

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"hier/internal/classpool"
	"hier/internal/hierarchy"
)

// Stage is one step of warming a single class.
type Stage string

const (
	// StageResolve looks the class up in the pool.
	StageResolve Stage = "resolve"
	// StageFacts fetches name and modifiers.
	StageFacts Stage = "facts"
	// StageChain walks the superclass chain.
	StageChain Stage = "chain"
	// StageInterfaces collects inherited interfaces.
	StageInterfaces Stage = "interfaces"
)

// Status captures progress within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for one identifier.
type Event struct {
	ID      string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// Sink consumes progress events. It is called from worker goroutines.
type Sink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// Options controls Prefetch.
type Options struct {
	// Jobs limits concurrent workers; 0 means GOMAXPROCS.
	Jobs int
	// Progress receives per-identifier events when set.
	Progress Sink
	// KeepGoing records failures in the results instead of stopping the run.
	KeepGoing bool
}

// Result is the outcome for one identifier.
type Result struct {
	ID         string
	Class      *classpool.Class
	Superclass int // length of the superclass chain
	Interfaces int // number of interfaces, inherited ones included
	Err        error
	Elapsed    time.Duration
}

// Prefetch warms ids in the resolver's pool. Results are in input order.
// Without KeepGoing the first failure cancels work not yet started and is returned.
func Prefetch(ctx context.Context, r *hierarchy.Resolver, ids []string, opts Options) ([]Result, error) {
	results := make([]Result, len(ids))
	if len(ids) == 0 {
		return results, nil
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	emit := func(ev Event) {
		if opts.Progress != nil {
			opts.Progress.OnEvent(ev)
		}
	}
	for _, id := range ids {
		emit(Event{ID: id, Stage: StageResolve, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(ids)))
	for i, id := range ids {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				results[i] = Result{ID: id, Err: gctx.Err()}
				return gctx.Err()
			default:
			}
			start := time.Now()
			res := warmOne(r, id, emit)
			res.Elapsed = time.Since(start)
			results[i] = res
			if res.Err != nil {
				emit(Event{ID: id, Status: StatusError, Err: res.Err, Elapsed: res.Elapsed})
				if !opts.KeepGoing {
					return res.Err
				}
				return nil
			}
			emit(Event{ID: id, Status: StatusDone, Elapsed: res.Elapsed})
			return nil
		})
	}
	err := g.Wait()
	return results, err
}

func warmOne(r *hierarchy.Resolver, id string, emit func(Event)) Result {
	res := Result{ID: id}

	emit(Event{ID: id, Stage: StageResolve, Status: StatusWorking})
	c, err := r.Pool().Resolve(id)
	if err != nil {
		res.Err = err
		return res
	}
	res.Class = c

	emit(Event{ID: id, Stage: StageFacts, Status: StatusWorking})
	if _, err := c.Name(); err != nil {
		res.Err = err
		return res
	}
	if _, err := c.Modifiers(); err != nil {
		res.Err = err
		return res
	}

	emit(Event{ID: id, Stage: StageChain, Status: StatusWorking})
	chain, err := r.Superclasses(c)
	if err != nil {
		res.Err = err
		return res
	}
	res.Superclass = len(chain)
	for _, super := range chain {
		if _, err := super.Modifiers(); err != nil {
			res.Err = err
			return res
		}
	}

	emit(Event{ID: id, Stage: StageInterfaces, Status: StatusWorking})
	all, err := r.AllInterfaces(c)
	if err != nil {
		res.Err = err
		return res
	}
	res.Interfaces = len(all)
	return res
}
