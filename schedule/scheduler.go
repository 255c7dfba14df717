package schedule

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// REFRESH is the default interval at which a running scheduler re-reads the registry.
const REFRESH = time.Minute

// Handler is the entry point invoked by a trigger.
type Handler func(ctx context.Context) error

// Scheduler fires the handlers bound to the triggers in a registry. The registry is
// re-read every Refresh interval so that triggers installed or removed while the
// scheduler is running take effect without a restart.
type Scheduler struct {
	Registry  Registry
	Handlers  map[string]Handler
	Refresh   time.Duration
	KeepAlive bool
}

type job struct {
	trigger Trigger
	stop    chan struct{}
}

// Run starts a ticker for every registered trigger with a known handler and blocks
// until the context is cancelled. Handler errors are logged and the trigger keeps
// running. Returns ErrNoTriggers if there is nothing to run at startup, unless
// KeepAlive is set.
func (s *Scheduler) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	jobs := map[string]*job{}
	ignored := map[string]bool{}

	reconcile := func() error {
		triggers, err := s.Registry.List()
		if err != nil {
			return err
		}

		wanted := map[string]Trigger{}
		for _, t := range triggers {
			if _, ok := s.Handlers[t.Handler]; !ok {
				if !ignored[t.ID] {
					warnf("trigger %v: unknown handler '%v'", t.ID, t.Handler)
				}
				ignored[t.ID] = true
			} else if t.Interval <= 0 {
				if !ignored[t.ID] {
					warnf("trigger %v: %v (%v)", t.ID, ErrInvalidInterval, t.Interval)
				}
				ignored[t.ID] = true
			} else {
				wanted[t.ID] = t
			}
		}

		for id, j := range jobs {
			if t, ok := wanted[id]; !ok || t.Interval != j.trigger.Interval || t.Handler != j.trigger.Handler {
				close(j.stop)
				delete(jobs, id)
			}
		}

		for id, t := range wanted {
			if _, ok := jobs[id]; ok {
				continue
			}

			j := &job{
				trigger: t,
				stop:    make(chan struct{}),
			}

			jobs[id] = j
			infof("scheduled '%v' every %v", t.Handler, t.Interval)

			wg.Add(1)
			go func(j *job, h Handler) {
				defer wg.Done()
				s.loop(ctx, j, h)
			}(j, s.Handlers[t.Handler])
		}

		return nil
	}

	if err := reconcile(); err != nil {
		return err
	}

	if len(jobs) == 0 && !s.KeepAlive {
		return ErrNoTriggers
	}

	refresh := s.Refresh
	if refresh <= 0 {
		refresh = REFRESH
	}

	ticker := time.NewTicker(refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil

		case <-ticker.C:
			if err := reconcile(); err != nil {
				warnf("error reading triggers (%v)", err)
			}
		}
	}
}

func (s *Scheduler) loop(ctx context.Context, j *job, h Handler) {
	ticker := time.NewTicker(j.trigger.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			infof("trigger %v stopped", j.trigger.ID)
			return

		case <-j.stop:
			infof("trigger %v removed", j.trigger.ID)
			return

		case <-ticker.C:
			if err := h(ctx); err != nil {
				warnf("trigger %v: %v", j.trigger.ID, err)
			}
		}
	}
}

func infof(format string, args ...any) {
	log.Printf("%-5s %s", "INFO", fmt.Sprintf(format, args...))
}

func warnf(format string, args ...any) {
	log.Printf("%-5s %s", "WARN", fmt.Sprintf(format, args...))
}
