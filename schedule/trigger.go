// Package schedule maintains the periodic triggers that invoke a named handler
// (e.g. 'sync') and runs them.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const HOURLY = time.Hour

var (
	ErrInvalidInterval = errors.New("invalid trigger interval")
	ErrTriggerNotFound = errors.New("trigger not found")
	ErrNoTriggers      = errors.New("no triggers registered")
)

// Trigger binds a handler to a fixed interval.
type Trigger struct {
	ID       string        `json:"id"`
	Handler  string        `json:"handler"`
	Interval time.Duration `json:"interval"`
	Created  time.Time     `json:"created"`
}

func (t Trigger) String() string {
	return fmt.Sprintf("%v  %-8v every %v", t.ID, t.Handler, t.Interval)
}

// Registry stores the set of installed triggers.
type Registry interface {
	List() ([]Trigger, error)
	Create(trigger Trigger) error
	Delete(id string) error
}

// Install reconciles the registry so that exactly one trigger is bound to the
// handler with the requested interval. Any other triggers bound to the handler are
// removed, triggers for other handlers are left as is. Returns the installed trigger.
func Install(registry Registry, handler string, interval time.Duration) (*Trigger, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w (%v)", ErrInvalidInterval, interval)
	}

	triggers, err := registry.List()
	if err != nil {
		return nil, err
	}

	var installed *Trigger

	for _, t := range triggers {
		if t.Handler != handler {
			continue
		}

		if installed == nil && t.Interval == interval {
			trigger := t
			installed = &trigger
			continue
		}

		if err := registry.Delete(t.ID); err != nil {
			return nil, err
		}
	}

	if installed != nil {
		return installed, nil
	}

	trigger := Trigger{
		ID:       uuid.NewString(),
		Handler:  handler,
		Interval: interval,
		Created:  time.Now(),
	}

	if err := registry.Create(trigger); err != nil {
		return nil, err
	}

	return &trigger, nil
}
