package selene

import (
	"time"

	"github.com/pkg/errors"
)

// Entity is implemented by Browser, Element and Collection.
type Entity interface {
	// String renders the entity chain, for example
	// "browser.element('#form').all('input')[0]".
	String() string
	// Config returns the configuration the entity waits with.
	Config() *Config
}

// Step describes one waited operation.
type Step struct {
	Entity    string
	Operation string
	Timeout   time.Duration
}

func (s Step) String() string { return s.Entity + "." + s.Operation }

// WaitFunc runs attempt until it succeeds or the wait gives up.
type WaitFunc func(attempt func() error) error

// WaitDecorator wraps a wait. A decorator may act around the whole wait by
// wrapping the call to next, or around every attempt by passing a wrapped
// attempt to next.
type WaitDecorator func(step Step, next WaitFunc) WaitFunc

// Wait runs q against entity until it returns without error or the entity
// timeout expires. The first attempt happens immediately and the following
// ones every PollInterval, never sleeping past the deadline.
//
// On expiry the last failure is returned wrapped in a *TimeoutError, passed
// through Config.HookWaitFailure when set. An *InvalidArgumentError stops the
// wait at once.
func Wait[E Entity, R any](entity E, q Query[E, R]) (R, error) {
	cfg := entity.Config()
	step := Step{Entity: entity.String(), Operation: q.String(), Timeout: cfg.Timeout}

	var result R
	attempt := func() error {
		r, err := q.Apply(entity)
		if err != nil {
			return err
		}
		result = r
		return nil
	}

	wait := WaitFunc(func(attempt func() error) error {
		return poll(cfg, entity, step, attempt)
	})
	decorators := cfg.WaitDecorators
	if cfg.frame != nil {
		decorators = append(append([]WaitDecorator(nil), decorators...), cfg.frame.decorate)
	}
	for i := len(decorators) - 1; i >= 0; i-- {
		wait = decorators[i](step, wait)
	}
	if err := wait(attempt); err != nil {
		var zero R
		return zero, err
	}
	return result, nil
}

func poll(cfg *Config, entity Entity, step Step, attempt func() error) error {
	deadline := time.Now().Add(cfg.Timeout)
	for {
		err := attempt()
		if err == nil {
			return nil
		}
		var invalid *InvalidArgumentError
		if errors.As(err, &invalid) {
			return err
		}
		debugLog("%s: attempt failed: %v", step, err)

		now := time.Now()
		if !now.Before(deadline) {
			return timeout(cfg, entity, step, err)
		}
		pause := cfg.PollInterval
		if remaining := deadline.Sub(now); pause > remaining {
			pause = remaining
		}
		time.Sleep(pause)
	}
}

// snapshotter is implemented by entities that can describe their actual state
// at failure time.
type snapshotter interface {
	snapshot() (string, bool)
}

func timeout(cfg *Config, entity Entity, step Step, cause error) error {
	failure := &TimeoutError{
		Timeout:   cfg.Timeout,
		Entity:    step.Entity,
		Operation: step.Operation,
		Cause:     cause,
	}
	if cfg.LogOuterHTMLOnFailure {
		if s, ok := entity.(snapshotter); ok {
			if line, ok := s.snapshot(); ok {
				failure.Lines = append(failure.Lines, line)
			}
		}
	}
	failure.Lines = append(failure.Lines, saveFailureArtifacts(cfg)...)

	var err error = failure
	if cfg.HookWaitFailure != nil {
		err = cfg.HookWaitFailure(err)
	}
	return err
}
