// Package log provides wait decorators that log waited steps through glog.
//
//	browser := selene.NewBrowser(selene.NewConfig(
//		selene.AddWaitDecorator(log.Steps(1)),
//	))
//
// Steps are logged when glog runs with -v at or above the given level.
package log

import (
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/wanmail/selene"
)

// Steps returns a decorator logging when each waited step starts and how it
// ended, at glog verbosity level.
func Steps(level glog.Level) selene.WaitDecorator {
	return func(step selene.Step, next selene.WaitFunc) selene.WaitFunc {
		return func(attempt func() error) error {
			if !glog.V(level) {
				return next(attempt)
			}
			glog.Infof("%s: started", step)
			start := time.Now()
			attempts := 0
			err := next(func() error {
				attempts++
				return attempt()
			})
			elapsed := time.Since(start).Round(time.Millisecond)
			if err != nil {
				glog.Infof("%s: failed after %s and %d attempts: %s", step, elapsed, attempts, firstLine(err.Error()))
				return err
			}
			glog.Infof("%s: passed in %s after %d attempts", step, elapsed, attempts)
			return nil
		}
	}
}

// Failures returns a decorator logging the failure of every attempt at
// warning severity.
func Failures() selene.WaitDecorator {
	return func(step selene.Step, next selene.WaitFunc) selene.WaitFunc {
		return func(attempt func() error) error {
			return next(func() error {
				err := attempt()
				if err != nil {
					glog.Warningf("%s: %s: %s", step, selene.ReasonName(err), firstLine(err.Error()))
				}
				return err
			})
		}
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
