// Package waiter implements the bounded retry loop used to wait for
// sysfs paths that appear only once a driver module has loaded.
package waiter

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/onkernel/devctl/lib/logger"
)

// Waiter polls a predicate until it succeeds or the trial budget runs
// out. It blocks the calling goroutine between attempts; waiting for
// the kernel to populate sysfs is a cooperative, attended affair, not
// something to schedule around.
type Waiter struct {
	Check     func() bool
	Message   string
	NumTrials int           // 0 means retry forever
	Delay     time.Duration // pause between attempts

	// Sleep defaults to time.Sleep; tests swap it to count delays.
	Sleep func(time.Duration)
}

// Wait runs the predicate immediately and, on failure, up to NumTrials
// more times with Delay between attempts. It reports whether the
// predicate ever succeeded; turning a timeout into an error is the
// caller's call.
func (w *Waiter) Wait(ctx context.Context) bool {
	log := logger.FromContext(ctx)
	sleep := w.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	trial := 0
	for {
		if w.Check() {
			return true
		}
		if w.NumTrials > 0 {
			trial++
			if trial > w.NumTrials {
				return false
			}
			log.InfoContext(ctx, "waiting", "trial", fmt.Sprintf("%d/%d", trial, w.NumTrials), "message", w.Message)
		} else {
			log.InfoContext(ctx, "trying", "message", w.Message)
		}
		sleep(w.Delay)
	}
}

// ForPath returns a waiter whose predicate is the existence of path.
func ForPath(path string, numTrials int, delay time.Duration) *Waiter {
	return &Waiter{
		Check: func() bool {
			_, err := os.Stat(path)
			return err == nil
		},
		Message:   fmt.Sprintf("wait for path %s", path),
		NumTrials: numTrials,
		Delay:     delay,
	}
}
