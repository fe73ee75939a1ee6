// Package clock provides the single-threaded scheduling model the trip engine runs on.
//
// Every callback handed to a Scheduler runs on one logical thread, one at a time:
// stage timers, animation ticks and the completion of off-loop work such as HTTP
// calls. Loop backs it with a goroutine and real timers; Manual backs it with
// virtual time so tests can fast-forward deterministically.
package clock

import (
	"context"
	"time"
)

// Timer is a scheduled callback. Stop is idempotent and reports whether it
// prevented the callback from running.
type Timer interface {
	Stop() bool
}

// Scheduler runs callbacks serially.
type Scheduler interface {
	Now() time.Time
	// AfterFunc runs f on the scheduler after d.
	AfterFunc(d time.Duration, f func()) Timer
	// Go runs work off the scheduler and then runs done on it.
	Go(work func(), done func())
}

// Executor runs a function on the scheduler thread and waits for it.
type Executor interface {
	Call(ctx context.Context, f func()) error
}
