// Package fanin provides a fan-out/fan-in completion primitive for
// coordinating a fixed number of independently completing asynchronous
// operations behind a single continuation.
package fanin

import "sync"

// Outcome is the report a single branch of a fan-out delivers when it
// finishes. A non-nil Err marks the branch as failed; failed branches are
// counted, never retried and never abort the remaining branches.
type Outcome struct {
	// ID identifies the branch (typically a device ID or event ID).
	ID string
	// Value carries an optional branch result.
	Value interface{}
	// Err is the branch failure, if any.
	Err error
}

// Result accumulates the outcomes of all branches. It is handed to the
// continuation exactly once, after every branch has reported.
type Result struct {
	Total     int
	Succeeded int
	Failed    int
	Outcomes  []Outcome
}

// Aggregator counts branch completions and fires a continuation exactly once
// when all of them have reported. It is safe for concurrent use from any
// number of goroutines; two branches reporting the final completion at the
// same instant still produce a single continuation call.
//
// The zero value is not usable; construct with New.
type Aggregator struct {
	mu       sync.Mutex
	total    int
	reported int
	fired    bool
	result   Result
	done     func(Result)
}

// New creates an aggregator expecting total branch reports. The done
// continuation receives the accumulated result after the final report.
// A total of zero fires done synchronously with an empty result before New
// returns.
func New(total int, done func(Result)) *Aggregator {
	if total < 0 {
		total = 0
	}
	a := &Aggregator{
		total:  total,
		result: Result{Total: total},
		done:   done,
	}
	if total == 0 {
		a.fired = true
		if done != nil {
			done(a.result)
		}
	}
	return a
}

// Done reports completion of one branch. Reports beyond the expected total
// are ignored so a buggy caller cannot re-fire the continuation.
func (a *Aggregator) Done(o Outcome) {
	a.mu.Lock()
	if a.fired || a.reported >= a.total {
		a.mu.Unlock()
		return
	}
	a.reported++
	if o.Err != nil {
		a.result.Failed++
	} else {
		a.result.Succeeded++
	}
	a.result.Outcomes = append(a.result.Outcomes, o)

	if a.reported < a.total {
		a.mu.Unlock()
		return
	}
	a.fired = true
	result := a.result
	done := a.done
	a.mu.Unlock()

	// Fire outside the lock; the continuation may do arbitrary work.
	if done != nil {
		done(result)
	}
}

// Pending returns how many branches have not yet reported.
func (a *Aggregator) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.total - a.reported
}
