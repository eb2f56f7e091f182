package pqueue

import (
	"github.com/cubeplusplus/dispatch/elutil"
	"github.com/cubeplusplus/dispatch/fatal"
	"github.com/cubeplusplus/dispatch/syncutil"
)

// repairOutcome carries the side effects of a repair which must happen once the lock has been released.
type repairOutcome struct {
	events []elutil.Event
	err    error
}

// repair brings the wake channel back in step with the store, it must be called whilst holding the queue lock.
//
// A matching size means the consumer raced with itself (e.g. a token was re-signalled) rather than the structures
// having diverged; such a transient doesn't count towards the fault limit. Otherwise the fault is counted, and where
// the limit is reached the returned outcome carries the error to escalate.
func (q *Queue[T, S]) repair() repairOutcome {
	var (
		stored  = q.store.Len()
		pending = q.wake.Pending()
	)

	if stored == pending {
		q.logger.Debugf("(pqueue) %s: Transient consistency fault, %d items and tokens", q.opts.Name, stored)
		return repairOutcome{}
	}

	faults := int(q.faults.Add(1))
	q.stats.faults.Add(1)

	q.logger.Warnf("(pqueue) %s: Consistency fault %d/%d, store holds %d items but wake channel holds %d tokens",
		q.opts.Name, faults, q.opts.MaxFaults, stored, pending)

	outcome := repairOutcome{events: []elutil.Event{q.event(elutil.EventConsistencyFault, elutil.SeverityWarn,
		"queue consistency fault repaired", faults, stored, pending)}}

	if faults >= q.opts.MaxFaults {
		outcome.err = &FaultThresholdExceededError{Queue: q.opts.Name, Faults: faults, Max: q.opts.MaxFaults}
		outcome.events = append(outcome.events, q.event(elutil.EventFaultThresholdExceeded, elutil.SeverityFatal,
			"queue consistency faults exceeded limit", faults, stored, pending))

		q.faults.Store(0)
	}

	for ; pending < stored; pending++ {
		q.wake.SendFromISR(syncutil.WakeToken)
	}

	for ; pending > stored; pending-- {
		q.wake.Receive(0)
	}

	return outcome
}

// finish reports and escalates the outcome of a repair, it must be called after releasing the queue lock.
func (q *Queue[T, S]) finish(outcome repairOutcome) {
	if q.opts.Reporter != nil {
		for _, event := range outcome.events {
			q.opts.Reporter.Report(event)
		}
	}

	if outcome.err == nil {
		return
	}

	q.stats.escalations.Add(1)
	q.logger.Errorf("(pqueue) %s: Escalating: %v", q.opts.Name, outcome.err)

	fatal.Escalate(q.opts.OnFatal, outcome.err)
}

func (q *Queue[T, S]) event(id elutil.EventID, severity elutil.Severity, description string, faults, stored,
	pending int,
) elutil.Event {
	return elutil.Event{
		Component:    elutil.ComponentPQueue,
		Severity:     severity,
		EventID:      id,
		Description:  description,
		SubComponent: q.opts.Name,
		ExtraAttributes: map[string]any{
			"faults":     faults,
			"max_faults": q.opts.MaxFaults,
			"stored":     stored,
			"pending":    pending,
		},
	}
}
