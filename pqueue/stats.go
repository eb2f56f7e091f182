package pqueue

import "sync/atomic"

// Stats is a point in time snapshot of a queue's counters.
type Stats struct {
	// Sent is the number of items accepted by 'Send'.
	Sent uint64

	// Rejected is the number of items refused by 'Send' because the lock wasn't acquired or the queue was full.
	Rejected uint64

	// Received is the number of items returned by 'Receive'.
	Received uint64

	// Timeouts is the number of receives which gave up before an item became available.
	Timeouts uint64

	// Faults is the total number of genuine consistency faults observed.
	Faults uint64

	// Escalations is the number of times the fatal hook was invoked.
	Escalations uint64
}

type counters struct {
	sent        atomic.Uint64
	rejected    atomic.Uint64
	received    atomic.Uint64
	timeouts    atomic.Uint64
	faults      atomic.Uint64
	escalations atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Sent:        c.sent.Load(),
		Rejected:    c.rejected.Load(),
		Received:    c.received.Load(),
		Timeouts:    c.timeouts.Load(),
		Faults:      c.faults.Load(),
		Escalations: c.escalations.Load(),
	}
}
