package pqueue

// Named priority levels. Priorities are plain uint8 values so callers may fine tune around a level, e.g.
// 'PriorityNormal+1'; the names are conventions, not bounds.
const (
	PriorityLow    uint8 = 50
	PriorityNormal uint8 = 127
	PriorityHigh   uint8 = 200

	PriorityMid = PriorityNormal
)

// Seq is the default sequence number type. Wider types make wraparound rarer at the cost of a larger counter.
type Seq = uint16
