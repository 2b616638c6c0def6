package arena

// DefaultEventCapacity matches the reference history bound.
const DefaultEventCapacity = 100

// EventLog is a fixed-capacity circular buffer of match events. Appending is
// O(1); once full the oldest event is dropped.
type EventLog struct {
	buf   []Event
	head  int // index of the oldest event
	count int
}

// NewEventLog creates a log holding at most capacity events.
func NewEventLog(capacity int) *EventLog {
	if capacity <= 0 {
		capacity = DefaultEventCapacity
	}
	return &EventLog{buf: make([]Event, capacity)}
}

// Append records an event, evicting the oldest once at capacity.
func (l *EventLog) Append(ev Event) {
	if l.count < len(l.buf) {
		l.buf[(l.head+l.count)%len(l.buf)] = ev
		l.count++
		return
	}
	l.buf[l.head] = ev
	l.head = (l.head + 1) % len(l.buf)
}

// Len returns the number of retained events.
func (l *EventLog) Len() int {
	return l.count
}

// Events returns retained events oldest-first as a fresh slice.
func (l *EventLog) Events() []Event {
	out := make([]Event, l.count)
	for i := 0; i < l.count; i++ {
		out[i] = l.buf[(l.head+i)%len(l.buf)]
	}
	return out
}

// Reset empties the log without reallocating.
func (l *EventLog) Reset() {
	l.head = 0
	l.count = 0
}
