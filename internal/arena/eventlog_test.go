package arena

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventLogAppendAndOrder(t *testing.T) {
	log := NewEventLog(5)
	for i := 0; i < 3; i++ {
		log.Append(Event{Type: fmt.Sprintf("ev-%d", i)})
	}

	events := log.Events()
	assert.Len(t, events, 3)
	assert.Equal(t, "ev-0", events[0].Type)
	assert.Equal(t, "ev-2", events[2].Type)
}

func TestEventLogDropsOldestAtCapacity(t *testing.T) {
	log := NewEventLog(4)
	for i := 0; i < 10; i++ {
		log.Append(Event{Type: fmt.Sprintf("ev-%d", i)})
	}

	events := log.Events()
	assert.Len(t, events, 4)
	assert.Equal(t, "ev-6", events[0].Type, "oldest surviving event")
	assert.Equal(t, "ev-9", events[3].Type)
	assert.Equal(t, 4, log.Len())
}

func TestEventLogDefaultCapacity(t *testing.T) {
	log := NewEventLog(0)
	for i := 0; i < DefaultEventCapacity+10; i++ {
		log.Append(Event{Type: "tick"})
	}
	assert.Equal(t, DefaultEventCapacity, log.Len())
}

func TestEventLogReset(t *testing.T) {
	log := NewEventLog(3)
	log.Append(Event{Type: "a"})
	log.Append(Event{Type: "b"})
	log.Reset()
	assert.Equal(t, 0, log.Len())
	assert.Empty(t, log.Events())
}
