package chronicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAssignsMonotonicIDs(t *testing.T) {
	l := NewLog()

	for i := 0; i < 100; i++ {
		id := l.Append(Event{Type: EventBattleFought, Title: "skirmish"})
		require.Equal(t, EventID(i+1), id)
	}
	assert.Equal(t, 100, l.Len())
}

func TestGet(t *testing.T) {
	l := NewLog()
	l.Append(Event{Title: "first"})
	l.Append(Event{Title: "second"})

	require.NotNil(t, l.Get(2))
	assert.Equal(t, "second", l.Get(2).Title)
	assert.Nil(t, l.Get(0))
	assert.Nil(t, l.Get(3))
}

func TestSegmentRollover(t *testing.T) {
	l := NewLog()
	total := SegmentSize*2 + 17
	for i := 0; i < total; i++ {
		l.Append(Event{Title: "e"})
	}

	assert.Equal(t, total, l.Len())
	assert.Equal(t, EventID(total), l.Get(EventID(total)).ID)
	assert.Equal(t, EventID(SegmentSize+1), l.Get(EventID(SegmentSize+1)).ID)
}

func TestTail(t *testing.T) {
	l := NewLog()
	for i := 0; i < 10; i++ {
		l.Append(Event{Title: "e"})
	}

	tail := l.Tail(3)
	require.Len(t, tail, 3)
	assert.Equal(t, EventID(8), tail[0].ID)
	assert.Equal(t, EventID(10), tail[2].ID)

	assert.Len(t, l.Tail(99), 10)
}

func TestDateAdvance(t *testing.T) {
	d := Date{Year: 10, Season: 3}
	n := d.Next()

	assert.Equal(t, Date{Year: 11, Season: 0}, n)
	assert.True(t, d.Before(n))
	assert.Equal(t, 1, Date{Year: 11, Season: 3}.YearsSince(Date{Year: 10, Season: 0}))
}

func TestEachStops(t *testing.T) {
	l := NewLog()
	for i := 0; i < 5; i++ {
		l.Append(Event{})
	}
	seen := 0
	l.Each(func(e *Event) bool {
		seen++
		return seen < 3
	})
	assert.Equal(t, 3, seen)
}
