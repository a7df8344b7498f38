package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counters struct {
	Unread int
}

func TestCellUpdateBeforeSetIsNoOp(t *testing.T) {
	c := NewCell[counters]()

	c.Update(func(v *counters) { v.Unread = 99 })

	_, ok := c.Get()
	assert.False(t, ok, "nothing to adjust before the first value arrives")
}

func TestCellUpdateAdjustsHeldValue(t *testing.T) {
	c := NewCell[counters]()
	c.Set(counters{Unread: 3})

	c.Update(func(v *counters) { v.Unread-- })

	got, ok := c.Get()
	require.True(t, ok)
	assert.Equal(t, 2, got.Unread)
}

func TestCellStaleFetchIsDiscarded(t *testing.T) {
	c := NewCell[counters]()

	first := c.Begin()
	second := c.Begin()

	require.True(t, c.CompleteFetch(second, counters{Unread: 2}))
	require.False(t, c.CompleteFetch(first, counters{Unread: 7}))

	got, ok := c.Get()
	require.True(t, ok)
	assert.Equal(t, 2, got.Unread)
}

func TestCellBeginClearsError(t *testing.T) {
	c := NewCell[counters]()
	c.SetError("Failed to load")

	c.Begin()

	assert.Empty(t, c.Err())
}
