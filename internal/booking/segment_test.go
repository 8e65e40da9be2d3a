package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentOfSameDay(t *testing.T) {
	b := &Booking{ID: "b1", ResourceID: "A", Date: day(2025, 3, 10), StartTime: "10:00", EndTime: "11:00"}

	segs := SegmentOf(b)
	require.Len(t, segs, 1)
	assert.True(t, segs[0].Day.Equal(b.Date))
	assert.Same(t, b, segs[0].Booking)
	assert.False(t, segs[0].IsContinuation())
}

func TestSegmentOfOvernight(t *testing.T) {
	end := day(2025, 3, 11)
	b := &Booking{ID: "b1", ResourceID: "A", Date: day(2025, 3, 10), StartTime: "23:00", EndTime: "00:30", EndDate: &end}
	before := *b

	segs := SegmentOf(b)
	require.Len(t, segs, 2)
	assert.True(t, segs[0].Day.Equal(day(2025, 3, 10)))
	assert.True(t, segs[1].Day.Equal(day(2025, 3, 11)))
	assert.Equal(t, "23:00 – 00:30", segs[0].Label())
	assert.Equal(t, segs[0].Label(), segs[1].Label())
	assert.True(t, segs[1].IsContinuation())
	assert.Equal(t, before, *b)
}

func TestSegmentOfEndDateEqualToDate(t *testing.T) {
	same := day(2025, 3, 10)
	b := &Booking{ID: "b1", Date: day(2025, 3, 10), StartTime: "10:00", EndTime: "11:00", EndDate: &same}

	assert.Len(t, SegmentOf(b), 1)
}

func TestSegmentsOn(t *testing.T) {
	end := day(2025, 3, 11)
	bookings := []*Booking{
		{ID: "a1", ResourceID: "A", Date: day(2025, 3, 10), StartTime: "10:00", EndTime: "11:00"},
		{ID: "a2", ResourceID: "A", Date: day(2025, 3, 10), StartTime: "23:00", EndTime: "00:30", EndDate: &end},
		{ID: "b1", ResourceID: "B", Date: day(2025, 3, 11), StartTime: "09:00", EndTime: "10:00"},
	}

	all := SegmentAll(bookings)
	require.Len(t, all, 4)

	onA11 := SegmentsOn(all, "A", day(2025, 3, 11))
	require.Len(t, onA11, 1)
	assert.Equal(t, "a2", onA11[0].Booking.ID)

	onA10 := SegmentsOn(all, "A", day(2025, 3, 10))
	require.Len(t, onA10, 2)
	assert.Equal(t, "a1", onA10[0].Booking.ID)
}
