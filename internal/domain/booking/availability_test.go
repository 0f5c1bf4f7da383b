package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestIsPast(t *testing.T) {
	today := day(2026, time.June, 15)

	assert.True(t, IsPast(day(2026, time.June, 14), today))
	assert.False(t, IsPast(day(2026, time.June, 15), today))
	assert.False(t, IsPast(day(2026, time.June, 16), today))

	// Day granularity: a late hour today is still not past.
	assert.False(t, IsPast(at(2026, time.June, 15, 23), today))
}

func TestIsSelectable_SameDayCutoff(t *testing.T) {
	today := day(2026, time.June, 15)

	// Before 18:00, today can still be booked.
	assert.True(t, IsSelectable(today, at(2026, time.June, 15, 17), nil))

	// From 18:00 on, today is gone but tomorrow is fine.
	evening := at(2026, time.June, 15, 18)
	assert.False(t, IsSelectable(today, evening, nil))
	assert.True(t, IsSelectable(day(2026, time.June, 16), evening, nil))

	assert.False(t, IsSelectable(today, at(2026, time.June, 15, 23), nil))

	// Today answers on the cutoff alone: a booking covering today neither
	// blocks it before 18:00 nor matters after.
	ranges := []BookedRange{
		{Start: day(2026, time.June, 14), End: day(2026, time.June, 16), Status: StatusConfirmed},
	}
	assert.True(t, IsSelectable(today, at(2026, time.June, 15, 10), ranges))
	assert.False(t, IsSelectable(today, at(2026, time.June, 15, 18), ranges))

	// Tomorrow is still inside the range and blocked as usual.
	assert.False(t, IsSelectable(day(2026, time.June, 16), at(2026, time.June, 15, 10), ranges))
}

func TestIsSelectable_BlockedByBookings(t *testing.T) {
	now := at(2026, time.June, 15, 10)
	ranges := []BookedRange{
		{Start: day(2026, time.June, 20), End: day(2026, time.June, 22), Status: StatusConfirmed},
		{Start: day(2026, time.June, 25), End: day(2026, time.June, 26), Status: StatusPending},
		{Start: day(2026, time.June, 28), End: day(2026, time.June, 29), Status: StatusCancelled},
	}

	// Confirmed and pending ranges block, boundaries included.
	assert.False(t, IsSelectable(day(2026, time.June, 20), now, ranges))
	assert.False(t, IsSelectable(day(2026, time.June, 21), now, ranges))
	assert.False(t, IsSelectable(day(2026, time.June, 22), now, ranges))
	assert.False(t, IsSelectable(day(2026, time.June, 25), now, ranges))

	// Cancelled ranges never block.
	assert.True(t, IsSelectable(day(2026, time.June, 28), now, ranges))

	assert.True(t, IsSelectable(day(2026, time.June, 19), now, ranges))
	assert.True(t, IsSelectable(day(2026, time.June, 23), now, ranges))
}

func TestFindNextAvailable(t *testing.T) {
	now := at(2026, time.June, 15, 10)

	t.Run("free calendar returns the date itself", func(t *testing.T) {
		got := FindNextAvailable(day(2026, time.June, 15), now, nil)
		assert.Equal(t, day(2026, time.June, 15), got)
	})

	t.Run("skips past days", func(t *testing.T) {
		got := FindNextAvailable(day(2026, time.June, 10), now, nil)
		assert.Equal(t, day(2026, time.June, 15), got)
	})

	t.Run("skips over a blocking range", func(t *testing.T) {
		ranges := []BookedRange{
			{Start: day(2026, time.June, 16), End: day(2026, time.June, 18), Status: StatusConfirmed},
		}
		got := FindNextAvailable(day(2026, time.June, 16), now, ranges)
		assert.Equal(t, day(2026, time.June, 19), got)
	})

	t.Run("today stays available before the cutoff even when booked", func(t *testing.T) {
		ranges := []BookedRange{
			{Start: day(2026, time.June, 15), End: day(2026, time.June, 18), Status: StatusConfirmed},
		}
		got := FindNextAvailable(day(2026, time.June, 15), now, ranges)
		assert.Equal(t, day(2026, time.June, 15), got)
	})

	t.Run("after cutoff the scan starts tomorrow", func(t *testing.T) {
		evening := at(2026, time.June, 15, 19)
		got := FindNextAvailable(day(2026, time.June, 15), evening, nil)
		assert.Equal(t, day(2026, time.June, 16), got)
	})

	t.Run("fully booked year returns date unchanged", func(t *testing.T) {
		evening := at(2026, time.June, 15, 19)
		ranges := []BookedRange{
			{Start: day(2026, time.June, 1), End: day(2028, time.January, 1), Status: StatusConfirmed},
		}

		// The fallback is the input itself, hour included, not its day start.
		start := at(2026, time.June, 15, 9)
		got := FindNextAvailable(start, evening, ranges)
		assert.Equal(t, start, got)
	})
}

func TestHasOverlap(t *testing.T) {
	ranges := []BookedRange{
		{Start: day(2026, time.July, 10), End: day(2026, time.July, 12), Status: StatusConfirmed},
		{Start: day(2026, time.July, 20), End: day(2026, time.July, 21), Status: StatusCancelled},
	}

	// Touching a boundary counts as overlap.
	assert.True(t, HasOverlap(day(2026, time.July, 12), day(2026, time.July, 14), ranges))
	assert.True(t, HasOverlap(day(2026, time.July, 8), day(2026, time.July, 10), ranges))

	// Enclosing and enclosed ranges overlap.
	assert.True(t, HasOverlap(day(2026, time.July, 9), day(2026, time.July, 13), ranges))
	assert.True(t, HasOverlap(day(2026, time.July, 11), day(2026, time.July, 11), ranges))

	// Disjoint ranges do not, and cancelled ranges are ignored.
	assert.False(t, HasOverlap(day(2026, time.July, 13), day(2026, time.July, 15), ranges))
	assert.False(t, HasOverlap(day(2026, time.July, 20), day(2026, time.July, 21), ranges))
}

func TestInclusiveDays(t *testing.T) {
	assert.Equal(t, 1, InclusiveDays(day(2026, time.May, 3), day(2026, time.May, 3)))
	assert.Equal(t, 3, InclusiveDays(day(2026, time.May, 3), day(2026, time.May, 5)))
	assert.Equal(t, 31, InclusiveDays(day(2026, time.May, 1), day(2026, time.May, 31)))
}
