package booking

import "time"

// sameDayCutoffHour is the local hour after which today can no longer be
// booked. Pickups are arranged in person, so late-evening requests for the
// same day are pointless.
const sameDayCutoffHour = 18

// nextAvailableScanLimit bounds the forward scan of FindNextAvailable.
const nextAvailableScanLimit = 365

// BookedRange is the read-only projection of a reservation that blocks
// calendar days. Only confirmed and pending bookings project a range.
type BookedRange struct {
	Start  time.Time `json:"start_date"`
	End    time.Time `json:"end_date"`
	Status Status    `json:"status"`
}

// Blocks reports whether the range makes its days unselectable.
func (r BookedRange) Blocks() bool {
	return r.Status == StatusConfirmed || r.Status == StatusPending
}

// Contains reports whether day falls within [Start, End], both ends inclusive.
func (r BookedRange) Contains(day time.Time) bool {
	d := DayStart(day)
	return !d.Before(DayStart(r.Start)) && !d.After(DayStart(r.End))
}

// Overlaps reports whether [start, end] intersects the range, inclusively.
func (r BookedRange) Overlaps(start, end time.Time) bool {
	return !DayStart(end).Before(DayStart(r.Start)) && !DayStart(start).After(DayStart(r.End))
}

// IsPast reports whether date falls strictly before today. Both arguments
// are compared at day granularity.
func IsPast(date, today time.Time) bool {
	return DayStart(date).Before(DayStart(today))
}

// IsSelectable reports whether date can be chosen as part of a booking,
// given the reference time now and the listing's booked ranges.
//
// A strictly past date is never selectable. Today answers on the same-day
// cutoff alone, without consulting the ranges. Any other date is selectable
// unless it falls inside a confirmed or pending range.
func IsSelectable(date, now time.Time, ranges []BookedRange) bool {
	if IsPast(date, now) {
		return false
	}
	if SameDay(date, now) {
		return now.Hour() < sameDayCutoffHour
	}
	for _, r := range ranges {
		if r.Blocks() && r.Contains(date) {
			return false
		}
	}
	return true
}

// FindNextAvailable scans forward from date and returns the first
// selectable day. The scan is bounded; if no selectable day exists within
// the limit the original date is returned unchanged, so callers must
// tolerate a non-advancing result.
func FindNextAvailable(date, now time.Time, ranges []BookedRange) time.Time {
	candidate := DayStart(date)
	for i := 0; i < nextAvailableScanLimit; i++ {
		if IsSelectable(candidate, now, ranges) {
			return candidate
		}
		candidate = candidate.AddDate(0, 0, 1)
	}
	return date
}

// HasOverlap reports whether [start, end] intersects any blocking range.
// This is the advisory pre-check; the authoritative guard lives in the
// repository's transactional insert.
func HasOverlap(start, end time.Time, ranges []BookedRange) bool {
	for _, r := range ranges {
		if r.Blocks() && r.Overlaps(start, end) {
			return true
		}
	}
	return false
}
