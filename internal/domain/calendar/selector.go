// Package calendar implements the two-click date-range selection state
// machine that backs the booking calendar. It is pure state over the
// availability predicates in the booking package; rendering and transport
// live elsewhere.
package calendar

import (
	"time"

	"github.com/kiloukoi/service-booking/internal/domain/booking"
)

// Phase is the selector's current input phase.
type Phase string

const (
	// PhaseSelectingStart means the next selectable click sets the start date.
	PhaseSelectingStart Phase = "selecting-start"
	// PhaseSelectingEnd means the next selectable click commits the end date.
	PhaseSelectingEnd Phase = "selecting-end"
)

// ChangeFunc is notified whenever a (start, end) pair is committed that
// differs from the initially supplied dates. Callers use it to recompute
// the price.
type ChangeFunc func(start, end time.Time)

// RangeSelector is the two-phase click state machine over a listing's
// availability.
type RangeSelector struct {
	now    time.Time
	ranges []booking.BookedRange

	phase Phase
	start time.Time
	end   time.Time

	initialStart time.Time
	initialEnd   time.Time
	initialized  bool

	hovered  time.Time
	hasHover bool
	visible  time.Time
	onChange ChangeFunc
}

// NewRangeSelector builds a selector for the given reference time and
// booked ranges. If initialStart and initialEnd are both non-nil they are
// adopted verbatim with no recomputation; otherwise the selection
// auto-initializes to the first selectable start and the next selectable
// end after start+1 day, and that pair is emitted once.
func NewRangeSelector(now time.Time, ranges []booking.BookedRange, initialStart, initialEnd *time.Time, onChange ChangeFunc) *RangeSelector {
	s := &RangeSelector{
		now:      now,
		ranges:   ranges,
		phase:    PhaseSelectingStart,
		visible:  time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		onChange: onChange,
	}

	if initialStart != nil && initialEnd != nil {
		s.start = booking.DayStart(*initialStart)
		s.end = booking.DayStart(*initialEnd)
		s.initialStart = s.start
		s.initialEnd = s.end
		s.initialized = true
		return s
	}

	start := booking.FindNextAvailable(now, now, ranges)
	end := booking.FindNextAvailable(start.AddDate(0, 0, 1), now, ranges)
	s.start = start
	s.end = end
	s.initialized = true
	s.emit()
	return s
}

// SetInitialDates adopts externally supplied dates. Only the first
// initialization ever takes effect; once the selector is initialized,
// refreshed inputs are ignored so they cannot clobber an in-progress
// selection.
func (s *RangeSelector) SetInitialDates(start, end time.Time) {
	if s.initialized {
		return
	}
	s.start = booking.DayStart(start)
	s.end = booking.DayStart(end)
	s.initialStart = s.start
	s.initialEnd = s.end
	s.initialized = true
}

// Click processes a click on day. Clicks on non-selectable days are inert.
func (s *RangeSelector) Click(day time.Time) {
	if !booking.IsSelectable(day, s.now, s.ranges) {
		return
	}
	d := booking.DayStart(day)

	switch s.phase {
	case PhaseSelectingStart:
		s.start = d
		// Best-effort immediate guess for the end date; the second click
		// overwrites it.
		s.end = booking.FindNextAvailable(d.AddDate(0, 0, 1), s.now, s.ranges)
		s.phase = PhaseSelectingEnd

	case PhaseSelectingEnd:
		if d.Before(s.start) {
			s.start, s.end = d, s.start
		} else {
			s.end = d
		}
		s.hasHover = false
		s.phase = PhaseSelectingStart
		s.emit()
	}
}

// Hover records the hovered day for range preview while an end date is
// being chosen. Hovers outside that phase, or on non-selectable days, are
// ignored.
func (s *RangeSelector) Hover(day time.Time) {
	if s.phase != PhaseSelectingEnd {
		return
	}
	if !booking.IsSelectable(day, s.now, s.ranges) {
		return
	}
	s.hovered = booking.DayStart(day)
	s.hasHover = true
}

// InPreview reports whether day renders as part of the hover preview span,
// which covers every day between the start and the hovered day inclusive,
// whichever side of the start the hover is on.
func (s *RangeSelector) InPreview(day time.Time) bool {
	if s.phase != PhaseSelectingEnd || !s.hasHover {
		return false
	}
	lo, hi := s.start, s.hovered
	if hi.Before(lo) {
		lo, hi = hi, lo
	}
	d := booking.DayStart(day)
	return !d.Before(lo) && !d.After(hi)
}

// NextMonth advances the visible grid one month. Selection is untouched.
func (s *RangeSelector) NextMonth() {
	s.visible = s.visible.AddDate(0, 1, 0)
}

// PrevMonth moves the visible grid back one month. Selection is untouched.
func (s *RangeSelector) PrevMonth() {
	s.visible = s.visible.AddDate(0, -1, 0)
}

// VisibleMonth returns the first day of the currently visible month.
func (s *RangeSelector) VisibleMonth() time.Time { return s.visible }

// Phase returns the selector's current phase.
func (s *RangeSelector) Phase() Phase { return s.phase }

// Start returns the committed start date.
func (s *RangeSelector) Start() time.Time { return s.start }

// End returns the committed end date.
func (s *RangeSelector) End() time.Time { return s.end }

func (s *RangeSelector) emit() {
	if s.onChange == nil {
		return
	}
	if s.start.Equal(s.initialStart) && s.end.Equal(s.initialEnd) {
		return
	}
	s.onChange(s.start, s.end)
}
