package delivery

import (
	"errors"
	"time"
)

var ErrInvalidWindow = errors.New("delivery window must have a positive duration")

// Window is the span the single delivery truck is occupied by one booking.
type Window struct {
	start           time.Time
	durationMinutes int
}

func NewWindow(start time.Time, durationMinutes int) (Window, error) {
	if durationMinutes <= 0 {
		return Window{}, ErrInvalidWindow
	}
	return Window{start: start, durationMinutes: durationMinutes}, nil
}

func (w Window) Start() time.Time {
	return w.start
}

func (w Window) End() time.Time {
	return w.start.Add(time.Duration(w.durationMinutes) * time.Minute)
}

func (w Window) DurationMinutes() int {
	return w.durationMinutes
}

func (w Window) IsZero() bool {
	return w.start.IsZero() && w.durationMinutes == 0
}

// Contains reports whether t falls inside the window, start inclusive.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.start) && t.Before(w.End())
}

// ConflictsWith tests one truck assignment against another. Beyond plain
// overlap, a requested window starting within buffer after an existing
// delivery ends still conflicts: the truck needs travel/reload time.
func (w Window) ConflictsWith(existing Window, buffer time.Duration) bool {
	switch {
	case existing.Contains(w.start):
		return true // requested start inside existing window
	case w.End().After(existing.start) && !w.End().After(existing.End()):
		return true // requested end inside existing window
	case !w.start.After(existing.start) && !w.End().Before(existing.End()):
		return true // existing window fully inside requested one
	case !existing.start.After(w.start) && !existing.End().Before(w.End()):
		return true // requested window fully inside existing one
	case !w.start.Before(existing.End()) && w.start.Before(existing.End().Add(buffer)):
		return true // requested start within buffer after existing end
	default:
		return false
	}
}

// NextAvailableAfter is the earliest start that clears this window plus the
// post-delivery buffer.
func (w Window) NextAvailableAfter(buffer time.Duration) time.Time {
	return w.End().Add(buffer)
}
