package reconcile

import (
	schedulemodels "tempo/internal/schedule/models"
)

// NightShiftKind records which rule classified a shift as overnight.
type NightShiftKind string

const (
	NotOvernight NightShiftKind = ""
	// WrapsMidnight: scheduled start hour after end hour (22:00→06:00).
	WrapsMidnight NightShiftKind = "wraps_midnight"
	// EndsAtMidnight: scheduled end hour is 0 (16:00→00:00).
	EndsAtMidnight NightShiftKind = "ends_at_midnight"
	// LateEveningStart: early-morning scheduled start with an evening clock-in.
	LateEveningStart NightShiftKind = "late_evening_start"
)

// DetectNightShift classifies a shift. clockIn may be nil.
func DetectNightShift(start, end schedulemodels.ClockTime, clockIn *schedulemodels.ClockTime) NightShiftKind {
	switch {
	case start.Hour > end.Hour:
		return WrapsMidnight
	case end.Hour == 0:
		return EndsAtMidnight
	case clockIn != nil && start.Hour <= 2 && clockIn.Hour >= 20:
		return LateEveningStart
	default:
		return NotOvernight
	}
}

// timeline places the times of one shift on a single minute axis so that
// subtraction gives elapsed time even across midnight.
type timeline struct {
	kind   NightShiftKind
	anchor schedulemodels.ClockTime
	start  schedulemodels.ClockTime
	end    schedulemodels.ClockTime
}

func newTimeline(start, end schedulemodels.ClockTime, clockIn *schedulemodels.ClockTime) timeline {
	kind := DetectNightShift(start, end, clockIn)
	anchor := start
	if kind == LateEveningStart {
		// The evening clock-in belongs to the day before the scheduled start.
		anchor = *clockIn
	}
	return timeline{kind: kind, anchor: anchor, start: start, end: end}
}

func (t timeline) overnight() bool {
	return t.kind != NotOvernight
}

// at returns the position of a time of day in minutes.
func (t timeline) at(ct schedulemodels.ClockTime) int {
	m := ct.Minutes()
	if t.overnight() {
		if ct.Hour < t.anchor.Hour {
			return m + minutesPerDay
		}
		return m
	}
	if m-t.start.Minutes() > halfDay {
		return m - minutesPerDay
	}
	return m
}

// clockIn positions the actual clock-in. On an overnight shift a clock-in
// before the scheduled start hour but not inside the morning tail of the
// shift is an early arrival on the same evening and stays where it is.
func (t timeline) clockIn(ct schedulemodels.ClockTime) int {
	// Only hours at or after the end hour count as early. A 03:00 clock-in on a
	// 22:00-06:00 shift is a late arrival on the next day, not 19h early.
	if t.overnight() && ct.Hour < t.start.Hour && ct.Hour >= t.end.Hour {
		return ct.Minutes()
	}
	return t.at(ct)
}

func (t timeline) scheduledStart() int { return t.at(t.start) }

func (t timeline) scheduledEnd() int { return t.at(t.end) }

// theoreticalMinutes is the scheduled length less the planned break, never
// negative.
func (t timeline) theoreticalMinutes(def schedulemodels.ScheduleDefinition) int {
	total := t.scheduledEnd() - t.scheduledStart()
	if def.HasPlannedBreak() {
		total -= max(0, t.at(*def.PlannedBreakEnd)-t.at(*def.PlannedBreakStart))
	}
	return max(0, total)
}
