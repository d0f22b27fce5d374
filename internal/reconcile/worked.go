package reconcile

import "sort"

// interval is a closed-open span on a timeline, in minutes.
type interval struct {
	start, end int
}

// workedMinutes returns the time between in and out not covered by breaks.
// Breaks are clipped to [in, out]; breaks starting at or after out are
// ignored; overlapping and nested breaks count once. The input order of
// breaks does not matter.
func workedMinutes(in, out int, breaks []interval) int {
	if out <= in {
		return 0
	}
	clipped := make([]interval, 0, len(breaks))
	for _, b := range breaks {
		if b.start >= out {
			continue
		}
		s := max(b.start, in)
		e := min(max(b.end, b.start), out)
		if e <= s {
			continue
		}
		clipped = append(clipped, interval{start: s, end: e})
	}
	sort.Slice(clipped, func(i, j int) bool {
		if clipped[i].start != clipped[j].start {
			return clipped[i].start < clipped[j].start
		}
		return clipped[i].end < clipped[j].end
	})

	worked := 0
	cursor := in
	for _, b := range clipped {
		if b.start > cursor {
			worked += b.start - cursor
		}
		if b.end > cursor {
			cursor = b.end
		}
	}
	if out > cursor {
		worked += out - cursor
	}
	return worked
}
