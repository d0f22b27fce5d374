package reconcile

// Punctuality classifies a clock mark against its scheduled mark.
type Punctuality string

const (
	PunctualityEarly   Punctuality = "early"
	PunctualityOnTime  Punctuality = "on_time"
	PunctualityLate    Punctuality = "late"
	PunctualityUnknown Punctuality = "unknown"
)

// punctualityTolerance is the grace window, in minutes, around a scheduled mark.
const punctualityTolerance = 15

// ClassifyEntry classifies diff = actual clock-in minus scheduled start.
// Exactly 15 minutes early already counts as early.
func ClassifyEntry(diffMinutes int) Punctuality {
	switch {
	case diffMinutes <= -punctualityTolerance:
		return PunctualityEarly
	case diffMinutes > punctualityTolerance:
		return PunctualityLate
	default:
		return PunctualityOnTime
	}
}

// ClassifyExit classifies diff = actual clock-out minus scheduled end.
// Exactly 15 minutes late already counts as late.
// TODO: confirm with payroll whether the boundaries should mirror ClassifyEntry.
func ClassifyExit(diffMinutes int) Punctuality {
	switch {
	case diffMinutes < -punctualityTolerance:
		return PunctualityEarly
	case diffMinutes >= punctualityTolerance:
		return PunctualityLate
	default:
		return PunctualityOnTime
	}
}
