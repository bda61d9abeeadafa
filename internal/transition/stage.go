package transition

import "time"

// Stage is a step of the fog cover sequence.
type Stage int

const (
	StageIdle  Stage = iota // Cover not rendered
	StageEnter              // Cover fading in
	StageFull               // Cover opaque; the only stage that navigates
	StageExit               // Cover fading out
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageEnter:
		return "enter"
	case StageFull:
		return "full"
	case StageExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Timing holds the fog stage durations.
type Timing struct {
	Enter    time.Duration // enter -> full
	Navigate time.Duration // full -> navigation callback
	Hold     time.Duration // navigation -> exit
	Exit     time.Duration // exit -> idle
}

// DefaultTiming returns durations that match the fog animation.
func DefaultTiming() Timing {
	return Timing{
		Enter:    600 * time.Millisecond,
		Navigate: 100 * time.Millisecond,
		Hold:     500 * time.Millisecond,
		Exit:     800 * time.Millisecond,
	}
}

// Total is the length of one full transition.
func (t Timing) Total() time.Duration {
	return t.Enter + t.Navigate + t.Hold + t.Exit
}

// StageChange describes one stage change of a transition.
type StageChange struct {
	ID   string
	From Stage
	To   Stage
}
