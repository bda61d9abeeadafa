package splash

import "time"

// Phase is a coarse stage of the splash lifecycle.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReveal
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReveal:
		return "reveal"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further phase changes can happen.
func (p Phase) IsTerminal() bool {
	return p == PhaseDone
}

// Timing holds the splash durations.
type Timing struct {
	Target time.Duration // Ramp duration for the displayed percentage
	Min    time.Duration // Earliest the splash may leave loading
	Max    time.Duration // Hard ceiling: loading is forced to reveal
	Reveal time.Duration // Length of the reveal hold
	Frame  time.Duration // Animation frame interval
}

// DefaultTiming returns the stock splash durations.
func DefaultTiming() Timing {
	return Timing{
		Target: 3 * time.Second,
		Min:    2 * time.Second,
		Max:    10 * time.Second,
		Reveal: 1200 * time.Millisecond,
		Frame:  16 * time.Millisecond,
	}
}

// ramp is the effective ramp duration. The percentage can never reach 100
// before the minimum floor.
func (t Timing) ramp() time.Duration {
	return max(t.Target, t.Min)
}

// step is the throttle between two increments of the displayed percentage.
func (t Timing) step() time.Duration {
	return t.ramp() / 99
}

// withDefaults fills zero fields from DefaultTiming.
func (t Timing) withDefaults() Timing {
	d := DefaultTiming()
	if t.Target <= 0 {
		t.Target = d.Target
	}
	if t.Min <= 0 {
		t.Min = d.Min
	}
	if t.Max <= 0 {
		t.Max = d.Max
	}
	if t.Reveal <= 0 {
		t.Reveal = d.Reveal
	}
	if t.Frame <= 0 {
		t.Frame = d.Frame
	}
	return t
}
