package animate

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// CounterMachine counts up to a target in equal per-frame increments.
type CounterMachine struct {
	target    float64
	increment float64
	value     float64
	decimal   bool
	done      bool
}

// ParseTarget reads a counter target. Non-numeric values are not counters.
func ParseTarget(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// NewCounterMachine spreads target over duration/frame frames. Targets
// whose shortest decimal form has a fraction count with two decimals;
// the rest count in whole numbers.
func NewCounterMachine(target float64, duration, frame time.Duration) *CounterMachine {
	inc := target
	if duration > 0 && frame > 0 {
		inc = target / (float64(duration) / float64(frame))
	}
	return &CounterMachine{
		target:    target,
		increment: inc,
		decimal:   strings.Contains(formatTarget(target), "."),
	}
}

// Done reports whether the exact target has been rendered.
func (m *CounterMachine) Done() bool { return m.done }

// Value is the running, unrounded value.
func (m *CounterMachine) Value() float64 { return m.value }

// Step advances one frame and returns the text to render.
func (m *CounterMachine) Step() (string, bool) {
	if m.done {
		return formatTarget(m.target), true
	}
	m.value += m.increment
	if m.value < m.target {
		if m.decimal {
			return strconv.FormatFloat(m.value, 'f', 2, 64), false
		}
		return strconv.FormatFloat(math.Floor(m.value), 'f', 0, 64), false
	}
	m.done = true
	return formatTarget(m.target), true
}

func formatTarget(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
