package animate

import "time"

// TypeState is the phase of a typewriter.
type TypeState int

const (
	Typing TypeState = iota
	PausedAtFull
	Deleting
)

func (s TypeState) String() string {
	switch s {
	case Typing:
		return "typing"
	case PausedAtFull:
		return "paused"
	case Deleting:
		return "deleting"
	}
	return "unknown"
}

// TypeMachine types phrases one character at a time, holds the full phrase,
// deletes it, and moves on to the next phrase, forever.
type TypeMachine struct {
	phrases     [][]rune
	typeEvery   time.Duration
	deleteEvery time.Duration
	pause       time.Duration

	phrase int
	chars  int
	state  TypeState
}

// NewTypeMachine starts at phrase 0 with nothing shown. Deleting runs at
// twice the typing speed.
func NewTypeMachine(phrases []string, typeEvery, pause time.Duration) *TypeMachine {
	m := &TypeMachine{
		typeEvery:   typeEvery,
		deleteEvery: typeEvery / 2,
		pause:       pause,
	}
	for _, p := range phrases {
		m.phrases = append(m.phrases, []rune(p))
	}
	return m
}

func (m *TypeMachine) Phrase() int      { return m.phrase }
func (m *TypeMachine) Chars() int       { return m.chars }
func (m *TypeMachine) State() TypeState { return m.state }

// Step advances one tick and returns the text to display and how long to
// wait before the next tick.
func (m *TypeMachine) Step() (string, time.Duration) {
	if len(m.phrases) == 0 {
		return "", m.pause
	}
	cur := m.phrases[m.phrase]

	switch m.state {
	case Typing:
		if m.chars < len(cur) {
			m.chars++
		}
		if m.chars == len(cur) {
			m.state = PausedAtFull
			return string(cur[:m.chars]), m.pause
		}
		return string(cur[:m.chars]), m.typeEvery
	case PausedAtFull:
		m.state = Deleting
	}

	if m.chars > 0 {
		m.chars--
	}
	if m.chars == 0 {
		m.state = Typing
		m.phrase = (m.phrase + 1) % len(m.phrases)
		return "", m.typeEvery
	}
	return string(cur[:m.chars]), m.deleteEvery
}
