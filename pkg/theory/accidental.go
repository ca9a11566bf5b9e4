package theory

import (
	"errors"
	"fmt"
)

// ErrAccidentalRange is matched by every [AccidentalRangeError].
// It signals that a step would need a double flat or double sharp.
var ErrAccidentalRange = errors.New("accidental out of range")

// AccidentalRangeError is returned by [Accidental.Lower] on a flat and by
// [Accidental.Raise] on a sharp.
type AccidentalRangeError struct {
	From Accidental // accidental the step started from
	Op   string     // "lower" or "raise"
}

func (e *AccidentalRangeError) Error() string {
	return fmt.Sprintf("cannot %s %s: %v", e.Op, e.From.Name(), ErrAccidentalRange)
}

// Is makes errors.Is(err, ErrAccidentalRange) match.
func (e *AccidentalRangeError) Is(target error) bool { return target == ErrAccidentalRange }

// Accidental alters a letter by at most one semitone.
type Accidental int

const (
	Flat Accidental = iota - 1
	Natural
	Sharp
)

// Offset returns the semitone alteration: -1, 0 or +1.
func (a Accidental) Offset() int { return int(a) }

// Lower returns the accidental one semitone flatter.
func (a Accidental) Lower() (Accidental, error) {
	switch a {
	case Sharp:
		return Natural, nil
	case Natural:
		return Flat, nil
	}
	return a, &AccidentalRangeError{From: a, Op: "lower"}
}

// Raise returns the accidental one semitone sharper.
func (a Accidental) Raise() (Accidental, error) {
	switch a {
	case Flat:
		return Natural, nil
	case Natural:
		return Sharp, nil
	}
	return a, &AccidentalRangeError{From: a, Op: "raise"}
}

// Valid reports whether a is flat, natural or sharp.
func (a Accidental) Valid() bool { return a >= Flat && a <= Sharp }

// String returns the symbol used in key spellings ("b", "" or "#").
func (a Accidental) String() string {
	switch a {
	case Flat:
		return "b"
	case Sharp:
		return "#"
	}
	return ""
}

// Name returns the long name of the accidental.
func (a Accidental) Name() string {
	switch a {
	case Flat:
		return "flat"
	case Natural:
		return "natural"
	case Sharp:
		return "sharp"
	}
	return fmt.Sprintf("accidental(%d)", int(a))
}
