// Package related derives the keys one functional diatonic step away from a
// root key.
//
// For every scale step except one, the resolver advances the root's letter,
// keeps the root's accidental, measures the interval, and nudges the
// accidental once toward the target distance for that step. The result is a
// six-key set such as:
//
//	C  -> Cm Dm Em F G Am
//	Am -> A C Dm Em F G
//
// The correction is a single semitone. A candidate that is two semitones off
// keeps the residual, and a candidate that would need a double flat or sharp
// fails with [theory.ErrAccidentalRange].
package related

import (
	"fmt"
	"strings"

	"github.com/matzehuels/keywheel/pkg/theory"
)

// MaxKeys is the size of a related-key set: seven steps minus the skipped one.
const MaxKeys = 6

// table describes the relationship pattern derived from one mode.
type table struct {
	distances [theory.LettersPerOctave]int
	modes     [theory.LettersPerOctave]theory.Mode
	skip      int
}

var (
	major = table{
		distances: [7]int{0, 2, 4, 5, 7, 9, 11},
		modes: [7]theory.Mode{
			theory.Minor, theory.Minor, theory.Minor, theory.Major, theory.Major, theory.Minor, theory.Major,
		},
		skip: 6,
	}
	minor = table{
		distances: [7]int{0, 2, 3, 5, 7, 8, 10},
		modes: [7]theory.Mode{
			theory.Major, theory.Major, theory.Major, theory.Minor, theory.Minor, theory.Major, theory.Major,
		},
		skip: 1,
	}
)

func tableFor(m theory.Mode) table {
	if m == theory.Minor {
		return minor
	}
	return major
}

// Resolver computes the related-key set of a key.
type Resolver interface {
	Related(k theory.Key) ([]theory.Key, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(k theory.Key) ([]theory.Key, error)

// Related calls f(k).
func (f ResolverFunc) Related(k theory.Key) ([]theory.Key, error) { return f(k) }

// Default is the resolver backed by [Keys].
var Default Resolver = ResolverFunc(Keys)

// Keys returns the related keys of root in ascending step order.
//
// The function is pure: the same root always yields the same slice contents.
// It fails only when a single-step accidental correction leaves the
// flat/natural/sharp range; the returned error wraps
// [theory.ErrAccidentalRange] and names the root.
func Keys(root theory.Key) ([]theory.Key, error) {
	steps, err := Steps(root)
	if err != nil {
		return nil, err
	}
	out := make([]theory.Key, len(steps))
	for i, s := range steps {
		out[i] = s.Key
	}
	return out, nil
}

// Step is one related key together with the scale degree it sits on.
type Step struct {
	Degree int // 0-based scale degree of the root's scale
	Key    theory.Key
}

var numerals = [theory.LettersPerOctave]string{"I", "II", "III", "IV", "V", "VI", "VII"}

// Numeral returns the roman numeral of the step, upper case for a major key
// and lower case for a minor one: "ii", "V", "VII".
func (s Step) Numeral() string {
	if s.Degree < 0 || s.Degree >= len(numerals) {
		return "?"
	}
	if s.Key.Mode == theory.Minor {
		return strings.ToLower(numerals[s.Degree])
	}
	return numerals[s.Degree]
}

// Steps is like [Keys] but keeps the scale degree of each key.
func Steps(root theory.Key) ([]Step, error) {
	t := tableFor(root.Mode)
	out := make([]Step, 0, MaxKeys)

	for i := range theory.LettersPerOctave {
		if i == t.skip {
			continue
		}
		note, err := candidate(root.Root, i, t.distances[i])
		if err != nil {
			return nil, fmt.Errorf("related keys of %s: step %d: %w", root.Spelling(), i, err)
		}
		out = append(out, Step{Degree: i, Key: theory.Key{Root: note, Mode: t.modes[i]}})
	}
	return out, nil
}

// candidate advances root by step letters and corrects the accidental once
// toward the target distance.
func candidate(root theory.Note, step, target int) (theory.Note, error) {
	idx := root.Letter.ScaleIndex() + step
	oct := root.Octave
	if idx >= theory.LettersPerOctave {
		oct++
	}
	n := theory.Note{
		Letter:     theory.LetterFromScaleIndex(idx),
		Accidental: root.Accidental,
		Octave:     oct,
	}

	var err error
	switch d := theory.ChromaticInterval(root, n); {
	case d > target:
		n.Accidental, err = n.Accidental.Lower()
	case d < target:
		n.Accidental, err = n.Accidental.Raise()
	}
	if err != nil {
		return theory.Note{}, err
	}
	return n, nil
}
