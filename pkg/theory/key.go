package theory

import (
	"strings"

	kerrors "github.com/matzehuels/keywheel/pkg/errors"
)

// Mode selects the relationship table a key uses.
type Mode int

const (
	Major Mode = iota
	Minor
)

// Suffix returns the spelling suffix: "" for major, "m" for minor.
func (m Mode) Suffix() string {
	if m == Minor {
		return "m"
	}
	return ""
}

// Opposite returns minor for major and major for minor.
func (m Mode) Opposite() Mode {
	if m == Minor {
		return Major
	}
	return Minor
}

func (m Mode) String() string {
	if m == Minor {
		return "minor"
	}
	return "major"
}

// Key is a root note plus a mode. Two keys are the same key when their
// spellings match; enharmonic spellings stay distinct.
type Key struct {
	Root Note
	Mode Mode
}

// NewKey builds a key rooted in octave 0.
func NewKey(l Letter, a Accidental, m Mode) Key {
	return Key{Root: Note{Letter: l, Accidental: a}, Mode: m}
}

// Spelling returns letter, accidental and mode suffix, e.g. "F#m".
func (k Key) Spelling() string {
	return k.Root.String() + k.Mode.Suffix()
}

func (k Key) String() string { return k.Spelling() }

// Equal reports whether k and other are spelled identically.
func (k Key) Equal(other Key) bool { return k.Spelling() == other.Spelling() }

// ParseKey parses key text such as "C", "Bb", "f#m" or "Ebminor".
//
// The letter is case-insensitive. The accidental is one of "b", "#", "♭",
// "♯" or absent. The mode suffix is absent or "maj"/"major" for major, and
// "m", "min" or "minor" for minor.
func ParseKey(s string) (Key, error) {
	if err := kerrors.ValidateKeyName(s); err != nil {
		return Key{}, err
	}
	text := strings.TrimSpace(s)
	runes := []rune(text)

	letter, ok := ParseLetter(runes[0])
	if !ok {
		return Key{}, kerrors.New(kerrors.ErrCodeInvalidKey, "invalid key %q: %q is not a note letter", s, string(runes[0]))
	}
	rest := runes[1:]

	acc := Natural
	if len(rest) > 0 {
		switch rest[0] {
		case 'b', '♭':
			acc, rest = Flat, rest[1:]
		case '#', '♯':
			acc, rest = Sharp, rest[1:]
		}
	}

	mode := Major
	switch strings.ToLower(string(rest)) {
	case "", "maj", "major":
	case "m", "min", "minor":
		mode = Minor
	default:
		return Key{}, kerrors.New(kerrors.ErrCodeInvalidKey, "invalid key %q: unknown suffix %q", s, string(rest))
	}

	return NewKey(letter, acc, mode), nil
}

// MustParseKey is like ParseKey but panics on error. Intended for tests and
// package-level tables.
func MustParseKey(s string) Key {
	k, err := ParseKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

var standardRoots = []string{
	"C", "G", "D", "A", "E", "B", "F#", "Db", "Ab", "Eb", "Bb", "F",
	"Am", "Em", "Bm", "F#m", "C#m", "G#m", "Ebm", "Bbm", "Fm", "Cm", "Gm", "Dm",
}

// StandardRoots returns the 24 keys offered as tree roots: twelve major and
// twelve minor keys in circle-of-fifths order with conventional spelling.
func StandardRoots() []Key {
	keys := make([]Key, len(standardRoots))
	for i, s := range standardRoots {
		keys[i] = MustParseKey(s)
	}
	return keys
}
