package theory

// SemitonesPerOctave is the size of the chromatic scale.
const SemitonesPerOctave = 12

// Octave is a register number. It only disambiguates distances when a derived
// note's letter wraps past B.
type Octave uint

// Note is a spelled pitch in a register.
type Note struct {
	Letter     Letter
	Accidental Accidental
	Octave     Octave
}

// Position returns the absolute chromatic position of n.
// It can be negative for Cb in octave 0.
func (n Note) Position() int {
	return int(n.Octave)*SemitonesPerOctave + n.Letter.ChromaticIndex() + n.Accidental.Offset()
}

// String returns the spelled note name without the octave.
func (n Note) String() string {
	return n.Letter.String() + n.Accidental.String()
}

// ChromaticInterval returns the semitone distance between a and b reduced to
// a pitch class. The result is symmetric and always in [0, 11].
func ChromaticInterval(a, b Note) int {
	d := a.Position() - b.Position()
	if d < 0 {
		d = -d
	}
	return d % SemitonesPerOctave
}
