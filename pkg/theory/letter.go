package theory

// Letter is one of the seven note names of the musical alphabet.
type Letter int

// The musical alphabet in diatonic order starting from C.
const (
	C Letter = iota
	D
	E
	F
	G
	A
	B
)

// LettersPerOctave is the number of diatonic letters before the alphabet wraps.
const LettersPerOctave = 7

var letterNames = [LettersPerOctave]string{"C", "D", "E", "F", "G", "A", "B"}

// chromaticIndices holds the semitone offset of each natural letter above C.
var chromaticIndices = [LettersPerOctave]int{0, 2, 4, 5, 7, 9, 11}

// LetterFromScaleIndex returns the letter at diatonic index n.
// Any integer is accepted; n is reduced modulo 7 into the range 0-6.
func LetterFromScaleIndex(n int) Letter {
	n %= LettersPerOctave
	if n < 0 {
		n += LettersPerOctave
	}
	return Letter(n)
}

// ScaleIndex returns the diatonic index of l (C=0 ... B=6).
func (l Letter) ScaleIndex() int { return int(l) }

// ChromaticIndex returns the semitone distance of the natural letter above C.
func (l Letter) ChromaticIndex() int { return chromaticIndices[l.ScaleIndex()] }

// Next returns the following letter, wrapping B back to C.
func (l Letter) Next() Letter { return LetterFromScaleIndex(int(l) + 1) }

// Valid reports whether l is one of the seven letters.
func (l Letter) Valid() bool { return l >= C && l <= B }

func (l Letter) String() string {
	if !l.Valid() {
		return "?"
	}
	return letterNames[l]
}

// ParseLetter converts a single letter name (either case) to a Letter.
func ParseLetter(r rune) (Letter, bool) {
	switch r {
	case 'C', 'c':
		return C, true
	case 'D', 'd':
		return D, true
	case 'E', 'e':
		return E, true
	case 'F', 'f':
		return F, true
	case 'G', 'g':
		return G, true
	case 'A', 'a':
		return A, true
	case 'B', 'b':
		return B, true
	}
	return 0, false
}
