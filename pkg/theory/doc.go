// Package theory models the pitch vocabulary keywheel works with.
//
// # Overview
//
// The model is deliberately small: seven letter names, three accidentals
// (flat, natural, sharp), an octave register, and two modes. Double flats and
// double sharps are not representable; stepping past either extreme returns
// an [AccidentalRangeError].
//
//	k := theory.NewKey(theory.B, theory.Flat, theory.Major)
//	fmt.Println(k)            // Bb
//	fmt.Println(k.Mode)       // major
//
// # Identity
//
// Keys compare by spelling. Bb and A# are the same pitch but distinct keys,
// which is what the related-key tree deduplicates on.
//
// # Intervals
//
// [ChromaticInterval] measures the semitone distance between two notes,
// reduced to a pitch class (0-11). The octave register only matters when a
// derived note wraps from B back to C.
package theory
