package component

// Position is a ball centre on the table plane, in centimetres.
// Pure data, zero methods. All mutations happen in System functions.
type Position struct {
	X float64
	Y float64
}
