package component

// Velocity is a ball's linear velocity in centimetres per second.
type Velocity struct {
	X float64
	Y float64
}
