package component

// Table is the playing surface. It has no Position: it spans
// [0,Width] × [0,Height] with its corner at the origin. One per simulation.
type Table struct {
	Width  float64 // cm
	Height float64 // cm
}
