package component

// Ball holds the physical properties of a ball. Set once at creation and
// never mutated afterwards.
type Ball struct {
	Radius      float64 // cm, > 0
	Mass        float64 // g, > 0
	Restitution float64 // 0 (fully inelastic) .. 1 (elastic)
}
