package data

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Scene is the initial layout of a simulation: step length, table size,
// common ball properties, the cue ball, and the object balls.
type Scene struct {
	DT          float64          `yaml:"dt"` // seconds per tick
	Table       TableEntry       `yaml:"table"`
	Ball        BallEntry        `yaml:"ball"`
	CueBall     CueBallEntry     `yaml:"cue_ball"`
	ObjectBalls ObjectBallsEntry `yaml:"object_balls"`
}

// TableEntry is the table size in centimetres.
type TableEntry struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// BallEntry holds the physical properties shared by every ball.
type BallEntry struct {
	Radius      float64 `yaml:"radius"`
	Mass        float64 `yaml:"mass"`
	Restitution float64 `yaml:"restitution"`
}

// CueBallEntry places the cue ball. VX/VY are in m/s; see CueVelocityScale.
type CueBallEntry struct {
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
	VX float64 `yaml:"vx"`
	VY float64 `yaml:"vy"`
}

type ObjectBallsEntry struct {
	Positions []PositionEntry `yaml:"positions"`
}

type PositionEntry struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// CueVelocityScale converts the scene's cue velocity (m/s) to cm/s.
const CueVelocityScale = 100

// sceneFile mirrors Scene with pointers so missing keys can be told apart
// from explicit zeros.
type sceneFile struct {
	DT          *float64 `yaml:"dt"`
	Table       *struct {
		Width  *float64 `yaml:"width"`
		Height *float64 `yaml:"height"`
	} `yaml:"table"`
	Ball *struct {
		Radius      *float64 `yaml:"radius"`
		Mass        *float64 `yaml:"mass"`
		Restitution *float64 `yaml:"restitution"`
	} `yaml:"ball"`
	CueBall *struct {
		X  *float64 `yaml:"x"`
		Y  *float64 `yaml:"y"`
		VX *float64 `yaml:"vx"`
		VY *float64 `yaml:"vy"`
	} `yaml:"cue_ball"`
	ObjectBalls *struct {
		Positions []struct {
			X *float64 `yaml:"x"`
			Y *float64 `yaml:"y"`
		} `yaml:"positions"`
	} `yaml:"object_balls"`
}

// LoadScene reads and validates a scene file.
func LoadScene(path string) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	s, err := ParseScene(raw)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return s, nil
}

// ParseScene decodes a YAML scene. Unknown keys are rejected.
func ParseScene(raw []byte) (*Scene, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var f sceneFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}

	var missing missingFields
	s := &Scene{
		DT: missing.take("dt", f.DT),
	}
	if f.Table == nil {
		missing.add("table")
	} else {
		s.Table.Width = missing.take("table.width", f.Table.Width)
		s.Table.Height = missing.take("table.height", f.Table.Height)
	}
	if f.Ball == nil {
		missing.add("ball")
	} else {
		s.Ball.Radius = missing.take("ball.radius", f.Ball.Radius)
		s.Ball.Mass = missing.take("ball.mass", f.Ball.Mass)
		s.Ball.Restitution = missing.take("ball.restitution", f.Ball.Restitution)
	}
	if f.CueBall == nil {
		missing.add("cue_ball")
	} else {
		s.CueBall.X = missing.take("cue_ball.x", f.CueBall.X)
		s.CueBall.Y = missing.take("cue_ball.y", f.CueBall.Y)
		s.CueBall.VX = missing.take("cue_ball.vx", f.CueBall.VX)
		s.CueBall.VY = missing.take("cue_ball.vy", f.CueBall.VY)
	}
	if f.ObjectBalls == nil {
		missing.add("object_balls")
	} else {
		s.ObjectBalls.Positions = make([]PositionEntry, len(f.ObjectBalls.Positions))
		for i, p := range f.ObjectBalls.Positions {
			s.ObjectBalls.Positions[i] = PositionEntry{
				X: missing.take(fmt.Sprintf("object_balls.positions[%d].x", i), p.X),
				Y: missing.take(fmt.Sprintf("object_balls.positions[%d].y", i), p.Y),
			}
		}
	}
	if err := missing.err(); err != nil {
		return nil, err
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks value ranges. It does not check that balls start inside
// the table; the cushion pass pushes them back in on the first tick.
func (s *Scene) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(finite(s.DT) && s.DT >= 0, "dt must be a finite value >= 0, got %v", s.DT)
	check(finite(s.Table.Width) && s.Table.Width > 0, "table.width must be > 0, got %v", s.Table.Width)
	check(finite(s.Table.Height) && s.Table.Height > 0, "table.height must be > 0, got %v", s.Table.Height)
	check(finite(s.Ball.Radius) && s.Ball.Radius > 0, "ball.radius must be > 0, got %v", s.Ball.Radius)
	check(finite(s.Ball.Mass) && s.Ball.Mass > 0, "ball.mass must be > 0, got %v", s.Ball.Mass)
	check(s.Ball.Restitution >= 0 && s.Ball.Restitution <= 1, "ball.restitution must be in [0,1], got %v", s.Ball.Restitution)
	check(finite(s.CueBall.X) && finite(s.CueBall.Y), "cue_ball position must be finite")
	check(finite(s.CueBall.VX) && finite(s.CueBall.VY), "cue_ball velocity must be finite")
	for i, p := range s.ObjectBalls.Positions {
		check(finite(p.X) && finite(p.Y), "object_balls.positions[%d] must be finite", i)
	}

	return errors.Join(errs...)
}

// BallCount returns the cue ball plus every object ball.
func (s *Scene) BallCount() int {
	return 1 + len(s.ObjectBalls.Positions)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

type missingFields []string

func (m *missingFields) add(name string) { *m = append(*m, name) }

func (m *missingFields) take(name string, v *float64) float64 {
	if v == nil {
		m.add(name)
		return 0
	}
	return *v
}

func (m missingFields) err() error {
	if len(m) == 0 {
		return nil
	}
	return fmt.Errorf("missing required fields: %v", []string(m))
}
