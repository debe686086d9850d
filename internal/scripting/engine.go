package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Host is what scripts can reach in the simulation.
type Host interface {
	// SpawnBall queues a ball with the scene's common properties. Position in
	// cm, velocity in cm/s. It appears after the current tick.
	SpawnBall(x, y, vx, vy float64)
	BallCount() int
}

// Engine wraps a single gopher-lua VM running a scenario script.
// Single-goroutine access only (simulation loop).
//
// Script API:
//
//	spawn_ball(x, y, vx, vy)  queue a ball
//	ball_count()              number of live balls
//	log(msg)                  info log line
//	function on_tick(step)    optional, called before every tick
type Engine struct {
	vm   *lua.LState
	host Host
	log  *zap.Logger

	onTick lua.LValue
}

// NewEngine creates a VM and runs the script at path.
func NewEngine(path string, host Host, log *zap.Logger) (*Engine, error) {
	e := newEngine(host, log)
	if err := e.vm.DoFile(path); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	e.bind()
	log.Debug("loaded lua script", zap.String("file", path), zap.Bool("on_tick", e.HasOnTick()))
	return e, nil
}

// NewEngineFromString is NewEngine for inline source.
func NewEngineFromString(src string, host Host, log *zap.Logger) (*Engine, error) {
	e := newEngine(host, log)
	if err := e.vm.DoString(src); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load script: %w", err)
	}
	e.bind()
	return e, nil
}

func newEngine(host Host, log *zap.Logger) *Engine {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, host: host, log: log}
	vm.SetGlobal("spawn_ball", vm.NewFunction(e.luaSpawnBall))
	vm.SetGlobal("ball_count", vm.NewFunction(e.luaBallCount))
	vm.SetGlobal("log", vm.NewFunction(e.luaLog))
	return e
}

func (e *Engine) bind() {
	if fn := e.vm.GetGlobal("on_tick"); fn.Type() == lua.LTFunction {
		e.onTick = fn
	}
}

func (e *Engine) HasOnTick() bool { return e.onTick != nil }

// OnTick calls the script's on_tick(step). Script errors are logged and
// returned; the VM stays usable.
func (e *Engine) OnTick(step int) error {
	if e.onTick == nil {
		return nil
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      e.onTick,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(step)); err != nil {
		e.log.Error("lua on_tick error", zap.Int("step", step), zap.Error(err))
		return fmt.Errorf("on_tick(%d): %w", step, err)
	}
	return nil
}

func (e *Engine) Close() {
	e.vm.Close()
}

func (e *Engine) luaSpawnBall(L *lua.LState) int {
	x := float64(L.CheckNumber(1))
	y := float64(L.CheckNumber(2))
	vx := float64(L.OptNumber(3, 0))
	vy := float64(L.OptNumber(4, 0))
	e.host.SpawnBall(x, y, vx, vy)
	return 0
}

func (e *Engine) luaBallCount(L *lua.LState) int {
	L.Push(lua.LNumber(e.host.BallCount()))
	return 1
}

func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info("script", zap.String("msg", L.CheckString(1)))
	return 0
}
