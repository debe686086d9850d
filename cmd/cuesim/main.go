package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/l1jgo/cuesim/internal/config"
	"github.com/l1jgo/cuesim/internal/data"
	"github.com/l1jgo/cuesim/internal/persist"
	"github.com/l1jgo/cuesim/internal/render"
	"github.com/l1jgo/cuesim/internal/scripting"
	"github.com/l1jgo/cuesim/internal/system"
	"github.com/l1jgo/cuesim/internal/world"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, value any) {
	v := fmt.Sprint(value)
	dotsLen := 42 - len(label) - len(v)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), v)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

// ── Simulation ─────────────────────────────────────────────────────

func run() error {
	cfgPath := "config/cuesim.toml"
	if p := os.Getenv("CUESIM_CONFIG"); p != "" {
		cfgPath = p
	}
	flag.StringVar(&cfgPath, "config", cfgPath, "path to the TOML config file")
	steps := flag.Int("steps", -1, "override simulation.steps")
	flag.Parse()

	// 1. Load config
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *steps >= 0 {
		cfg.Simulation.Steps = *steps
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if p := startProfile(cfg.Profile); p != nil {
		defer p.Stop()
	}

	// 3. Load the scene and create entities
	printSection("scene")
	scene, err := data.LoadScene(cfg.Simulation.Scene)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	log.Info("scene loaded",
		zap.String("file", cfg.Simulation.Scene),
		zap.Float64("dt", scene.DT),
		zap.Float64("table_width", scene.Table.Width),
		zap.Float64("table_height", scene.Table.Height),
		zap.Int("balls", scene.BallCount()),
	)

	ws := world.NewState()
	boot := world.Populate(ws, scene)
	printStat("table", fmt.Sprintf("%gx%g cm", scene.Table.Width, scene.Table.Height))
	printStat("balls", ws.BallCount())
	printStat("dt", fmt.Sprintf("%gs", scene.DT))
	printStat("steps", cfg.Simulation.Steps)
	fmt.Println()

	// 4. Observers
	observers := []system.Observer{system.NewLogObserver(log)}
	if cfg.Render.Enabled {
		term, err := render.NewTerminal(cfg.Render.FrameDelay)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		defer term.Close()
		observers = append(observers, term)
	}

	pipe := system.NewPipeline(ws, log, observers...)

	// 5. Optional scenario script
	if cfg.Script.Path != "" {
		engine, err := scripting.NewEngine(cfg.Script.Path, system.NewScriptHost(ws, world.BallProps(scene)), log)
		if err != nil {
			return fmt.Errorf("lua engine: %w", err)
		}
		defer engine.Close()
		pipe.Runner.Register(system.NewScriptSystem(engine))
		printOK("script loaded: " + cfg.Script.Path)
	}

	// 6. Optional trajectory recording
	if cfg.Database.Enabled {
		rec, closeDB, err := openRecorder(cfg, scene, ws, log)
		if err != nil {
			return err
		}
		defer closeDB()
		pipe.Runner.Register(rec)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := rec.Close(ctx); err != nil {
				log.Error("finish run", zap.Error(err))
			}
			if n := rec.Dropped(); n > 0 {
				log.Warn("trajectory samples lost", zap.Int("samples", n))
			}
		}()
	}

	// 7. Run
	dt := time.Duration(scene.DT * float64(time.Second))
	log.Debug("entities created",
		zap.Stringer("table", boot.Table),
		zap.Stringer("cue_ball", boot.CueBall),
		zap.Int("object_balls", len(boot.ObjectBalls)),
	)

	start := time.Now()
	pipe.Runner.Run(cfg.Simulation.Steps, dt, func(step int) {
		log.Info(fmt.Sprintf("--- time step %d ---", step))
	})

	log.Info("simulation finished",
		append(pipe.Stats.Fields(),
			zap.Int("ticks", pipe.Runner.Ticks()),
			zap.Int("balls", ws.BallCount()),
			zap.Duration("elapsed", time.Since(start)),
		)...,
	)
	return nil
}

func openRecorder(cfg *config.Config, scene *data.Scene, ws *world.State, log *zap.Logger) (*system.RecordSystem, func(), error) {
	printSection("database")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return nil, nil, fmt.Errorf("database: %w", err)
	}
	printOK("PostgreSQL connected")

	version, err := persist.RunMigrations(ctx, db.Pool)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	printOK(fmt.Sprintf("schema at version %d", version))

	repo := persist.NewTrajectoryRepo(db)
	run := persist.Run{
		ID:        uuid.New(),
		StartedAt: time.Now(),
		Scene:     cfg.Simulation.Scene,
		DT:        scene.DT,
		Steps:     cfg.Simulation.Steps,
		Balls:     ws.BallCount(),
	}
	if err := repo.CreateRun(ctx, run); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create run: %w", err)
	}
	printStat("run", run.ID.String())
	fmt.Println()

	rec := system.NewRecordSystem(ws, repo, run.ID, log, cfg.Database.FlushInterval)
	return rec, db.Close, nil
}

func startProfile(cfg config.ProfileConfig) interface{ Stop() } {
	switch cfg.Mode {
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.Dir), profile.Quiet)
	case "mem":
		return profile.Start(profile.MemProfile, profile.ProfilePath(cfg.Dir), profile.Quiet)
	}
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
