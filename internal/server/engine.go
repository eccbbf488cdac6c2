package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/san-kum/gasmix/internal/gas"
	"github.com/san-kum/gasmix/internal/metrics"
)

const (
	CmdStart = "start"
	CmdPause = "pause"
	CmdReset = "reset"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrEngineStopped  = errors.New("engine stopped")
)

type GasParams struct {
	Count       int     `json:"count"`
	Temperature float64 `json:"temperature"`
	Mass        float64 `json:"mass"`
}

func (g GasParams) config() gas.PopulationConfig {
	return gas.PopulationConfig{Count: g.Count, Temperature: g.Temperature, Mass: g.Mass}
}

// Command is a client request. A and B are only read by reset; when absent
// the previous settings are reused.
type Command struct {
	Type string     `json:"type"`
	A    *GasParams `json:"a,omitempty"`
	B    *GasParams `json:"b,omitempty"`
}

func (c Command) Validate() error {
	switch c.Type {
	case CmdStart, CmdPause:
		return nil
	case CmdReset:
		if c.A != nil {
			if err := c.A.config().Validate(); err != nil {
				return fmt.Errorf("gas A: %w", err)
			}
		}
		if c.B != nil {
			if err := c.B.config().Validate(); err != nil {
				return fmt.Errorf("gas B: %w", err)
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownCommand, c.Type)
}

type ParticleFrame struct {
	P [3]float64 `json:"p"`
	R float64    `json:"r"`
	G string     `json:"g"`
}

type Frame struct {
	Type      string          `json:"type"`
	Seq       uint64          `json:"seq"`
	Time      float64         `json:"time"`
	Running   bool            `json:"running"`
	HalfSize  float64         `json:"half_size"`
	WallHits  int             `json:"wall_hits"`
	Mixing    float64         `json:"mixing"`
	Particles []ParticleFrame `json:"particles"`
}

// Engine owns a simulation and steps it on its own goroutine. Every other
// goroutine talks to it through Submit and Latest.
type Engine struct {
	sim      *gas.Simulation
	dt       float64
	interval time.Duration
	cmds     chan Command
	publish  func([]byte)
	log      gas.Logger

	seq    uint64
	mu     sync.RWMutex
	latest []byte
	done   chan struct{}
}

func NewEngine(sim *gas.Simulation, dt float64, fps int, publish func([]byte), log gas.Logger) *Engine {
	if !(dt > 0) || math.IsInf(dt, 0) {
		dt = 1.0 / 60
	}
	if fps <= 0 {
		fps = 60
	}
	if publish == nil {
		publish = func([]byte) {}
	}
	if log == nil {
		log = gas.NopLogger{}
	}
	e := &Engine{
		sim:      sim,
		dt:       dt,
		interval: time.Second / time.Duration(fps),
		cmds:     make(chan Command, 8),
		publish:  publish,
		log:      log,
		done:     make(chan struct{}),
	}
	e.snapshot()
	return e
}

// Submit validates cmd and queues it for the loop goroutine.
func (e *Engine) Submit(ctx context.Context, cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	select {
	case <-e.done:
		return ErrEngineStopped
	default:
	}
	select {
	case e.cmds <- cmd:
		return nil
	case <-e.done:
		return ErrEngineStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Latest returns the most recent encoded frame.
func (e *Engine) Latest() []byte {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.latest
}

// Run steps the simulation once per frame until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	defer close(e.done)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.log.Infof("engine running at %v per frame", e.interval)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-e.cmds:
			e.apply(cmd)
			e.publish(e.snapshot())
		case <-ticker.C:
			if !e.sim.Running() {
				continue
			}
			e.sim.Step(e.dt)
			e.publish(e.snapshot())
		}
	}
}

func (e *Engine) apply(cmd Command) {
	switch cmd.Type {
	case CmdStart:
		e.sim.SetRunning(true)
	case CmdPause:
		e.sim.SetRunning(false)
	case CmdReset:
		a, b := e.sim.Config(gas.PopulationA), e.sim.Config(gas.PopulationB)
		if cmd.A != nil {
			a = cmd.A.config()
		}
		if cmd.B != nil {
			b = cmd.B.config()
		}
		e.sim.Reset(a, b)
	}
	e.log.Debugf("applied %s", cmd.Type)
}

// snapshot encodes the current state as the latest frame.
func (e *Engine) snapshot() []byte {
	e.seq++
	ps := e.sim.Particles()
	f := Frame{
		Type:      "frame",
		Seq:       e.seq,
		Time:      e.sim.Elapsed(),
		Running:   e.sim.Running(),
		HalfSize:  e.sim.HalfSize(),
		WallHits:  e.sim.WallHits(),
		Mixing:    metrics.MixingIndex(ps),
		Particles: make([]ParticleFrame, len(ps)),
	}
	for i, p := range ps {
		f.Particles[i] = ParticleFrame{
			P: [3]float64{p.Position.X(), p.Position.Y(), p.Position.Z()},
			R: p.Radius,
			G: p.Population.String(),
		}
	}

	data, err := json.Marshal(f)
	if err != nil {
		e.log.Errorf("encode frame: %v", err)
		return e.Latest()
	}
	e.mu.Lock()
	e.latest = data
	e.mu.Unlock()
	return data
}
