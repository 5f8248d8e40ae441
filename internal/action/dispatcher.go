package action

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"codeberg.org/mutker/hostctl/internal/gpu"
	"codeberg.org/mutker/hostctl/internal/logger"
	"codeberg.org/mutker/hostctl/internal/platform"
	"codeberg.org/mutker/hostctl/internal/telemetry"
	"codeberg.org/mutker/hostctl/internal/wol"
)

// Category groups actions by what they touch.
type Category string

const (
	CategoryTelemetry  Category = "telemetry"
	CategoryPowerPlan  Category = "power_plan"
	CategoryPowerState Category = "power_state"
	CategoryProcess    Category = "process"
	CategoryBrightness Category = "brightness"
	CategoryInput      Category = "input"
	CategoryFiles      Category = "files"
	CategoryNetwork    Category = "network"
	CategoryVolume     Category = "volume"
	CategoryDisplay    Category = "display"
	CategoryDiscovery  Category = "discovery"
)

// Handler executes one action.
type Handler func(ctx context.Context, req Request) Result

// Observer is told about every completed dispatch.
type Observer interface {
	Observe(ctx context.Context, req Request, res Result, elapsed time.Duration)
}

// SnapshotReader is the read side of the telemetry store.
type SnapshotReader interface {
	Read() telemetry.Snapshot
}

// Refresher requests an immediate telemetry tick.
type Refresher interface {
	Refresh()
}

// WakeSender broadcasts Wake-on-LAN packets.
type WakeSender interface {
	Send(ctx context.Context, mac string) (wol.MAC, error)
}

// GPU is the optional NVIDIA sensor.
type GPU interface {
	Temperature() (gpu.Temperature, error)
	Readings() []gpu.Reading
}

// Deps are the collaborators handlers use. Optional fields may be nil.
type Deps struct {
	Snapshots    SnapshotReader
	Refresher    Refresher
	Facts        platform.Facts
	Power        platform.Power
	Processes    platform.Processes
	Capabilities platform.Capabilities
	WOL          WakeSender
	GPU          GPU
	TempDir      string
	Now          func() time.Time
	Getenv       func(string) string
	Observers    []Observer
}

// Info describes a registered action for discovery.
type Info struct {
	Name      string   `json:"name"`
	Endpoint  string   `json:"endpoint"`
	Category  Category `json:"category"`
	Available bool     `json:"available"`
}

type action struct {
	name     string
	endpoint string
	category Category
	// detached actions run with a context that outlives the request.
	detached  bool
	available func() bool
	handler   Handler
}

// Dispatcher routes requests to handlers by action name.
type Dispatcher struct {
	deps    Deps
	actions map[string]*action
	order   []*action
	log     logger.Logger
}

func NewDispatcher(deps Deps) *Dispatcher {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Getenv == nil {
		deps.Getenv = os.Getenv
	}
	if deps.TempDir == "" {
		deps.TempDir = os.TempDir()
	}

	d := &Dispatcher{
		deps:    deps,
		actions: make(map[string]*action),
		log:     logger.Default(),
	}

	d.registerTelemetry()
	d.registerPower()
	d.registerProcess()
	d.registerCapabilities()
	d.registerFiles()
	d.registerNetwork()
	d.register(&action{
		name:     "actions",
		endpoint: "/actions",
		category: CategoryDiscovery,
		handler:  d.listActions,
	})

	return d
}

func (d *Dispatcher) register(a *action) {
	if a.available == nil {
		a.available = func() bool { return true }
	}
	if _, dup := d.actions[a.name]; dup {
		panic("action registered twice: " + a.name)
	}

	d.actions[a.name] = a
	d.order = append(d.order, a)
}

// Dispatch runs the named action. It never panics: handler panics become
// server errors carrying the panic message.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (res Result) {
	start := time.Now()

	a, ok := d.actions[req.Name]
	if !ok {
		res = Fail(KindNotFound, "Unknown action: "+req.Name)
		d.finish(ctx, req, res, start)
		return res
	}

	if a.detached {
		ctx = context.WithoutCancel(ctx)
	}

	defer func() {
		if r := recover(); r != nil {
			d.log.Error().
				Str("action", req.Name).
				Str("error_code", string(ErrHandlerPanic)).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("Action handler panicked")
			res = Fail(KindServerError, fmt.Sprint(r))
		}
		d.finish(ctx, req, res, start)
	}()

	return a.handler(ctx, req)
}

func (d *Dispatcher) finish(ctx context.Context, req Request, res Result, start time.Time) {
	elapsed := time.Since(start)

	if res.Success() {
		d.log.Debug().Str("action", req.Name).Dur("elapsed", elapsed).Msg("Action completed")
	} else {
		d.log.Warn().
			Str("action", req.Name).
			Str("kind", string(res.Kind)).
			Str("error", res.Message).
			Dur("elapsed", elapsed).
			Msg("Action failed")
	}

	for _, o := range d.deps.Observers {
		d.observe(ctx, o, req, res, elapsed)
	}
}

func (d *Dispatcher) observe(ctx context.Context, o Observer, req Request, res Result, elapsed time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Msg("Action observer panicked")
		}
	}()

	o.Observe(ctx, req, res, elapsed)
}

// Actions lists every registered action with its current availability.
func (d *Dispatcher) Actions() []Info {
	out := make([]Info, 0, len(d.order))
	for _, a := range d.order {
		out = append(out, Info{
			Name:      a.name,
			Endpoint:  a.endpoint,
			Category:  a.category,
			Available: a.available(),
		})
	}

	return out
}

func (d *Dispatcher) listActions(context.Context, Request) Result {
	infos := d.Actions()

	endpoints := make([]string, 0, len(infos))
	for _, info := range infos {
		endpoints = append(endpoints, info.Endpoint)
	}

	return OK(Payload{"endpoints": endpoints, "actions": infos})
}
