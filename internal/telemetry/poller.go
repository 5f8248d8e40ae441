package telemetry

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/mutker/hostctl/internal/errors"
	"codeberg.org/mutker/hostctl/internal/logger"
	"codeberg.org/mutker/hostctl/internal/platform"
)

// MinInterval is the shortest tick period the poller accepts.
const MinInterval = time.Second

// Config is the runtime config the poller needs.
type Config struct {
	Interval time.Duration
}

// Poller refreshes the shared Store on its own timeline. Ticks run on a
// single goroutine and never overlap.
type Poller struct {
	cfg       Config
	source    Source
	store     *Store
	notifiers []Notifier
	refresh   chan struct{}
	log       logger.Logger
}

// NewPoller creates a poller. Intervals under MinInterval are raised to it.
func NewPoller(cfg Config, source Source, store *Store, notifiers ...Notifier) (*Poller, error) {
	errFactory := errors.New()

	if source == nil {
		return nil, errFactory.WithMessage(ErrInvalidConfig, "poller: source required")
	}
	if store == nil {
		return nil, errFactory.WithMessage(ErrInvalidConfig, "poller: store required")
	}
	if cfg.Interval < MinInterval {
		cfg.Interval = MinInterval
	}

	return &Poller{
		cfg:       cfg,
		source:    source,
		store:     store,
		notifiers: notifiers,
		refresh:   make(chan struct{}, 1),
		log:       logger.Default(),
	}, nil
}

// Interval returns the effective tick period.
func (p *Poller) Interval() time.Duration {
	return p.cfg.Interval
}

// Refresh asks the running poller for an immediate tick. It never blocks;
// requests made while one is already pending are coalesced.
func (p *Poller) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// Run polls once immediately, then on every interval or Refresh until ctx
// is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.PollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.PollOnce(ctx)
		case <-p.refresh:
			p.PollOnce(ctx)
		}
	}
}

// PollOnce performs exactly one tick: collect, commit, notify.
func (p *Poller) PollOnce(ctx context.Context) Snapshot {
	snap, err := p.collect(ctx)
	if err != nil {
		p.log.Warn().Err(err).Msg("Telemetry poll failed, publishing unknown snapshot")
	}

	p.store.Write(snap)
	snap = p.store.Read()

	p.log.Debug().
		Int("battery", snap.BatteryPercent).
		Str("charging", snap.Charging.String()).
		Str("remaining", snap.Remaining).
		Str("power_plan", snap.PowerPlan).
		Msg("Telemetry snapshot committed")

	for _, notify := range p.notifiers {
		p.notify(notify, snap)
	}

	return snap
}

func (p *Poller) collect(ctx context.Context) (snap Snapshot, err error) {
	errFactory := errors.New()

	defer func() {
		if r := recover(); r != nil {
			snap = UnknownSnapshot()
			err = errFactory.WithData(ErrPollPanic, fmt.Sprint(r))
		}
	}()

	status, err := p.source.PowerStatus(ctx)
	if err != nil {
		return UnknownSnapshot(), errFactory.Wrap(ErrPollFailed, err)
	}

	plan, err := p.source.ActivePowerPlan(ctx)
	if err != nil || plan == "" {
		p.log.Debug().Err(err).Msg("Active power plan unavailable")
		plan = UnknownPlan
	}

	return Snapshot{
		BatteryPercent: normalizePercent(status.Percent),
		Charging:       chargeState(status.AC),
		Remaining:      FormatRemaining(status.SecondsRemaining),
		PowerPlan:      plan,
	}, nil
}

func (p *Poller) notify(fn Notifier, snap Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Msg("Telemetry notifier panicked")
		}
	}()

	fn(snap)
}

func normalizePercent(pct int) int {
	if pct < 0 || pct > 100 {
		return UnknownPercent
	}

	return pct
}

func chargeState(ac platform.ACLine) ChargeState {
	switch ac {
	case platform.ACOnline:
		return ChargeCharging
	case platform.ACOffline:
		return ChargeDischarging
	default:
		return ChargeUnknown
	}
}
