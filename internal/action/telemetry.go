package action

import (
	"context"

	"codeberg.org/mutker/hostctl/internal/platform"
)

func (d *Dispatcher) registerTelemetry() {
	for _, a := range []*action{
		{name: "status", endpoint: "/status", handler: d.status},
		{name: "ping", endpoint: "/ping", handler: d.ping},
		{name: "info", endpoint: "/info", handler: d.info},
		{name: "network", endpoint: "/network", handler: d.network},
		{name: "disk", endpoint: "/disk", handler: d.disk},
		{name: "processes", endpoint: "/processes", handler: d.processes},
	} {
		a.category = CategoryTelemetry
		d.register(a)
	}
}

func (d *Dispatcher) status(ctx context.Context, _ Request) Result {
	snap := d.deps.Snapshots.Read()
	facts := d.deps.Facts

	cpu, err := facts.CPUPercent(ctx)
	if err != nil {
		return classify(err)
	}
	ram, err := facts.MemoryPercent(ctx)
	if err != nil {
		return classify(err)
	}
	disk, err := facts.DiskPercent(ctx)
	if err != nil {
		return classify(err)
	}
	uptime, err := facts.Uptime(ctx)
	if err != nil {
		return classify(err)
	}

	return OK(Payload{
		"battery":     snap.Battery(),
		"charging":    snap.Charging.Value(),
		"remaining":   snap.Remaining,
		"powerPlan":   snap.PowerPlan,
		"cpu":         cpu,
		"ram":         ram,
		"disk":        disk,
		"temperature": d.temperature(ctx),
		"uptime":      platform.FormatUptime(uptime),
	})
}

// temperature prefers host sensors and falls back to the GPU. nil when
// neither is available.
func (d *Dispatcher) temperature(ctx context.Context) any {
	if t, ok := d.deps.Facts.Temperature(ctx); ok {
		return t
	}

	if d.deps.GPU != nil {
		if t, err := d.deps.GPU.Temperature(); err == nil {
			return float64(t)
		}
	}

	return nil
}

func (d *Dispatcher) ping(context.Context, Request) Result {
	return OK(Payload{"alive": true})
}

func (d *Dispatcher) info(ctx context.Context, _ Request) Result {
	host, err := d.deps.Facts.Info(ctx)
	if err != nil {
		return classify(err)
	}
	cpu, err := d.deps.Facts.CPUPercent(ctx)
	if err != nil {
		return classify(err)
	}
	ram, err := d.deps.Facts.MemoryPercent(ctx)
	if err != nil {
		return classify(err)
	}

	var computerName any
	if v := d.deps.Getenv("COMPUTERNAME"); v != "" {
		computerName = v
	}

	payload := Payload{
		"hostname":         host.Hostname,
		"computername_env": computerName,
		"cpu_percent":      cpu,
		"ram_percent":      ram,
		"os":               host.OS,
		"platform":         host.Platform,
		"platform_version": host.PlatformVersion,
		"kernel_version":   host.KernelVersion,
		"arch":             host.Arch,
		"capabilities":     d.deps.Capabilities.Available(),
	}
	if d.deps.GPU != nil {
		payload["gpus"] = d.deps.GPU.Readings()
	}

	return OK(payload)
}

func (d *Dispatcher) network(ctx context.Context, _ Request) Result {
	host, err := d.deps.Facts.Info(ctx)
	if err != nil {
		return classify(err)
	}
	ifaces, err := d.deps.Facts.Interfaces(ctx)
	if err != nil {
		return classify(err)
	}

	return OK(Payload{"hostname": host.Hostname, "interfaces": ifaces})
}

func (d *Dispatcher) disk(ctx context.Context, _ Request) Result {
	parts, err := d.deps.Facts.Partitions(ctx)
	if err != nil {
		return classify(err)
	}

	return OK(Payload{"partitions": parts})
}

func (d *Dispatcher) processes(ctx context.Context, _ Request) Result {
	procs, err := d.deps.Facts.Processes(ctx)
	if err != nil {
		return classify(err)
	}

	return OK(Payload{"processes": procs})
}
