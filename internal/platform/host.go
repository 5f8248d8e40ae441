package platform

import (
	"context"
	"os"
	"runtime"
	"sort"
	"syscall"
	"time"

	"codeberg.org/mutker/hostctl/internal/errors"
	"codeberg.org/mutker/hostctl/internal/logger"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

const (
	cpuSampleWindow = 100 * time.Millisecond
	bytesPerGB      = 1024 * 1024 * 1024
)

// Host implements Facts and Processes on top of gopsutil.
type Host struct {
	root string
	log  logger.Logger
}

func NewHost() *Host {
	return &Host{root: rootMount(), log: logger.Default()}
}

func (h *Host) Info(ctx context.Context) (HostInfo, error) {
	stat, err := host.InfoWithContext(ctx)
	if err != nil {
		return HostInfo{}, errors.New().Wrap(ErrQueryFailed, err)
	}

	return HostInfo{
		Hostname:        stat.Hostname,
		OS:              stat.OS,
		Platform:        stat.Platform,
		PlatformVersion: stat.PlatformVersion,
		KernelVersion:   stat.KernelVersion,
		Arch:            runtime.GOARCH,
	}, nil
}

func (h *Host) CPUPercent(ctx context.Context) (float64, error) {
	pct, err := cpu.PercentWithContext(ctx, cpuSampleWindow, false)
	if err != nil {
		return 0, errors.New().Wrap(ErrQueryFailed, err)
	}
	if len(pct) == 0 {
		return 0, errors.New().WithMessage(ErrQueryFailed, "no CPU samples")
	}

	return roundTo(pct[0], 1), nil
}

func (h *Host) MemoryPercent(ctx context.Context) (float64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, errors.New().Wrap(ErrQueryFailed, err)
	}

	return roundTo(vm.UsedPercent, 1), nil
}

func (h *Host) DiskPercent(ctx context.Context) (float64, error) {
	usage, err := disk.UsageWithContext(ctx, h.root)
	if err != nil {
		return 0, errors.New().Wrap(ErrQueryFailed, err)
	}

	return roundTo(usage.UsedPercent, 1), nil
}

// Temperature returns the first sensor reading above zero, if any.
func (h *Host) Temperature(ctx context.Context) (float64, bool) {
	temps, err := host.SensorsTemperaturesWithContext(ctx)
	if err != nil && len(temps) == 0 {
		h.log.Debug().Err(err).Msg("No temperature sensors")
		return 0, false
	}

	for _, t := range temps {
		if t.Temperature > 0 {
			return roundTo(t.Temperature, 1), true
		}
	}

	return 0, false
}

func (h *Host) Uptime(ctx context.Context) (time.Duration, error) {
	secs, err := host.UptimeWithContext(ctx)
	if err != nil {
		return 0, errors.New().Wrap(ErrQueryFailed, err)
	}

	return time.Duration(secs) * time.Second, nil
}

// Interfaces maps every interface name to its IPv4 addresses.
func (h *Host) Interfaces(ctx context.Context) (map[string][]InterfaceAddr, error) {
	ifaces, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		return nil, errors.New().Wrap(ErrQueryFailed, err)
	}

	out := make(map[string][]InterfaceAddr, len(ifaces))
	for _, iface := range ifaces {
		addrs := []InterfaceAddr{}
		for _, a := range iface.Addrs {
			if v4, ok := ipv4Addr(a.Addr); ok {
				addrs = append(addrs, v4)
			}
		}
		out[iface.Name] = addrs
	}

	return out, nil
}

// Partitions returns usage of every mounted partition, skipping those that
// cannot be read.
func (h *Host) Partitions(ctx context.Context) ([]Partition, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, errors.New().Wrap(ErrQueryFailed, err)
	}

	out := make([]Partition, 0, len(parts))
	for _, p := range parts {
		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil {
			h.log.Debug().Err(err).Str("mountpoint", p.Mountpoint).Msg("Skipping partition")
			continue
		}

		out = append(out, Partition{
			Device:     p.Device,
			Mountpoint: p.Mountpoint,
			Fstype:     p.Fstype,
			TotalGB:    roundTo(float64(usage.Total)/bytesPerGB, 2),
			UsedGB:     roundTo(float64(usage.Used)/bytesPerGB, 2),
			FreeGB:     roundTo(float64(usage.Free)/bytesPerGB, 2),
			Percent:    roundTo(usage.UsedPercent, 1),
		})
	}

	return out, nil
}

// Processes lists running processes ordered by pid. Processes that exit or
// deny access mid-scan are skipped.
func (h *Host) Processes(ctx context.Context) ([]ProcessInfo, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, errors.New().Wrap(ErrQueryFailed, err)
	}

	out := make([]ProcessInfo, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		cpuPct, _ := p.CPUPercentWithContext(ctx)
		memPct, _ := p.MemoryPercentWithContext(ctx)

		out = append(out, ProcessInfo{
			PID:           p.Pid,
			Name:          name,
			CPUPercent:    roundTo(cpuPct, 1),
			MemoryPercent: roundTo(float64(memPct), 2),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].PID < out[j].PID })

	return out, nil
}

// Kill terminates pid and returns the name it had. Missing processes yield
// ErrProcessNotFound and permission failures ErrAccessDenied.
func (h *Host) Kill(ctx context.Context, pid int32) (string, error) {
	errFactory := errors.New()

	if pid <= 0 {
		return "", errFactory.WithMessage(ErrProcessNotFound, "No such process")
	}

	exists, err := process.PidExistsWithContext(ctx, pid)
	if err != nil {
		return "", classifyProcessErr(pid, err)
	}
	if !exists {
		return "", errFactory.WithMessage(ErrProcessNotFound, "No such process")
	}

	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return "", classifyProcessErr(pid, err)
	}

	name, err := p.NameWithContext(ctx)
	if err != nil {
		h.log.Debug().Err(err).Int32("pid", pid).Msg("Process name unavailable")
	}

	if err := p.TerminateWithContext(ctx); err != nil {
		return "", classifyProcessErr(pid, err)
	}

	h.log.Info().Int32("pid", pid).Str("name", name).Msg("Process terminated")

	return name, nil
}

func classifyProcessErr(pid int32, err error) error {
	errFactory := errors.New()

	switch {
	case errors.Is(err, process.ErrorProcessNotRunning),
		errors.Is(err, os.ErrProcessDone),
		errors.Is(err, syscall.ESRCH):
		return errFactory.Wrap(ErrProcessNotFound, err).WithMessage("No such process")
	case errors.Is(err, os.ErrPermission):
		return errFactory.Wrap(ErrAccessDenied, err).WithMessage("Access denied")
	default:
		return errFactory.Wrap(ErrCommandFailed, err).WithData(pid)
	}
}
