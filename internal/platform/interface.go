package platform

import (
	"context"
	"strings"
	"time"
)

// ACLine is the state of the external power source.
type ACLine int8

const (
	ACUnknown ACLine = iota
	ACOffline
	ACOnline
)

func (a ACLine) String() string {
	switch a {
	case ACOnline:
		return "online"
	case ACOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// PowerStatus is one raw battery reading. Percent is -1 when unknown and
// SecondsRemaining is <= 0 (or UnlimitedSeconds) when the OS has no estimate.
type PowerStatus struct {
	Percent          int
	AC               ACLine
	SecondsRemaining int64
}

// Command is an OS side effect expressed as a program and its arguments.
type Command struct {
	Name string
	Args []string
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}

	return c.Name + " " + strings.Join(c.Args, " ")
}

// CommandResult carries the captured exit status and combined output.
type CommandResult struct {
	ExitCode int
	Output   string
}

// Runner executes commands. A non-zero exit is reported as an error
// carrying ErrCommandFailed, with the result still populated.
type Runner interface {
	Run(ctx context.Context, cmd Command) (CommandResult, error)
}

// PowerAction is a machine power-state transition.
type PowerAction string

const (
	ActionShutdown PowerAction = "shutdown"
	ActionRestart  PowerAction = "restart"
	ActionSleep    PowerAction = "sleep"
	ActionLock     PowerAction = "lock"
	ActionLogout   PowerAction = "logout"
)

// Power reads battery state and drives power plans and transitions.
type Power interface {
	PowerStatus(ctx context.Context) (PowerStatus, error)
	ActivePowerPlan(ctx context.Context) (string, error)
	SetPowerPlan(ctx context.Context, plan PowerPlan) error
	Transition(ctx context.Context, action PowerAction) error
}

// HostInfo describes the machine.
type HostInfo struct {
	Hostname        string `json:"hostname"`
	OS              string `json:"os"`
	Platform        string `json:"platform"`
	PlatformVersion string `json:"platform_version"`
	KernelVersion   string `json:"kernel_version"`
	Arch            string `json:"arch"`
}

// InterfaceAddr is one IPv4 address bound to a network interface.
type InterfaceAddr struct {
	Address   string `json:"address"`
	Netmask   string `json:"netmask"`
	Broadcast string `json:"broadcast"`
}

// Partition is the usage of one mounted filesystem, sizes in GB.
type Partition struct {
	Device     string  `json:"device"`
	Mountpoint string  `json:"mountpoint"`
	Fstype     string  `json:"fstype"`
	TotalGB    float64 `json:"total_gb"`
	UsedGB     float64 `json:"used_gb"`
	FreeGB     float64 `json:"free_gb"`
	Percent    float64 `json:"percent"`
}

// ProcessInfo is one entry of the process list.
type ProcessInfo struct {
	PID           int32   `json:"pid"`
	Name          string  `json:"name"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
}

// Facts answers read-only questions about the host.
type Facts interface {
	Info(ctx context.Context) (HostInfo, error)
	CPUPercent(ctx context.Context) (float64, error)
	MemoryPercent(ctx context.Context) (float64, error)
	DiskPercent(ctx context.Context) (float64, error)
	Temperature(ctx context.Context) (float64, bool)
	Uptime(ctx context.Context) (time.Duration, error)
	Interfaces(ctx context.Context) (map[string][]InterfaceAddr, error)
	Partitions(ctx context.Context) ([]Partition, error)
	Processes(ctx context.Context) ([]ProcessInfo, error)
}

// Processes terminates processes.
type Processes interface {
	Kill(ctx context.Context, pid int32) (name string, err error)
}

// MediaKey is a multimedia key.
type MediaKey string

const (
	KeyPlayPause MediaKey = "playpause"
	KeyNext      MediaKey = "next"
	KeyPrev      MediaKey = "prev"
)

// VolumeAction is a step change of the default audio sink.
type VolumeAction string

const (
	VolumeMute VolumeAction = "mute"
	VolumeUp   VolumeAction = "up"
	VolumeDown VolumeAction = "down"
)

type Brightness interface {
	Brightness(ctx context.Context) (int, error)
	SetBrightness(ctx context.Context, level int) error
}

type Input interface {
	PressMediaKey(ctx context.Context, key MediaKey) error
	MoveMouse(ctx context.Context, x, y int) error
	Click(ctx context.Context) error
	TypeText(ctx context.Context, text string) error
}

// Screen writes a PNG capture of the desktop to path.
type Screen interface {
	Capture(ctx context.Context, path string) error
}

type Volume interface {
	AdjustVolume(ctx context.Context, action VolumeAction) error
}

type Display interface {
	DisplayOff(ctx context.Context) error
}

// Capabilities holds the optional features of this host. A nil field means
// the capability is absent.
type Capabilities struct {
	Brightness Brightness
	Input      Input
	Screen     Screen
	Volume     Volume
	Display    Display
}
