//go:build windows

package platform

import (
	"context"
	"fmt"

	"codeberg.org/mutker/hostctl/internal/errors"
	"github.com/yusufpapurcu/wmi"
	"golang.org/x/sys/windows"
)

var (
	user32          = windows.NewLazySystemDLL("user32.dll")
	procKeybdEvent  = user32.NewProc("keybd_event")
	procMouseEvent  = user32.NewProc("mouse_event")
	procSetCursor   = user32.NewProc("SetCursorPos")
	procPostMessage = user32.NewProc("PostMessageW")
)

const (
	keyEventKeyUp = 0x0002

	vkVolumeMute = 0xAD
	vkVolumeDown = 0xAE
	vkVolumeUp   = 0xAF
	vkMediaNext  = 0xB0
	vkMediaPrev  = 0xB1
	vkMediaPlay  = 0xB3

	mouseLeftDown = 0x0002
	mouseLeftUp   = 0x0004

	hwndBroadcast  = 0xFFFF
	wmSysCommand   = 0x0112
	scMonitorPower = 0xF170
	monitorOff     = 2
)

func detectCapabilities(opts Options) Capabilities {
	caps := Capabilities{
		Input:   &user32Input{runner: opts.Runner},
		Volume:  user32Volume{},
		Display: user32Display{},
	}

	if firstTool(opts.LookPath, "powershell") != "" {
		caps.Screen = &psScreen{runner: opts.Runner}
		caps.Brightness = &wmiBrightness{runner: opts.Runner}
	}

	return caps
}

func powershell(ctx context.Context, r Runner, script string) error {
	return run(ctx, r, "powershell", "-NoProfile", "-NonInteractive", "-Command", script)
}

func tapKey(vk uintptr) error {
	if err := procKeybdEvent.Find(); err != nil {
		return errors.New().Wrap(ErrUnsupported, err)
	}

	procKeybdEvent.Call(vk, 0, 0, 0)
	procKeybdEvent.Call(vk, 0, keyEventKeyUp, 0)

	return nil
}

// wmiMonitorBrightness mirrors root\WMI WmiMonitorBrightness.
type wmiMonitorBrightness struct {
	CurrentBrightness uint8
}

type wmiBrightness struct {
	runner Runner
}

func (b *wmiBrightness) Brightness(_ context.Context) (int, error) {
	var dst []wmiMonitorBrightness
	if err := wmi.QueryNamespace("SELECT CurrentBrightness FROM WmiMonitorBrightness", &dst, `root\WMI`); err != nil {
		return 0, errors.New().Wrap(ErrQueryFailed, err)
	}
	if len(dst) == 0 {
		return 0, errors.New().WithMessage(ErrUnsupported, "no brightness-capable monitor")
	}

	return int(dst[0].CurrentBrightness), nil
}

func (b *wmiBrightness) SetBrightness(ctx context.Context, level int) error {
	script := fmt.Sprintf(
		"(Get-WmiObject -Namespace root/WMI -Class WmiMonitorBrightnessMethods).WmiSetBrightness(1,%d)",
		ClampLevel(level))

	return powershell(ctx, b.runner, script)
}

type user32Input struct {
	runner Runner
}

var mediaKeys = map[MediaKey]uintptr{
	KeyPlayPause: vkMediaPlay,
	KeyNext:      vkMediaNext,
	KeyPrev:      vkMediaPrev,
}

func (u *user32Input) PressMediaKey(_ context.Context, key MediaKey) error {
	vk, ok := mediaKeys[key]
	if !ok {
		return errors.New().WithData(ErrUnsupported, string(key))
	}

	return tapKey(vk)
}

func (u *user32Input) MoveMouse(_ context.Context, x, y int) error {
	r1, _, err := procSetCursor.Call(uintptr(x), uintptr(y))
	if r1 == 0 {
		return errors.New().Wrap(ErrCommandFailed, err)
	}

	return nil
}

func (u *user32Input) Click(_ context.Context) error {
	if err := procMouseEvent.Find(); err != nil {
		return errors.New().Wrap(ErrUnsupported, err)
	}

	procMouseEvent.Call(mouseLeftDown, 0, 0, 0, 0)
	procMouseEvent.Call(mouseLeftUp, 0, 0, 0, 0)

	return nil
}

func (u *user32Input) TypeText(ctx context.Context, text string) error {
	script := "Add-Type -AssemblyName System.Windows.Forms; " +
		"[System.Windows.Forms.SendKeys]::SendWait(" + psQuote(sendKeysEscape(text)) + ")"

	return powershell(ctx, u.runner, script)
}

type user32Volume struct{}

var volumeKeys = map[VolumeAction]uintptr{
	VolumeMute: vkVolumeMute,
	VolumeUp:   vkVolumeUp,
	VolumeDown: vkVolumeDown,
}

func (user32Volume) AdjustVolume(_ context.Context, action VolumeAction) error {
	vk, ok := volumeKeys[action]
	if !ok {
		return errors.New().WithData(ErrUnsupported, string(action))
	}

	return tapKey(vk)
}

type user32Display struct{}

func (user32Display) DisplayOff(_ context.Context) error {
	r1, _, err := procPostMessage.Call(hwndBroadcast, wmSysCommand, scMonitorPower, monitorOff)
	if r1 == 0 {
		return errors.New().Wrap(ErrCommandFailed, err)
	}

	return nil
}

type psScreen struct {
	runner Runner
}

func (s *psScreen) Capture(ctx context.Context, path string) error {
	script := "Add-Type -AssemblyName System.Windows.Forms,System.Drawing; " +
		"$b = [System.Windows.Forms.SystemInformation]::VirtualScreen; " +
		"$bmp = New-Object System.Drawing.Bitmap $b.Width, $b.Height; " +
		"$g = [System.Drawing.Graphics]::FromImage($bmp); " +
		"$g.CopyFromScreen($b.Left, $b.Top, 0, 0, $bmp.Size); " +
		"$bmp.Save(" + psQuote(path) + ", [System.Drawing.Imaging.ImageFormat]::Png); " +
		"$g.Dispose(); $bmp.Dispose()"

	return powershell(ctx, s.runner, script)
}
