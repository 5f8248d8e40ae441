//go:build linux

package platform

import (
	"context"
	"strconv"

	"codeberg.org/mutker/hostctl/internal/errors"
)

func detectCapabilities(opts Options) Capabilities {
	var caps Capabilities

	if firstTool(opts.LookPath, "brightnessctl") != "" {
		caps.Brightness = &brightnessctl{runner: opts.Runner}
	}
	if firstTool(opts.LookPath, "xdotool") != "" {
		caps.Input = &xdotool{runner: opts.Runner}
	}
	if tool := firstTool(opts.LookPath, "grim", "scrot", "import"); tool != "" {
		caps.Screen = &screenshotTool{runner: opts.Runner, tool: tool}
	}
	if tool := firstTool(opts.LookPath, "wpctl", "pactl"); tool != "" {
		caps.Volume = &mixer{runner: opts.Runner, tool: tool}
	}
	if firstTool(opts.LookPath, "xset") != "" {
		caps.Display = &dpms{runner: opts.Runner}
	}

	return caps
}

type brightnessctl struct {
	runner Runner
}

func (b *brightnessctl) Brightness(ctx context.Context) (int, error) {
	out, err := output(ctx, b.runner, "brightnessctl", "-m")
	if err != nil {
		return 0, err
	}

	level, err := parseBrightnessctl(out)
	if err != nil {
		return 0, errors.New().Wrap(ErrQueryFailed, err)
	}

	return level, nil
}

func (b *brightnessctl) SetBrightness(ctx context.Context, level int) error {
	return run(ctx, b.runner, "brightnessctl", "set", strconv.Itoa(ClampLevel(level))+"%")
}

type xdotool struct {
	runner Runner
}

var xdotoolKeys = map[MediaKey]string{
	KeyPlayPause: "XF86AudioPlay",
	KeyNext:      "XF86AudioNext",
	KeyPrev:      "XF86AudioPrev",
}

func (x *xdotool) PressMediaKey(ctx context.Context, key MediaKey) error {
	sym, ok := xdotoolKeys[key]
	if !ok {
		return errors.New().WithData(ErrUnsupported, string(key))
	}

	return run(ctx, x.runner, "xdotool", "key", sym)
}

func (x *xdotool) MoveMouse(ctx context.Context, px, py int) error {
	return run(ctx, x.runner, "xdotool", "mousemove", strconv.Itoa(px), strconv.Itoa(py))
}

func (x *xdotool) Click(ctx context.Context) error {
	return run(ctx, x.runner, "xdotool", "click", "1")
}

func (x *xdotool) TypeText(ctx context.Context, text string) error {
	return run(ctx, x.runner, "xdotool", "type", "--", text)
}

type screenshotTool struct {
	runner Runner
	tool   string
}

func (s *screenshotTool) Capture(ctx context.Context, path string) error {
	switch s.tool {
	case "import":
		return run(ctx, s.runner, "import", "-window", "root", path)
	case "scrot":
		return run(ctx, s.runner, "scrot", "--overwrite", path)
	default:
		return run(ctx, s.runner, s.tool, path)
	}
}

type mixer struct {
	runner Runner
	tool   string
}

func (m *mixer) AdjustVolume(ctx context.Context, action VolumeAction) error {
	args, ok := m.args(action)
	if !ok {
		return errors.New().WithData(ErrUnsupported, string(action))
	}

	return run(ctx, m.runner, m.tool, args...)
}

func (m *mixer) args(action VolumeAction) ([]string, bool) {
	if m.tool == "pactl" {
		switch action {
		case VolumeMute:
			return []string{"set-sink-mute", "@DEFAULT_SINK@", "toggle"}, true
		case VolumeUp:
			return []string{"set-sink-volume", "@DEFAULT_SINK@", "+5%"}, true
		case VolumeDown:
			return []string{"set-sink-volume", "@DEFAULT_SINK@", "-5%"}, true
		}
		return nil, false
	}

	switch action {
	case VolumeMute:
		return []string{"set-mute", "@DEFAULT_AUDIO_SINK@", "toggle"}, true
	case VolumeUp:
		return []string{"set-volume", "@DEFAULT_AUDIO_SINK@", "5%+"}, true
	case VolumeDown:
		return []string{"set-volume", "@DEFAULT_AUDIO_SINK@", "5%-"}, true
	}

	return nil, false
}

type dpms struct {
	runner Runner
}

func (d *dpms) DisplayOff(ctx context.Context) error {
	return run(ctx, d.runner, "xset", "dpms", "force", "off")
}
