//go:build linux

package platform

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookPathOf(tools ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, t := range tools {
			if t == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
}

func TestDetectCapabilitiesNone(t *testing.T) {
	caps := detectCapabilities(Options{Runner: newFakeRunner(), LookPath: lookPathOf()})

	for name, ok := range caps.Available() {
		assert.False(t, ok, name)
	}
}

func TestDetectCapabilitiesAll(t *testing.T) {
	caps := detectCapabilities(Options{
		Runner:   newFakeRunner(),
		LookPath: lookPathOf("brightnessctl", "xdotool", "scrot", "pactl", "xset"),
	})

	for name, ok := range caps.Available() {
		assert.True(t, ok, name)
	}
}

func TestLinuxCapabilityCommands(t *testing.T) {
	ctx := context.Background()
	runner := newFakeRunner()
	runner.outputs["brightnessctl -m"] = "intel_backlight,backlight,750,75%,1000"

	caps := detectCapabilities(Options{
		Runner:   runner,
		LookPath: lookPathOf("brightnessctl", "xdotool", "grim", "wpctl", "xset"),
	})

	level, err := caps.Brightness.Brightness(ctx)
	require.NoError(t, err)
	assert.Equal(t, 75, level)

	require.NoError(t, caps.Brightness.SetBrightness(ctx, 140))
	require.NoError(t, caps.Input.PressMediaKey(ctx, KeyNext))
	require.NoError(t, caps.Input.MoveMouse(ctx, 10, 20))
	require.NoError(t, caps.Input.Click(ctx))
	require.NoError(t, caps.Input.TypeText(ctx, "-n hi"))
	require.NoError(t, caps.Screen.Capture(ctx, "/tmp/shot.png"))
	require.NoError(t, caps.Volume.AdjustVolume(ctx, VolumeUp))
	require.NoError(t, caps.Display.DisplayOff(ctx))

	assert.Equal(t, []string{
		"brightnessctl -m",
		"brightnessctl set 100%",
		"xdotool key XF86AudioNext",
		"xdotool mousemove 10 20",
		"xdotool click 1",
		"xdotool type -- -n hi",
		"grim /tmp/shot.png",
		"wpctl set-volume @DEFAULT_AUDIO_SINK@ 5%+",
		"xset dpms force off",
	}, runner.commands())
}

func TestPactlVolume(t *testing.T) {
	runner := newFakeRunner()
	m := &mixer{runner: runner, tool: "pactl"}

	require.NoError(t, m.AdjustVolume(context.Background(), VolumeMute))
	require.Error(t, m.AdjustVolume(context.Background(), VolumeAction("loud")))
	assert.Equal(t, []string{"pactl set-sink-mute @DEFAULT_SINK@ toggle"}, runner.commands())
}
