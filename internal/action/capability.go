package action

import (
	"context"
	"strconv"

	"codeberg.org/mutker/hostctl/internal/platform"
)

func (d *Dispatcher) registerCapabilities() {
	caps := d.deps.Capabilities
	hasBrightness := func() bool { return caps.Brightness != nil }
	hasInput := func() bool { return caps.Input != nil }
	hasVolume := func() bool { return caps.Volume != nil }

	d.register(&action{name: "brightness.get", endpoint: "/brightness", category: CategoryBrightness,
		available: hasBrightness, handler: d.getBrightness})
	d.register(&action{name: "brightness.set", endpoint: "/brightness/{level}", category: CategoryBrightness,
		available: hasBrightness, detached: true, handler: d.setBrightness})

	for _, key := range []platform.MediaKey{platform.KeyPlayPause, platform.KeyNext, platform.KeyPrev} {
		d.register(&action{
			name:      "media." + string(key),
			endpoint:  "/media/" + string(key),
			category:  CategoryInput,
			available: hasInput,
			detached:  true,
			handler:   d.mediaKey(key),
		})
	}

	d.register(&action{name: "mouse.move", endpoint: "/mouse/move/{x}/{y}", category: CategoryInput,
		available: hasInput, detached: true, handler: d.moveMouse})
	d.register(&action{name: "mouse.click", endpoint: "/mouse/click", category: CategoryInput,
		available: hasInput, detached: true, handler: d.click})
	d.register(&action{name: "type", endpoint: "/type?text=", category: CategoryInput,
		available: hasInput, detached: true, handler: d.typeText})

	for _, va := range []platform.VolumeAction{platform.VolumeMute, platform.VolumeUp, platform.VolumeDown} {
		d.register(&action{
			name:      "volume." + string(va),
			endpoint:  "/volume/" + string(va),
			category:  CategoryVolume,
			available: hasVolume,
			detached:  true,
			handler:   d.volume(va),
		})
	}

	d.register(&action{
		name:      "display.off",
		endpoint:  "/display_off",
		category:  CategoryDisplay,
		available: func() bool { return caps.Display != nil },
		detached:  true,
		handler:   d.displayOff,
	})
}

const (
	noBrightness = "Brightness control"
	noInput      = "Input injection"
)

func (d *Dispatcher) getBrightness(ctx context.Context, _ Request) Result {
	b := d.deps.Capabilities.Brightness
	if b == nil {
		return unavailable(noBrightness)
	}

	level, err := b.Brightness(ctx)
	if err != nil {
		return classify(err)
	}

	return OK(Payload{"success": true, "brightness": level})
}

func (d *Dispatcher) setBrightness(ctx context.Context, req Request) Result {
	b := d.deps.Capabilities.Brightness
	if b == nil {
		return unavailable(noBrightness)
	}

	level, err := strconv.Atoi(req.Param("level"))
	if err != nil {
		return Fail(KindBadRequest, "Invalid brightness level: "+req.Param("level"))
	}
	level = platform.ClampLevel(level)

	if err := b.SetBrightness(ctx, level); err != nil {
		return classify(err)
	}

	return OK(Payload{"success": true, "brightness": level})
}

func (d *Dispatcher) mediaKey(key platform.MediaKey) Handler {
	return func(ctx context.Context, _ Request) Result {
		in := d.deps.Capabilities.Input
		if in == nil {
			return unavailable(noInput)
		}

		if err := in.PressMediaKey(ctx, key); err != nil {
			return classify(err)
		}

		return OK(Payload{"success": true})
	}
}

func (d *Dispatcher) moveMouse(ctx context.Context, req Request) Result {
	in := d.deps.Capabilities.Input
	if in == nil {
		return unavailable(noInput)
	}

	x, errX := strconv.Atoi(req.Param("x"))
	y, errY := strconv.Atoi(req.Param("y"))
	if errX != nil || errY != nil {
		return Fail(KindBadRequest, "Invalid mouse coordinates")
	}

	if err := in.MoveMouse(ctx, x, y); err != nil {
		return classify(err)
	}

	return OK(Payload{"success": true, "x": x, "y": y})
}

func (d *Dispatcher) click(ctx context.Context, _ Request) Result {
	in := d.deps.Capabilities.Input
	if in == nil {
		return unavailable(noInput)
	}

	if err := in.Click(ctx); err != nil {
		return classify(err)
	}

	return OK(Payload{"success": true})
}

func (d *Dispatcher) typeText(ctx context.Context, req Request) Result {
	in := d.deps.Capabilities.Input
	if in == nil {
		return unavailable(noInput)
	}

	text := req.Param("text")
	if text == "" {
		return Fail(KindBadRequest, "No text provided")
	}

	if err := in.TypeText(ctx, text); err != nil {
		return classify(err)
	}

	return OK(Payload{"success": true, "typed": text})
}

func (d *Dispatcher) volume(va platform.VolumeAction) Handler {
	return func(ctx context.Context, _ Request) Result {
		v := d.deps.Capabilities.Volume
		if v == nil {
			return unavailable("Volume control")
		}

		if err := v.AdjustVolume(ctx, va); err != nil {
			return classify(err)
		}

		return OK(Payload{"success": true, "action": "volume." + string(va)})
	}
}

func (d *Dispatcher) displayOff(ctx context.Context, _ Request) Result {
	disp := d.deps.Capabilities.Display
	if disp == nil {
		return unavailable("Display control")
	}

	if err := disp.DisplayOff(ctx); err != nil {
		return classify(err)
	}

	return OK(Payload{"success": true})
}
