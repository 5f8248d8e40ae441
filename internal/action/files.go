package action

import (
	"context"
	"mime"
	"os"
	"path/filepath"

	"codeberg.org/mutker/hostctl/internal/errors"
)

const screenshotLayout = "20060102_150405"

func (d *Dispatcher) registerFiles() {
	d.register(&action{
		name:      "screenshot",
		endpoint:  "/screenshot",
		category:  CategoryFiles,
		available: func() bool { return d.deps.Capabilities.Screen != nil },
		handler:   d.screenshot,
	})
	d.register(&action{
		name:     "download",
		endpoint: "/download?path=",
		category: CategoryFiles,
		handler:  d.download,
	})
}

func (d *Dispatcher) screenshot(ctx context.Context, _ Request) Result {
	screen := d.deps.Capabilities.Screen
	if screen == nil {
		return unavailable("Screen capture")
	}

	name := "screenshot_" + d.deps.Now().Format(screenshotLayout) + ".png"
	path := filepath.Join(d.deps.TempDir, name)

	if err := screen.Capture(ctx, path); err != nil {
		_ = os.Remove(path)
		return Fail(KindServerError, err.Error())
	}

	return File(Attachment{Path: path, Name: name, ContentType: "image/png", Remove: true})
}

func (d *Dispatcher) download(_ context.Context, req Request) Result {
	path := req.Param("path")
	if path == "" {
		return Fail(KindBadRequest, "No path provided")
	}

	fi, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return Fail(KindNotFound, "File not found")
	case err != nil:
		return classify(err)
	case !fi.Mode().IsRegular():
		return Fail(KindServerError, "Not a regular file: "+path)
	}

	ctype := mime.TypeByExtension(filepath.Ext(path))
	if ctype == "" {
		ctype = "application/octet-stream"
	}

	return File(Attachment{Path: path, Name: filepath.Base(path), ContentType: ctype})
}
