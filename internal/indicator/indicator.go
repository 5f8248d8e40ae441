package indicator

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"codeberg.org/mutker/hostctl/internal/logger"
	"codeberg.org/mutker/hostctl/internal/telemetry"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const (
	plugged  = "⚡"
	barWidth = 20
)

// Show selects which battery fields the label carries.
type Show string

const (
	ShowPercent Show = "percent"
	ShowTime    Show = "time"
	ShowBoth    Show = "both"
)

// Refresher triggers an out-of-band telemetry tick.
type Refresher interface {
	Refresh()
}

type Options struct {
	// Thresholds are used as given; callers resolve defaults.
	Thresholds Thresholds
	Show       Show
	// StaleAfter is how long Run waits for a snapshot before asking
	// for a refresh. Zero disables the check.
	StaleAfter time.Duration
}

// Indicator renders the battery snapshot as a single colored line.
type Indicator struct {
	mu       sync.Mutex
	out      io.Writer
	renderer *lipgloss.Renderer
	opts     Options
	inPlace  bool
	lastSeen time.Time
	log      logger.Logger
}

// New creates an indicator writing to out. When out is a terminal each
// frame overwrites the previous one.
func New(out io.Writer, opts Options) *Indicator {
	if opts.Show == "" {
		opts.Show = ShowBoth
	}

	inPlace := false
	if f, ok := out.(*os.File); ok {
		inPlace = term.IsTerminal(int(f.Fd()))
	}

	return &Indicator{
		out:      out,
		renderer: lipgloss.NewRenderer(out),
		opts:     opts,
		inPlace:  inPlace,
		log:      logger.Default(),
	}
}

// Label is the text shown inside the bar.
func Label(snap telemetry.Snapshot, show Show) string {
	if !snap.BatteryKnown() {
		return telemetry.UnknownRemaining
	}
	if snap.Charging == telemetry.ChargeCharging {
		return plugged
	}

	pct := fmt.Sprintf("%d%%", snap.BatteryPercent)
	switch show {
	case ShowPercent:
		return pct
	case ShowTime:
		return snap.Remaining
	default:
		return pct + " • " + snap.Remaining
	}
}

// Render returns one frame for the snapshot.
func (i *Indicator) Render(snap telemetry.Snapshot) string {
	label := Label(snap, i.opts.Show)

	if !snap.BatteryKnown() {
		return i.renderer.NewStyle().
			Background(ColorUnknown).
			Foreground(textLight).
			Width(barWidth).
			Align(lipgloss.Center).
			Render(label)
	}

	bg := i.opts.Thresholds.ColorForPercent(snap.BatteryPercent)
	fill := barWidth * snap.BatteryPercent / 100

	// The label is centered across the bar; the first fill cells carry the level color.
	text := []rune(center(label, barWidth))
	filled := i.renderer.NewStyle().Background(bg).Foreground(ContrastText(bg))
	empty := i.renderer.NewStyle().Background(ColorUnknown).Foreground(textLight)

	return filled.Render(string(text[:fill])) + empty.Render(string(text[fill:]))
}

// Notify draws a frame. It is registered as a telemetry notifier.
func (i *Indicator) Notify(snap telemetry.Snapshot) {
	frame := i.Render(snap)

	i.mu.Lock()
	defer i.mu.Unlock()

	i.lastSeen = time.Now()

	var err error
	if i.inPlace {
		_, err = fmt.Fprintf(i.out, "\r\033[K%s", frame)
	} else {
		_, err = fmt.Fprintln(i.out, frame)
	}
	if err != nil {
		i.log.Debug().Err(err).Msg("Failed to draw indicator")
	}
}

// Run asks r for a refresh whenever no snapshot has arrived within
// StaleAfter. It returns when ctx is done.
func (i *Indicator) Run(ctx context.Context, r Refresher) {
	if i.inPlace {
		defer fmt.Fprintln(i.out)
	}

	if i.opts.StaleAfter <= 0 || r == nil {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(i.opts.StaleAfter)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if i.stale(now) {
				i.log.Debug().Msg("Indicator stale, requesting refresh")
				r.Refresh()
			}
		}
	}
}

func (i *Indicator) stale(now time.Time) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	return now.Sub(i.lastSeen) >= i.opts.StaleAfter
}

func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return string([]rune(s)[:width])
	}

	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}
